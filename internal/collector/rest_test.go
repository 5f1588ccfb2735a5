package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRestFetcher_QuoteFailureIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/v1/history"):
			w.Write([]byte(`[
				{"timestamp": 1755000000, "close": 100.0, "volume": 500},
				{"timestamp": 1755086400, "close": null},
				{"timestamp": 1755172800, "close": 101.5}
			]`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	f := NewRestFetcher(srv.URL, "test-key", "")
	hist, err := f.FetchPriceHistory(context.Background(), "SOXL")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(hist.Points) != 2 {
		t.Fatalf("null close must be skipped, got %d points", len(hist.Points))
	}
	if hist.CurrentPrice.Valid || hist.PreviousClose.Valid {
		t.Errorf("snapshot should stay unavailable when the quote endpoint fails: %+v", hist)
	}
}

func TestRestFetcher_HistoryFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewRestFetcher(srv.URL, "", "")
	if _, err := f.FetchPriceHistory(context.Background(), "ZZZZ"); err == nil {
		t.Fatal("expected an error when the history endpoint fails")
	}
}
