package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"EtfRadar/internal/collector"
	"EtfRadar/internal/market"
	"EtfRadar/internal/model"
	"EtfRadar/internal/recorder"
	"EtfRadar/internal/watchlist"
)

func newTestServer(t *testing.T, fetcher collector.Fetcher) *httptest.Server {
	t.Helper()
	wm, err := watchlist.NewManager(watchlist.NewFileStore(filepath.Join(t.TempDir(), "wl.json")))
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	b := market.NewBuilder(fetcher)
	srv := httptest.NewServer(New(wm, b, recorder.NewNoopRecorder()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func okHistory() *model.PriceHistory {
	points := make([]model.QuotePoint, 250)
	end := time.Now()
	for i := range points {
		points[i] = model.QuotePoint{Date: end.AddDate(0, 0, -(250 - i)), Close: 100 + float64(i)}
	}
	return &model.PriceHistory{
		Points:        points,
		CurrentPrice:  model.SomeFloat(110),
		PreviousClose: model.SomeFloat(100),
	}
}

func TestMarketData_EmptyTickersIsBatchFailure(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{})

	for _, q := range []string{"", "?tickers=", "?tickers=%24%24%24"} {
		resp, err := http.Get(srv.URL + "/api/market-data" + q)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		var batch model.BatchResult
		if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
			t.Fatalf("decode: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("query %q: expected 400, got %d", q, resp.StatusCode)
		}
		if len(batch.Rows) != 0 || len(batch.Errors) != 1 || batch.Errors[0].Ticker != "*" {
			t.Errorf("query %q: expected the sentinel batch error, got %+v", q, batch)
		}
	}
}

func TestMarketData_MixedBatch(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Histories: map[string]*model.PriceHistory{"SOXL": okHistory()},
		Errs:      map[string]error{"ZZZZ": errors.New("symbol not found")},
	}
	srv := newTestServer(t, fetcher)

	resp, err := http.Get(srv.URL + "/api/market-data?tickers=soxl,zzzz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var batch model.BatchResult
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(batch.Rows) != 2 || batch.Rows[0].Ticker != "SOXL" || batch.Rows[1].Ticker != "ZZZZ" {
		t.Fatalf("expected rows in input order, got %+v", batch.Rows)
	}
	if batch.Rows[0].Status != model.StatusOK || batch.Rows[1].Status != model.StatusError {
		t.Errorf("unexpected statuses %s / %s", batch.Rows[0].Status, batch.Rows[1].Status)
	}
	if len(batch.Errors) != 1 || batch.Errors[0].Ticker != "ZZZZ" || batch.Errors[0].Message != "symbol not found" {
		t.Errorf("unexpected errors %+v", batch.Errors)
	}
}

func TestMarketData_NullFieldsOnTheWire(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Errs: map[string]error{"ZZZZ": errors.New("symbol not found")},
	}
	srv := newTestServer(t, fetcher)

	resp, err := http.Get(srv.URL + "/api/market-data?tickers=ZZZZ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var raw struct {
		Rows []map[string]json.RawMessage `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(raw.Rows))
	}
	for _, field := range []string{"rsi14", "price", "price1yAgo", "volume"} {
		if string(raw.Rows[0][field]) != "null" {
			t.Errorf("field %s: expected JSON null, got %s", field, raw.Rows[0][field])
		}
	}
}

func TestWatchlistEndpoints(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{})
	client := srv.Client()

	// Add tickers.
	resp, err := client.Post(srv.URL+"/api/watchlist/tickers", "application/json",
		strings.NewReader(`{"tickers":"upst, qqqq"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add: expected 200, got %d", resp.StatusCode)
	}

	// Patch one.
	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/api/watchlist/tickers/UPST",
		strings.NewReader(`{"sector":"Fintech","recommendedRsi":45}`))
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	var got struct {
		WatchItems []model.WatchItem `json:"watchItems"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	found := false
	for _, item := range got.WatchItems {
		if item.Ticker == "UPST" {
			found = true
			if item.Sector != "Fintech" || item.RecommendedRSI != model.SomeInt(45) {
				t.Errorf("patch not applied: %+v", item)
			}
		}
	}
	if !found {
		t.Fatal("UPST missing after patch")
	}

	// Remove it.
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/watchlist/tickers/UPST", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete: expected 200, got %d", resp.StatusCode)
	}

	// Removing again is a 404.
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/watchlist/tickers/UPST", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for absent ticker, got %d", resp.StatusCode)
	}
}

func TestImportEndpoint_BadVersion(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{})

	resp, err := srv.Client().Post(srv.URL+"/api/watchlist/import", "application/json",
		strings.NewReader(`{"version":2,"watchItems":[{"ticker":"SPY"}]}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body["error"], "unsupported import format") {
		t.Errorf("expected descriptive error, got %q", body["error"])
	}
}

func TestExportImport_RoundTripOverHTTP(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{})
	client := srv.Client()

	resp, err := client.Get(srv.URL + "/api/watchlist/export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var envelope model.WatchlistExport
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	resp.Body.Close()
	if envelope.Version != model.ExportVersion || len(envelope.WatchItems) == 0 {
		t.Fatalf("unexpected envelope %+v", envelope)
	}

	payload, _ := json.Marshal(envelope)
	resp, err = client.Post(srv.URL+"/api/watchlist/import", "application/json", strings.NewReader(string(payload)))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got struct {
		WatchItems []model.WatchItem `json:"watchItems"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.WatchItems) != len(envelope.WatchItems) {
		t.Fatalf("round trip changed the list: %d vs %d", len(got.WatchItems), len(envelope.WatchItems))
	}
}
