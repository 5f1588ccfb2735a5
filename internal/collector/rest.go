package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"time"

	"EtfRadar/internal/model"
)

// RestFetcher implements Fetcher against a self-hosted quote REST API.
// It is interchangeable with YahooFetcher at the Fetcher boundary.
type RestFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRestFetcher creates a new fetcher with optional proxy support.
func NewRestFetcher(baseURL, apiKey, proxyURL string) *RestFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RestFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RestFetcher) Name() string { return "rest" }

// restBar is the expected history entry shape.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

// restQuote is the expected live snapshot shape.
type restQuote struct {
	Price         *float64 `json:"price"`
	PreviousClose *float64 `json:"previousClose"`
	Volume        *float64 `json:"volume"`
}

// FetchPriceHistory pulls the daily series from the history endpoint and
// the live snapshot from the quote endpoint. A failing quote endpoint is
// not fatal: the snapshot values simply stay unavailable and the row
// degrades to its fallbacks.
func (f *RestFetcher) FetchPriceHistory(ctx context.Context, ticker string) (*model.PriceHistory, error) {
	endpoint := fmt.Sprintf("%s/api/v1/history?symbol=%s&range=2y", f.BaseURL, url.QueryEscape(ticker))
	data, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	var bars []restBar
	if err := json.Unmarshal(data, &bars); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}

	points := make([]model.QuotePoint, 0, len(bars))
	for _, b := range bars {
		if b.Close == nil {
			continue
		}
		p := model.QuotePoint{Date: time.Unix(b.Timestamp, 0), Close: *b.Close}
		if b.Volume != nil {
			p.Volume = model.SomeFloat(*b.Volume)
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	hist := &model.PriceHistory{Points: points}

	quoteEndpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, url.QueryEscape(ticker))
	if data, err := f.get(ctx, quoteEndpoint); err != nil {
		log.Printf("[WARN] quote snapshot for %s unavailable: %v", ticker, err)
	} else {
		var q restQuote
		if err := json.Unmarshal(data, &q); err != nil {
			log.Printf("[WARN] decode quote for %s: %v", ticker, err)
		} else {
			hist.CurrentPrice = optFloat(q.Price)
			hist.PreviousClose = optFloat(q.PreviousClose)
			hist.CurrentVolume = optFloat(q.Volume)
		}
	}
	return hist, nil
}

func (f *RestFetcher) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
