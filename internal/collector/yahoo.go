package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"EtfRadar/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance v8 chart API.
type YahooFetcher struct {
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from the Yahoo Finance chart API.
// Close and volume arrays carry nulls on holidays and halts.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp []int64 `json:"timestamp"`
			Meta      struct {
				RegularMarketPrice  *float64 `json:"regularMarketPrice"`
				PreviousClose       *float64 `json:"previousClose"`
				RegularMarketVolume *float64 `json:"regularMarketVolume"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchPriceHistory pulls two years of daily closes plus the live price,
// previous close and volume snapshot from the chart meta block.
func (f *YahooFetcher) FetchPriceHistory(ctx context.Context, ticker string) (*model.PriceHistory, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=2y&includePrePost=false&events=div%%2Csplits",
		url.PathEscape(f.yahooSymbol(ticker)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", resp.StatusCode)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no chart data for %s", ticker)
	}

	result := chart.Chart.Result[0]
	hist := &model.PriceHistory{
		CurrentPrice:  optFloat(result.Meta.RegularMarketPrice),
		PreviousClose: optFloat(result.Meta.PreviousClose),
		CurrentVolume: optFloat(result.Meta.RegularMarketVolume),
	}
	if len(result.Indicators.Quote) == 0 {
		return hist, nil
	}

	quote := result.Indicators.Quote[0]
	points := make([]model.QuotePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		c := quote.Close[i]
		if c == nil || math.IsNaN(*c) {
			continue // skip holes, never treat them as zero
		}
		p := model.QuotePoint{Date: time.Unix(ts, 0), Close: *c}
		if i < len(quote.Volume) {
			p.Volume = optFloat(quote.Volume[i])
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	hist.Points = points
	return hist, nil
}

func optFloat(v *float64) model.Float {
	if v == nil || math.IsNaN(*v) {
		return model.Float{}
	}
	return model.SomeFloat(*v)
}
