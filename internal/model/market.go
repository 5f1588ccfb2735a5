package model

import "time"

// QuotePoint is a single daily close observation.
type QuotePoint struct {
	Date   time.Time
	Close  float64
	Volume Float
}

// PriceHistory is the normalized output of a price fetcher: an ordered
// daily close series plus the provider's live snapshot values. Any of the
// snapshot values may be unavailable.
type PriceHistory struct {
	Points        []QuotePoint
	CurrentPrice  Float
	PreviousClose Float
	CurrentVolume Float
}

// RowStatus classifies a refreshed row.
type RowStatus string

const (
	// StatusOK means rsi14, price and price1yAgo are all present.
	StatusOK RowStatus = "OK"
	// StatusPartial means the fetch succeeded but at least one of
	// rsi14, price, price1yAgo is unavailable.
	StatusPartial RowStatus = "PARTIAL"
	// StatusError means the fetch itself failed; Error carries the reason
	// and every derived field is unavailable.
	StatusError RowStatus = "ERROR"
)

// MarketRow is the fully-derived per-ticker record: the watch item plus
// freshly computed market metrics. Rows are rebuilt whole on every refresh.
type MarketRow struct {
	WatchItem
	RSI14           Float     `json:"rsi14"`
	RSIDeviationPct Float     `json:"rsiDeviationPct"`
	Price           Float     `json:"price"`
	ChangePct1D     Float     `json:"changePct1d"`
	Price1YAgo      Float     `json:"price1yAgo"`
	Return1YPct     Float     `json:"return1yPct"`
	Volume          Float     `json:"volume"`
	LastUpdated     time.Time `json:"lastUpdatedISO"`
	Status          RowStatus `json:"status"`
	Error           string    `json:"error,omitempty"`
}

// TickerError pairs a ticker with its fetch failure message.
type TickerError struct {
	Ticker  string `json:"ticker"`
	Message string `json:"message"`
}

// BatchResult is the outcome of refreshing a set of watch items. Rows keep
// the input order; Errors lists only rows whose fetch failed.
type BatchResult struct {
	BatchID     string        `json:"batchId"`
	RequestedAt time.Time     `json:"requestedAtISO"`
	Rows        []MarketRow   `json:"rows"`
	Errors      []TickerError `json:"errors"`
}
