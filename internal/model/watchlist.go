package model

import "time"

// WatchItem is a user-tracked ticker plus its display metadata and
// personalized RSI target.
type WatchItem struct {
	Ticker         string `json:"ticker"`
	Sector         string `json:"sector"`
	RecommendedRSI Int    `json:"recommendedRsi"`
}

// WatchlistExport is the versioned import/export envelope for a watchlist.
type WatchlistExport struct {
	Version    int         `json:"version"`
	ExportedAt time.Time   `json:"exportedAtISO"`
	WatchItems []WatchItem `json:"watchItems"`
}

// ExportVersion is the only envelope version this build understands.
const ExportVersion = 1
