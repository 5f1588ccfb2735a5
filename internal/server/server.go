// Package server exposes the watchlist and market data over a JSON HTTP API.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"EtfRadar/internal/market"
	"EtfRadar/internal/model"
	"EtfRadar/internal/recorder"
	"EtfRadar/internal/ticker"
	"EtfRadar/internal/watchlist"
)

// maxImportBytes bounds import payloads; a 50-item envelope is a few KB.
const maxImportBytes = 1 << 20

// Server wires the HTTP handlers to the core components.
type Server struct {
	Watchlist *watchlist.Manager
	Builder   *market.Builder
	Recorder  recorder.Recorder
}

// New creates a Server.
func New(wm *watchlist.Manager, b *market.Builder, rec recorder.Recorder) *Server {
	return &Server{Watchlist: wm, Builder: b, Recorder: rec}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/market-data", s.handleMarketData)
	mux.HandleFunc("GET /api/watchlist", s.handleGetWatchlist)
	mux.HandleFunc("PUT /api/watchlist", s.handleReplaceWatchlist)
	mux.HandleFunc("POST /api/watchlist/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/watchlist/tickers", s.handleAddTickers)
	mux.HandleFunc("DELETE /api/watchlist/tickers/{ticker}", s.handleRemoveTicker)
	mux.HandleFunc("PATCH /api/watchlist/tickers/{ticker}", s.handleUpdateTicker)
	mux.HandleFunc("GET /api/watchlist/export", s.handleExport)
	mux.HandleFunc("POST /api/watchlist/import", s.handleImport)
	return mux
}

// handleMarketData refreshes an ad-hoc ticker set from the query string.
// An empty or fully invalid set is a batch-level failure, reported
// distinctly from per-ticker errors.
func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	tickers := ticker.ParseInput(r.URL.Query().Get("tickers"))
	if len(tickers) == 0 {
		writeJSON(w, http.StatusBadRequest, model.BatchResult{
			RequestedAt: time.Now().UTC(),
			Rows:        []model.MarketRow{},
			Errors: []model.TickerError{
				{Ticker: "*", Message: "tickers query parameter is empty or invalid"},
			},
		})
		return
	}

	items := make([]model.WatchItem, len(tickers))
	for i, t := range tickers {
		items[i] = model.WatchItem{Ticker: t, Sector: ticker.DefaultSector}
	}
	writeJSON(w, http.StatusOK, s.Builder.Refresh(r.Context(), items))
}

type watchlistResponse struct {
	WatchItems []model.WatchItem `json:"watchItems"`
}

func (s *Server) handleGetWatchlist(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, watchlistResponse{WatchItems: s.Watchlist.Items()})
}

func (s *Server) handleReplaceWatchlist(w http.ResponseWriter, r *http.Request) {
	var req watchlistResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode watchlist: %w", err))
		return
	}
	items, err := s.Watchlist.Replace(req.WatchItems)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, watchlistResponse{WatchItems: items})
}

// handleRefresh rebuilds every row of the managed watchlist and records
// the batch.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	items := s.Watchlist.Items()
	if len(items) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("watchlist is empty"))
		return
	}
	batch := s.Builder.Refresh(r.Context(), items)
	if err := s.Recorder.RecordBatch(batch); err != nil {
		log.Printf("[ERROR] record batch: %v", err)
	}
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleAddTickers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tickers string `json:"tickers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	items, err := s.Watchlist.AddTickers(req.Tickers)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, watchlistResponse{WatchItems: items})
}

func (s *Server) handleRemoveTicker(w http.ResponseWriter, r *http.Request) {
	items, err := s.Watchlist.Remove(r.PathValue("ticker"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, watchlistResponse{WatchItems: items})
}

// handleUpdateTicker edits the sector and/or RSI target of one item.
// Absent fields are left alone; an explicit null clears the target.
func (s *Server) handleUpdateTicker(w http.ResponseWriter, r *http.Request) {
	// RecommendedRSI is raw so that an explicit null (clear the target)
	// is distinguishable from the field being absent (leave it alone).
	var req struct {
		Sector         *string         `json:"sector"`
		RecommendedRSI json.RawMessage `json:"recommendedRsi"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	symbol := r.PathValue("ticker")
	var items []model.WatchItem
	var err error
	if req.Sector != nil {
		if items, err = s.Watchlist.SetSector(symbol, *req.Sector); err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
	}
	if len(req.RecommendedRSI) > 0 {
		var rec model.Int
		if err := json.Unmarshal(req.RecommendedRSI, &rec); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decode recommendedRsi: %w", err))
			return
		}
		if items, err = s.Watchlist.SetRecommendedRSI(symbol, rec); err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
	}
	if items == nil {
		items = s.Watchlist.Items()
	}
	writeJSON(w, http.StatusOK, watchlistResponse{WatchItems: items})
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Watchlist.Export())
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read payload: %w", err))
		return
	}
	items, err := s.Watchlist.Import(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, watchlistResponse{WatchItems: items})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
