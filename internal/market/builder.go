// Package market derives per-ticker display rows from raw price history.
package market

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"EtfRadar/internal/calculator"
	"EtfRadar/internal/collector"
	"EtfRadar/internal/model"
)

// RSIWarmup is the minimum close count before RSI is evaluated. It sits
// well above the mathematical minimum of period+1 so the Wilder average
// has a long run-in to stabilize.
const RSIWarmup = 200

// Builder turns watch items into market rows. Now is swappable for tests.
type Builder struct {
	Fetcher collector.Fetcher
	Now     func() time.Time
}

// NewBuilder creates a Builder over the given fetcher.
func NewBuilder(fetcher collector.Fetcher) *Builder {
	return &Builder{Fetcher: fetcher, Now: time.Now}
}

// BuildRow fetches one ticker's history and derives every row metric.
// It never fails: a fetch error comes back as a status ERROR row with all
// derived fields unavailable, and missing pieces of an otherwise good
// fetch degrade the row to PARTIAL.
func (b *Builder) BuildRow(ctx context.Context, item model.WatchItem) model.MarketRow {
	now := b.Now()
	row := model.MarketRow{
		WatchItem:   item,
		LastUpdated: now.UTC(),
		Status:      model.StatusError,
	}

	hist, err := b.Fetcher.FetchPriceHistory(ctx, item.Ticker)
	if err != nil {
		row.Error = err.Error()
		return row
	}

	closes := make([]float64, len(hist.Points))
	for i, p := range hist.Points {
		closes[i] = p.Close
	}

	if len(closes) >= RSIWarmup {
		if rsi := calculator.RSI(closes, calculator.RSIPeriod); rsi.Valid {
			row.RSI14 = model.SomeFloat(calculator.Round2(rsi.Value))
			// Deviation against the user's target, from the unrounded RSI.
			if rec := item.RecommendedRSI; rec.Valid && rec.Value > 0 {
				target := float64(rec.Value)
				row.RSIDeviationPct = model.SomeFloat(calculator.Round2((rsi.Value - target) / target * 100))
			}
		}
	}

	// Prefer the live snapshot price, fall back to the latest close.
	current := hist.CurrentPrice
	if !current.Valid && len(closes) > 0 {
		current = model.SomeFloat(closes[len(closes)-1])
	}
	if current.Valid {
		row.Price = model.SomeFloat(calculator.Round2(current.Value))
	}

	if current.Valid && hist.PreviousClose.Valid && hist.PreviousClose.Value != 0 {
		prev := hist.PreviousClose.Value
		row.ChangePct1D = model.SomeFloat(calculator.Round2((current.Value - prev) / prev * 100))
	}

	if yearAgo, ok := closestToOneYearAgo(hist.Points, now); ok {
		row.Price1YAgo = model.SomeFloat(calculator.Round2(yearAgo.Close))
		if current.Valid && yearAgo.Close != 0 {
			row.Return1YPct = model.SomeFloat(calculator.Round2((current.Value - yearAgo.Close) / yearAgo.Close * 100))
		}
	}

	row.Volume = hist.CurrentVolume
	if !row.Volume.Valid && len(hist.Points) > 0 {
		row.Volume = hist.Points[len(hist.Points)-1].Volume
	}

	if row.RSI14.Valid && row.Price.Valid && row.Price1YAgo.Valid {
		row.Status = model.StatusOK
	} else {
		row.Status = model.StatusPartial
	}
	return row
}

// closestToOneYearAgo picks the point whose date is nearest to exactly
// 365 days before now. Ties go to the first-scanned point so the choice
// is deterministic regardless of provider.
func closestToOneYearAgo(points []model.QuotePoint, now time.Time) (model.QuotePoint, bool) {
	if len(points) == 0 {
		return model.QuotePoint{}, false
	}
	target := now.Add(-365 * 24 * time.Hour)
	best := points[0]
	bestDiff := absDuration(points[0].Date.Sub(target))
	for _, p := range points[1:] {
		if d := absDuration(p.Date.Sub(target)); d < bestDiff {
			best, bestDiff = p, d
		}
	}
	return best, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// Refresh fans one BuildRow out per watch item and joins when all are
// done. Rows keep the input order. A slow or failing ticker never delays
// or aborts its siblings, and no retry is attempted. The errors list
// projects ERROR rows only; PARTIAL rows are valid-but-incomplete, not
// failures.
func (b *Builder) Refresh(ctx context.Context, items []model.WatchItem) *model.BatchResult {
	res := &model.BatchResult{
		BatchID:     uuid.NewString(),
		RequestedAt: b.Now().UTC(),
		Rows:        make([]model.MarketRow, len(items)),
		Errors:      []model.TickerError{},
	}

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item model.WatchItem) {
			defer wg.Done()
			res.Rows[i] = b.BuildRow(ctx, item)
		}(i, item)
	}
	wg.Wait()

	for _, row := range res.Rows {
		if row.Status == model.StatusError {
			res.Errors = append(res.Errors, model.TickerError{Ticker: row.Ticker, Message: row.Error})
		}
	}
	return res
}
