package notifier

import (
	"strings"
	"testing"
	"time"

	"EtfRadar/internal/model"
)

func TestFormatDigest(t *testing.T) {
	batch := &model.BatchResult{
		RequestedAt: time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC),
		Rows: []model.MarketRow{
			{
				WatchItem:       model.WatchItem{Ticker: "TECL", RecommendedRSI: model.SomeInt(60)},
				RSI14:           model.SomeFloat(71.2),
				RSIDeviationPct: model.SomeFloat(18.67),
				Price:           model.SomeFloat(92.41),
				ChangePct1D:     model.SomeFloat(1.1),
				Status:          model.StatusOK,
			},
			{
				WatchItem:       model.WatchItem{Ticker: "SOXL", RecommendedRSI: model.SomeInt(65)},
				RSI14:           model.SomeFloat(41.25),
				RSIDeviationPct: model.SomeFloat(-36.54),
				Price:           model.SomeFloat(23.1),
				Status:          model.StatusPartial,
			},
			{
				WatchItem: model.WatchItem{Ticker: "ZZZZ"},
				Status:    model.StatusError,
				Error:     "symbol not found",
			},
		},
	}
	got := FormatDigest(batch)

	soxl := strings.Index(got, "SOXL")
	tecl := strings.Index(got, "TECL")
	if soxl < 0 || tecl < 0 || soxl > tecl {
		t.Errorf("most oversold ticker should come first:\n%s", got)
	}
	if !strings.Contains(got, "-36.54") || !strings.Contains(got, "target 65") {
		t.Errorf("deviation line missing:\n%s", got)
	}
	if !strings.Contains(got, "—") {
		t.Errorf("unavailable fields should render as an em dash:\n%s", got)
	}
	if !strings.Contains(got, "ZZZZ: symbol not found") {
		t.Errorf("failed section missing:\n%s", got)
	}
}
