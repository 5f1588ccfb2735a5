package notifier

import (
	"fmt"
	"sort"
	"strings"

	"EtfRadar/internal/model"
)

// FormatDigest renders a refresh batch as a Telegram HTML message. Rows
// are sorted by RSI deviation, most oversold relative to the user's
// target first; rows without a deviation follow, and failed tickers are
// listed at the end.
func FormatDigest(batch *model.BatchResult) string {
	rows := make([]model.MarketRow, 0, len(batch.Rows))
	var failed []model.MarketRow
	for _, row := range batch.Rows {
		if row.Status == model.StatusError {
			failed = append(failed, row)
			continue
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].RSIDeviationPct, rows[j].RSIDeviationPct
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Value < b.Value
	})

	var sb strings.Builder
	sb.WriteString("📋 <b>Watchlist RSI digest</b>\n")
	sb.WriteString(fmt.Sprintf("%s | %d tickers\n\n", batch.RequestedAt.Format("2006-01-02 15:04 MST"), len(batch.Rows)))

	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("<b>%s</b> RSI %s", row.Ticker, fmtOpt(row.RSI14)))
		if row.RecommendedRSI.Valid {
			sb.WriteString(fmt.Sprintf(" (target %d, %s%%)", row.RecommendedRSI.Value, fmtOpt(row.RSIDeviationPct)))
		}
		sb.WriteString(fmt.Sprintf(" | $%s %s%%", fmtOpt(row.Price), fmtOpt(row.ChangePct1D)))
		if row.Status == model.StatusPartial {
			sb.WriteString(" ⚠️")
		}
		sb.WriteString("\n")
	}

	if len(failed) > 0 {
		sb.WriteString("\n❌ <b>Failed</b>\n")
		for _, row := range failed {
			sb.WriteString(fmt.Sprintf("%s: %s\n", row.Ticker, row.Error))
		}
	}
	return sb.String()
}

// fmtOpt renders an optional number, em-dash when unavailable.
func fmtOpt(f model.Float) string {
	if !f.Valid {
		return "—"
	}
	return fmt.Sprintf("%.2f", f.Value)
}
