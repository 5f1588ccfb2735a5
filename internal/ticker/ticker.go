// Package ticker normalizes and sanitizes ticker symbols. The same rules
// apply wherever watch items enter the system: user input, snapshot load,
// snapshot save, and import.
package ticker

import (
	"regexp"
	"strings"

	"EtfRadar/internal/model"
)

// MaxTickers caps every sanitized list; extra entries are dropped silently.
const MaxTickers = 50

// DefaultSector is assigned when a watch item carries no sector label.
const DefaultSector = "Unassigned"

var tickerRE = regexp.MustCompile(`^[A-Z0-9-]+$`)

// Normalize trims and uppercases a raw symbol.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Valid reports whether a normalized symbol is acceptable.
func Valid(t string) bool {
	return t != "" && tickerRE.MatchString(t)
}

// ParseInput splits a comma-delimited free-form string into canonical
// ticker symbols. Invalid tokens are dropped, duplicates keep their first
// position, and the result is capped at MaxTickers. An empty or fully
// invalid input yields an empty list; the caller decides whether that is
// an error.
func ParseInput(input string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(input, ",") {
		t := Normalize(part)
		if !Valid(t) {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) >= MaxTickers {
			break
		}
	}
	return out
}

// SanitizeItems applies the normalization rules to a whole watchlist:
// tickers are normalized and validated, duplicates collapse to the first
// occurrence, recommended RSI targets outside [1,99] are unset, empty
// sectors default, and the list is capped at MaxTickers.
func SanitizeItems(items []model.WatchItem) []model.WatchItem {
	seen := make(map[string]struct{})
	out := make([]model.WatchItem, 0, len(items))
	for _, item := range items {
		t := Normalize(item.Ticker)
		if !Valid(t) {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}

		rec := item.RecommendedRSI
		if rec.Valid && (rec.Value < 1 || rec.Value > 99) {
			rec = model.Int{}
		}
		sector := strings.TrimSpace(item.Sector)
		if sector == "" {
			sector = DefaultSector
		}

		out = append(out, model.WatchItem{Ticker: t, Sector: sector, RecommendedRSI: rec})
		if len(out) >= MaxTickers {
			break
		}
	}
	return out
}
