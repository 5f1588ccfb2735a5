package watchlist

import "EtfRadar/internal/model"

// DefaultWatchlist seeds a fresh installation with a set of leveraged
// sector ETFs and their RSI targets.
func DefaultWatchlist() []model.WatchItem {
	defaults := []struct {
		ticker string
		rsi    int
	}{
		{"BNKU", 35}, {"BULZ", 65}, {"CURE", 45}, {"DFEN", 40}, {"DPST", 35},
		{"DRN", 40}, {"DUSL", 40}, {"FAS", 45}, {"FNGU", 55}, {"HIBL", 55},
		{"LABU", 45}, {"MIDU", 45}, {"NAIL", 50}, {"PILL", 45}, {"RETL", 50},
		{"SOXL", 65}, {"TECL", 60}, {"TNA", 50}, {"TPOR", 40}, {"TQQQ", 60},
		{"UDOW", 50}, {"UPRO", 55}, {"UTSL", 35}, {"WANT", 55}, {"WEBL", 60},
	}
	items := make([]model.WatchItem, len(defaults))
	for i, d := range defaults {
		items[i] = model.WatchItem{
			Ticker:         d.ticker,
			Sector:         "Unassigned",
			RecommendedRSI: model.SomeInt(d.rsi),
		}
	}
	return items
}
