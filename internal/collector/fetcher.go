package collector

import (
	"context"

	"EtfRadar/internal/model"
)

// Fetcher retrieves the daily price history and live snapshot for one
// ticker. Implementations must return a descriptive error when the ticker
// is unknown, the upstream is unreachable, or the response is malformed.
type Fetcher interface {
	FetchPriceHistory(ctx context.Context, ticker string) (*model.PriceHistory, error)
	Name() string
}
