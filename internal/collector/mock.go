package collector

import (
	"context"
	"time"

	"EtfRadar/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Histories maps tickers to canned responses; Errs maps tickers to fetch
// failures. A ticker in neither map yields a generated series.
type MockFetcher struct {
	Histories map[string]*model.PriceHistory
	Errs      map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPriceHistory(_ context.Context, ticker string) (*model.PriceHistory, error) {
	if err, ok := m.Errs[ticker]; ok {
		return nil, err
	}
	if hist, ok := m.Histories[ticker]; ok {
		return hist, nil
	}
	hist := &model.PriceHistory{Points: GeneratePoints(100, 300, time.Now())}
	last := hist.Points[len(hist.Points)-1]
	hist.CurrentPrice = model.SomeFloat(last.Close)
	hist.PreviousClose = model.SomeFloat(hist.Points[len(hist.Points)-2].Close)
	return hist, nil
}

// GeneratePoints builds a gently drifting daily close series ending the
// day before `end`.
func GeneratePoints(basePrice float64, count int, end time.Time) []model.QuotePoint {
	points := make([]model.QuotePoint, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		points[i] = model.QuotePoint{
			Date:   end.AddDate(0, 0, -(count - i)),
			Close:  p,
			Volume: model.SomeFloat(1000000),
		}
	}
	return points
}
