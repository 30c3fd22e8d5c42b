package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FearIndex/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[string][]model.PricePoint
	Errs   map[string]error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
	m.mu.Unlock()

	if err := m.Errs[symbol]; err != nil {
		return nil, err
	}
	points := clip(m.Series[symbol], start, end)
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s: no rows", model.ErrDataUnavailable, symbol)
	}
	return points, nil
}

// Calls reports how many times symbol was fetched.
func (m *MockFetcher) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

// GenerateMockSeries builds `days` consecutive daily points ending at end,
// oscillating gently around basePrice.
func GenerateMockSeries(basePrice float64, end time.Time, days int) []model.PricePoint {
	points := make([]model.PricePoint, days)
	last := model.Date(end)
	for i := 0; i < days; i++ {
		p := basePrice * (1 + float64(i%11-5)*0.004 + float64(i)*0.0005)
		points[i] = model.PricePoint{Time: last.AddDate(0, 0, -(days - 1 - i)), Price: p}
	}
	return points
}
