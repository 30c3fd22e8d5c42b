package collector

import (
	"context"
	"time"

	"FearIndex/internal/model"
)

// Fetcher returns daily closing prices for a symbol over [start, end],
// both dates inclusive. Implementations fail with model.ErrDataUnavailable
// when the upstream call errors or yields no rows.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error)
	Name() string
}
