// Package cache memoizes fetch results for a short freshness window.
package cache

import (
	"fmt"
	"time"

	"FearIndex/internal/model"
)

// DefaultTTL is how long a fetched series stays fresh.
const DefaultTTL = time.Hour

// Entry is an immutable stored fetch result.
type Entry struct {
	Points   []model.PricePoint
	StoredAt time.Time
}

// Fresh reports whether the entry is younger than ttl at now.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.StoredAt) < ttl
}

// Store persists entries by key. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(key string) (Entry, bool, error)
	Put(key string, e Entry) error
	// Sweep removes entries stored before cutoff and returns how many.
	Sweep(cutoff time.Time) (int, error)
	Close() error
}

// Key identifies one fetch: symbol and inclusive date range.
func Key(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s|%s|%s", symbol, start.Format(model.DateLayout), end.Format(model.DateLayout))
}
