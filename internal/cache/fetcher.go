package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"FearIndex/internal/collector"
	"FearIndex/internal/metrics"
	"FearIndex/internal/model"
)

// CachingFetcher serves fetches from a Store while they are fresh and
// refreshes them from Next otherwise. Failed fetches are never stored.
type CachingFetcher struct {
	Next    collector.Fetcher
	Store   Store
	TTL     time.Duration
	Metrics *metrics.Registry
	Now     func() time.Time
}

// NewCachingFetcher wraps next with store. A non-positive ttl uses DefaultTTL.
func NewCachingFetcher(next collector.Fetcher, store Store, ttl time.Duration) *CachingFetcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachingFetcher{Next: next, Store: store, TTL: ttl, Now: time.Now}
}

// Name reports the upstream source; the cache is transparent.
func (c *CachingFetcher) Name() string { return c.Next.Name() }

func (c *CachingFetcher) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	key := Key(symbol, start, end)
	now := c.Now()

	e, ok, err := c.Store.Get(key)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("key", key).Msg("cache read failed, fetching")
		c.Metrics.CacheLookup("error")
	case ok && e.Fresh(now, c.TTL):
		c.Metrics.CacheLookup("hit")
		log.Debug().Str("key", key).Dur("age", now.Sub(e.StoredAt)).Msg("cache hit")
		return e.Points, nil
	case ok:
		c.Metrics.CacheLookup("expired")
	default:
		c.Metrics.CacheLookup("miss")
	}

	points, err := c.Next.Fetch(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Put(key, Entry{Points: points, StoredAt: now}); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return points, nil
}
