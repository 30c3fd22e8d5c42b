package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FearIndex/internal/collector"
	"FearIndex/internal/model"
)

var t0 = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sqlite-memory": func(t *testing.T) Store {
			s, err := NewSQLiteStore(MemoryDSN)
			require.NoError(t, err)
			return s
		},
		"sqlite-file": func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_PutGetSweep(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()

			points := collector.GenerateMockSeries(18, t0, 5)
			require.NoError(t, s.Put("old", Entry{Points: points, StoredAt: t0.Add(-2 * time.Hour)}))
			require.NoError(t, s.Put("new", Entry{Points: points, StoredAt: t0}))

			e, ok, err := s.Get("new")
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, e.StoredAt.Equal(t0))
			require.Len(t, e.Points, len(points))
			for i := range points {
				assert.True(t, points[i].Time.Equal(e.Points[i].Time))
				assert.Equal(t, points[i].Price, e.Points[i].Price)
			}

			_, ok, err = s.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			n, err := s.Sweep(t0.Add(-time.Hour))
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			_, ok, _ = s.Get("old")
			assert.False(t, ok)
			_, ok, _ = s.Get("new")
			assert.True(t, ok)
		})
	}
}

func TestCachingFetcher_TTL(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			mock := &collector.MockFetcher{Series: map[string][]model.PricePoint{
				"^VIX": collector.GenerateMockSeries(18, t0, 30),
			}}
			clk := &clock{now: t0}
			store := newStore(t)
			defer store.Close()
			cf := NewCachingFetcher(mock, store, time.Hour)
			cf.Now = clk.Now

			start, end := model.Date(t0).AddDate(0, 0, -9), model.Date(t0)
			first, err := cf.Fetch(context.Background(), "^VIX", start, end)
			require.NoError(t, err)
			assert.Equal(t, 1, mock.Calls("^VIX"))

			clk.now = t0.Add(59 * time.Minute)
			second, err := cf.Fetch(context.Background(), "^VIX", start, end)
			require.NoError(t, err)
			assert.Equal(t, 1, mock.Calls("^VIX"), "served from cache")
			assert.Equal(t, len(first), len(second))

			// a different range is a different key
			_, err = cf.Fetch(context.Background(), "^VIX", start.AddDate(0, 0, 1), end)
			require.NoError(t, err)
			assert.Equal(t, 2, mock.Calls("^VIX"))

			clk.now = t0.Add(61 * time.Minute)
			_, err = cf.Fetch(context.Background(), "^VIX", start, end)
			require.NoError(t, err)
			assert.Equal(t, 3, mock.Calls("^VIX"), "expired entry refetched")
		})
	}
}

func TestCachingFetcher_FailuresNotCached(t *testing.T) {
	mock := &collector.MockFetcher{Errs: map[string]error{"^VIX": errors.New("timeout")}}
	store := NewMemoryStore()
	cf := NewCachingFetcher(mock, store, time.Hour)

	_, err := cf.Fetch(context.Background(), "^VIX", t0.AddDate(0, 0, -5), t0)
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())

	_, err = cf.Fetch(context.Background(), "^VIX", t0.AddDate(0, 0, -5), t0)
	require.Error(t, err)
	assert.Equal(t, 2, mock.Calls("^VIX"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "^VIX|2024-01-02|2024-02-03",
		Key("^VIX", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)))
}
