package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FearIndex/internal/cache"
)

func TestSweepNow(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	store := cache.NewMemoryStore()
	require.NoError(t, store.Put("a", cache.Entry{StoredAt: now.Add(-3 * time.Hour)}))
	require.NoError(t, store.Put("b", cache.Entry{StoredAt: now.Add(-30 * time.Minute)}))

	s := NewScheduler(store, time.Hour)
	s.Now = func() time.Time { return now }

	assert.Equal(t, 1, s.SweepNow())
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 0, s.SweepNow())
}

func TestRegisterAll(t *testing.T) {
	s := NewScheduler(cache.NewMemoryStore(), time.Hour)
	require.NoError(t, s.RegisterAll(""))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, NewScheduler(cache.NewMemoryStore(), time.Hour).RegisterAll("not a cron"))
}
