package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"FearIndex/internal/cache"
)

// DefaultSweepCron runs the cache sweep every ten minutes.
const DefaultSweepCron = "0 */10 * * * *"

// Scheduler runs housekeeping tasks on a cron schedule.
type Scheduler struct {
	Cron  *cron.Cron
	Store cache.Store
	TTL   time.Duration
	Now   func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(store cache.Store, ttl time.Duration) *Scheduler {
	return &Scheduler{
		Cron:  cron.New(cron.WithSeconds()),
		Store: store,
		TTL:   ttl,
		Now:   time.Now,
	}
}

// RegisterAll registers the cache sweep task.
func (s *Scheduler) RegisterAll(sweepCron string) error {
	if sweepCron == "" {
		sweepCron = DefaultSweepCron
	}
	if _, err := s.Cron.AddFunc(sweepCron, func() { s.SweepNow() }); err != nil {
		return fmt.Errorf("register cache sweep: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// SweepNow deletes cache entries older than the TTL and returns how many.
func (s *Scheduler) SweepNow() int {
	n, err := s.Store.Sweep(s.Now().Add(-s.TTL))
	if err != nil {
		log.Error().Err(err).Msg("cache sweep failed")
		return 0
	}
	if n > 0 {
		log.Info().Int("removed", n).Msg("expired cache entries swept")
	}
	return n
}
