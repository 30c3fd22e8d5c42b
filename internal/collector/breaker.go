package collector

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"FearIndex/internal/model"
)

// errNoData means the upstream answered but had no rows for the range.
var errNoData = errors.New("no data returned")

// benignError marks a failed call that says nothing about upstream health:
// the caller gave up, or the upstream answered without usable rows.
type benignError struct{ err error }

func (e benignError) Error() string { return e.err.Error() }
func (e benignError) Unwrap() error { return e.err }

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			var b benignError
			return err == nil || errors.As(err, &b)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
}

// guarded runs fn through cb. Cancelled requests and empty or unparseable
// answers are returned as errors but do not count against the breaker.
func guarded(ctx context.Context, cb *gobreaker.CircuitBreaker, fn func() ([]model.PricePoint, error)) ([]model.PricePoint, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		points, err := fn()
		if err != nil && (ctx.Err() != nil || errors.Is(err, errNoData) || errors.Is(err, model.ErrNoPriceField)) {
			return nil, benignError{err}
		}
		return points, err
	})
	if err != nil {
		return nil, err
	}
	return res.([]model.PricePoint), nil
}
