package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"FearIndex/internal/calculator"
	"FearIndex/internal/metrics"
	"FearIndex/internal/model"
)

// Collector orchestrates data fetching and the derived-series computation.
type Collector struct {
	Fetcher Fetcher
	SymbolA string
	SymbolB string
	LabelA  string
	LabelB  string
	Options calculator.RollingOptions
	Metrics *metrics.Registry
	Now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbolA, symbolB string, opts calculator.RollingOptions) *Collector {
	return &Collector{
		Fetcher: fetcher,
		SymbolA: symbolA,
		SymbolB: symbolB,
		Options: opts,
		Now:     time.Now,
	}
}

// Collect fetches both series for the requested range and computes the
// ratio, rolling statistics and summary. It returns model.ErrInvalidParams,
// model.ErrDataUnavailable or model.ErrEmptyAlignment (wrapped) instead of
// a partial dataset.
func (c *Collector) Collect(ctx context.Context, params model.Params) (*model.Dataset, error) {
	ds, err := c.collect(ctx, params)
	c.Metrics.PipelineRun(outcome(err), rowCount(ds))
	return ds, err
}

func (c *Collector) collect(ctx context.Context, params model.Params) (*model.Dataset, error) {
	now := c.Now()
	if err := params.Validate(now); err != nil {
		return nil, err
	}
	if err := c.Options.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidParams, err)
	}
	runID := uuid.NewString()
	logger := log.With().Str("run_id", runID).
		Str("start", params.Start.Format(model.DateLayout)).
		Str("end", params.End.Format(model.DateLayout)).
		Logger()

	seriesA, err := c.fetch(ctx, c.SymbolA, params)
	if err != nil {
		logger.Warn().Err(err).Str("symbol", c.SymbolA).Msg("fetch failed")
		return nil, err
	}
	seriesB, err := c.fetch(ctx, c.SymbolB, params)
	if err != nil {
		logger.Warn().Err(err).Str("symbol", c.SymbolB).Msg("fetch failed")
		return nil, err
	}

	ratios := calculator.ComputeRatio(calculator.Align(seriesA, seriesB))
	if len(ratios) == 0 {
		logger.Warn().Int("rows_a", len(seriesA)).Int("rows_b", len(seriesB)).Msg("no overlapping rows")
		return nil, fmt.Errorf("%w: %s and %s share no valid dates between %s and %s",
			model.ErrEmptyAlignment, c.SymbolA, c.SymbolB,
			params.Start.Format(model.DateLayout), params.End.Format(model.DateLayout))
	}

	rows, err := calculator.Rolling(ratios, c.Options)
	if err != nil {
		return nil, err
	}
	summary, err := calculator.Summarize(model.Ratios(ratios))
	if err != nil {
		return nil, err
	}

	ds := &model.Dataset{
		RunID:      runID,
		Source:     c.Fetcher.Name(),
		SymbolA:    c.SymbolA,
		SymbolB:    c.SymbolB,
		LabelA:     labelOr(c.LabelA, c.SymbolA),
		LabelB:     labelOr(c.LabelB, c.SymbolB),
		Start:      model.Date(params.Start),
		End:        model.Date(params.End),
		MAWindow:   c.Options.MAWindow,
		BandPeriod: c.Options.BandPeriod,
		BandK:      c.Options.BandK,
		Rows:       rows,
		Summary:    summary,
		Latest:     calculator.LatestChanges(ratios),
		ComputedAt: now,
	}
	ds.BandState = calculator.Classify(ds.LastRow())

	logger.Info().
		Int("rows", len(rows)).
		Float64("ratio", summary.Latest).
		Float64("rank", summary.LatestRank).
		Str("band_state", string(ds.BandState)).
		Msg("dataset computed")
	return ds, nil
}

func (c *Collector) fetch(ctx context.Context, symbol string, params model.Params) ([]model.PricePoint, error) {
	began := time.Now()
	points, err := c.Fetcher.Fetch(ctx, symbol, model.Date(params.Start), model.Date(params.End))
	c.Metrics.ObserveFetch(symbol, err, time.Since(began))
	if err != nil {
		if !errors.Is(err, model.ErrDataUnavailable) {
			err = fmt.Errorf("%w: %s: %w", model.ErrDataUnavailable, symbol, err)
		}
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s: no rows", model.ErrDataUnavailable, symbol)
	}
	return points, nil
}

func labelOr(label, symbol string) string {
	if label != "" {
		return label
	}
	return symbol
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrInvalidParams):
		return "invalid_params"
	case errors.Is(err, model.ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, model.ErrEmptyAlignment):
		return "empty_alignment"
	default:
		return "error"
	}
}

func rowCount(ds *model.Dataset) int {
	if ds == nil {
		return 0
	}
	return len(ds.Rows)
}
