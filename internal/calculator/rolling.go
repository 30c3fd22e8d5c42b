package calculator

import (
	"errors"
	"fmt"
	"math"

	"FearIndex/internal/model"
)

// RollingOptions configures the trailing-window statistics.
type RollingOptions struct {
	MAWindow   int     // moving average window
	BandPeriod int     // Bollinger period
	BandK      float64 // Bollinger standard deviation multiplier
}

// DefaultRollingOptions returns the 20-day MA and 20/2 Bollinger bands.
func DefaultRollingOptions() RollingOptions {
	return RollingOptions{MAWindow: 20, BandPeriod: 20, BandK: 2}
}

// Validate rejects windows too small for a sample standard deviation.
func (o RollingOptions) Validate() error {
	if o.MAWindow < 2 {
		return fmt.Errorf("ma window must be at least 2, got %d", o.MAWindow)
	}
	if o.BandPeriod < 2 {
		return fmt.Errorf("band period must be at least 2, got %d", o.BandPeriod)
	}
	if o.BandK < 0 || math.IsNaN(o.BandK) {
		return fmt.Errorf("band multiplier must be non-negative, got %v", o.BandK)
	}
	return nil
}

// CalculateSMA computes the simple moving average of the last `period` prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateSampleStdDev computes the sample (n-1) standard deviation of the
// last `period` prices.
func CalculateSampleStdDev(prices []float64, period int) (float64, error) {
	if period < 2 {
		return 0, errors.New("period must be at least 2")
	}
	mean, err := CalculateSMA(prices, period)
	if err != nil {
		return 0, err
	}
	var ss float64
	for i := len(prices) - period; i < len(prices); i++ {
		d := prices[i] - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(period-1)), nil
}

// Rolling computes the moving average and Bollinger envelope for each row.
// Values are undefined until their window has filled.
func Rolling(series []model.RatioRow, opts RollingOptions) ([]model.Row, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	ratios := model.Ratios(series)
	rows := make([]model.Row, len(series))
	for i, r := range series {
		rows[i].RatioRow = r
		window := ratios[:i+1]

		if ma, err := CalculateSMA(window, opts.MAWindow); err == nil {
			rows[i].MovingAverage = model.Some(ma)
		}

		mid, err := CalculateSMA(window, opts.BandPeriod)
		if err != nil {
			continue
		}
		sd, err := CalculateSampleStdDev(window, opts.BandPeriod)
		if err != nil {
			continue
		}
		rows[i].BollingerMiddle = model.Some(mid)
		rows[i].BollingerUpper = model.Some(mid + opts.BandK*sd)
		rows[i].BollingerLower = model.Some(mid - opts.BandK*sd)
	}
	return rows, nil
}

// Classify places a row's ratio relative to its Bollinger bands.
func Classify(row model.Row) model.BandState {
	if !row.BollingerUpper.Valid || !row.BollingerLower.Valid {
		return model.BandUnavailable
	}
	switch {
	case row.Ratio > row.BollingerUpper.Float64:
		return model.BandAbove
	case row.Ratio < row.BollingerLower.Float64:
		return model.BandBelow
	default:
		return model.BandWithin
	}
}
