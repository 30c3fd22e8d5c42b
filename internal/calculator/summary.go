package calculator

import (
	"math"
	"sort"

	"FearIndex/internal/model"
)

// DefaultPercentiles is the percentile table shown on the dashboard.
var DefaultPercentiles = []float64{10, 25, 50, 75, 90}

// Summarize computes descriptive statistics over the whole series. The last
// element is treated as the latest value. The standard deviation is the
// population one, so a single-value series has StdDev 0.
func Summarize(values []float64) (model.SummaryStats, error) {
	if len(values) == 0 {
		return model.SummaryStats{}, model.ErrEmptyAlignment
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean := Mean(values)
	stats := model.SummaryStats{
		Count:       len(values),
		Mean:        mean,
		Median:      Percentile(sorted, 50),
		Min:         sorted[0],
		Max:         sorted[len(sorted)-1],
		StdDev:      PopulationStdDev(values, mean),
		Percentiles: make([]model.PercentileValue, len(DefaultPercentiles)),
		Latest:      values[len(values)-1],
	}
	for i, p := range DefaultPercentiles {
		stats.Percentiles[i] = model.PercentileValue{Percentile: p, Value: Percentile(sorted, p)}
	}
	stats.LatestRank = PercentileRank(values, stats.Latest)
	return stats, nil
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopulationStdDev returns sqrt(sum((v-mean)^2)/n).
func PopulationStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// Percentile interpolates linearly between the order statistics of an
// ascending slice. p is in [0, 100].
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := (float64(n) - 1) * p / 100
	if h <= 0 {
		return sorted[0]
	}
	if h >= float64(n-1) {
		return sorted[n-1]
	}
	lo := int(math.Floor(h))
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// PercentileRank returns the share of values <= v, in percent.
func PercentileRank(values []float64, v float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, x := range values {
		if x <= v {
			count++
		}
	}
	return float64(count) / float64(len(values)) * 100
}

// LatestChanges reports the last value of each column against the previous row.
func LatestChanges(rows []model.RatioRow) model.Latest {
	if len(rows) == 0 {
		return model.Latest{}
	}
	last := rows[len(rows)-1]
	var prev *model.RatioRow
	if len(rows) > 1 {
		prev = &rows[len(rows)-2]
	}
	pick := func(f func(model.RatioRow) float64) model.Change {
		c := model.Change{Current: f(last)}
		if prev == nil {
			return c
		}
		p := f(*prev)
		c.Previous = model.Some(p)
		c.Delta = model.Some(c.Current - p)
		if p != 0 {
			c.DeltaPct = model.Some((c.Current - p) / p * 100)
		}
		return c
	}
	return model.Latest{
		A:     pick(func(r model.RatioRow) float64 { return r.A }),
		B:     pick(func(r model.RatioRow) float64 { return r.B }),
		Ratio: pick(func(r model.RatioRow) float64 { return r.Ratio }),
	}
}
