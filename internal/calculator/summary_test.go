package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FearIndex/internal/model"
)

func TestSummarize(t *testing.T) {
	values := []float64{4, 1, 3, 2, 5}
	s, err := Summarize(values)
	require.NoError(t, err)

	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, 3.0, s.Median, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.InDelta(t, math.Sqrt(2), s.StdDev, 1e-12)
	assert.Equal(t, 5.0, s.Latest)
	assert.InDelta(t, 100.0, s.LatestRank, 1e-12)

	require.Len(t, s.Percentiles, 5)
	want := []float64{1.4, 2, 3, 4, 4.6}
	for i, p := range s.Percentiles {
		assert.Equal(t, DefaultPercentiles[i], p.Percentile)
		assert.InDelta(t, want[i], p.Value, 1e-12, "p%v", p.Percentile)
	}
}

func TestSummarize_SingleValue(t *testing.T) {
	s, err := Summarize([]float64{7})
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 7.0, s.Median)
	assert.Equal(t, 100.0, s.LatestRank)
	for _, p := range s.Percentiles {
		assert.Equal(t, 7.0, p.Value)
	}
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil)
	assert.True(t, errors.Is(err, model.ErrEmptyAlignment))
}

func TestSummarize_DoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_, err := Summarize(values)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestPercentile_EvenCount(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.InDelta(t, 2.5, Percentile(sorted, 50), 1e-12)
	assert.InDelta(t, 1.3, Percentile(sorted, 10), 1e-12)
	assert.InDelta(t, 3.7, Percentile(sorted, 90), 1e-12)
	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 4.0, Percentile(sorted, 100))
}

func TestPercentileRank_Monotonic(t *testing.T) {
	values := []float64{5, 3, 8, 1, 9, 3, 7}
	for _, x := range values {
		for _, y := range values {
			if x > y {
				assert.GreaterOrEqual(t, PercentileRank(values, x), PercentileRank(values, y))
			}
		}
	}
	assert.InDelta(t, 3.0/7.0*100, PercentileRank(values, 3), 1e-12)
}

func TestLatestChanges(t *testing.T) {
	rows := []model.RatioRow{
		{AlignedRow: model.AlignedRow{Time: day(0), A: 20, B: 4000}, Ratio: 5},
		{AlignedRow: model.AlignedRow{Time: day(1), A: 22, B: 4000}, Ratio: 5.5},
	}
	l := LatestChanges(rows)
	assert.Equal(t, 22.0, l.A.Current)
	assert.InDelta(t, 2.0, l.A.Delta.Float64, 1e-12)
	assert.InDelta(t, 10.0, l.A.DeltaPct.Float64, 1e-12)
	assert.InDelta(t, 0.0, l.B.Delta.Float64, 1e-12)
	assert.InDelta(t, 10.0, l.Ratio.DeltaPct.Float64, 1e-9)

	single := LatestChanges(rows[:1])
	assert.Equal(t, 20.0, single.A.Current)
	assert.False(t, single.A.Previous.Valid)
	assert.False(t, single.A.Delta.Valid)
}
