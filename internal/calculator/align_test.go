package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FearIndex/internal/model"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func points(start int, prices ...float64) []model.PricePoint {
	out := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = model.PricePoint{Time: day(start + i), Price: p}
	}
	return out
}

func TestAlign_Intersection(t *testing.T) {
	a := points(0, 10, 11, 12, 13, 14)
	b := points(2, 4000, 4010, 4020, 4030, 4040)

	rows := Align(a, b)
	require.Len(t, rows, 3)
	assert.LessOrEqual(t, len(rows), min(len(a), len(b)))
	for i, r := range rows {
		assert.True(t, r.Time.Equal(day(2+i)), "row %d at %v", i, r.Time)
		assert.Equal(t, float64(12+i), r.A)
		assert.Equal(t, float64(4000+10*i), r.B)
	}
}

func TestAlign_UnorderedInputAndIntradayTimes(t *testing.T) {
	a := []model.PricePoint{
		{Time: day(3).Add(21 * time.Hour), Price: 3},
		{Time: day(1).Add(14 * time.Hour), Price: 1},
		{Time: day(2), Price: 2},
	}
	b := []model.PricePoint{
		{Time: day(2).Add(20 * time.Hour), Price: 200},
		{Time: day(1), Price: 100},
		{Time: day(3), Price: 300},
	}
	rows := Align(a, b)
	require.Len(t, rows, 3)
	for i := 1; i < len(rows); i++ {
		assert.True(t, rows[i-1].Time.Before(rows[i].Time))
	}
	assert.Equal(t, 1.0, rows[0].A)
	assert.Equal(t, 300.0, rows[2].B)
}

func TestAlign_DropsNonFinite(t *testing.T) {
	a := points(0, 10, math.NaN(), 12, math.Inf(1))
	b := points(0, 100, 100, math.NaN(), 100)
	rows := Align(a, b)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Time.Equal(day(0)))
}

func TestAlign_DuplicateDateLastWins(t *testing.T) {
	a := []model.PricePoint{{Time: day(0), Price: 1}, {Time: day(0), Price: 2}}
	b := points(0, 10)
	rows := Align(a, b)
	require.Len(t, rows, 1)
	assert.Equal(t, 2.0, rows[0].A)
}

func TestAlign_EmptyInputs(t *testing.T) {
	assert.Empty(t, Align(nil, points(0, 1)))
	assert.Empty(t, Align(points(0, 1), nil))
	assert.Empty(t, Align(points(0, 1, 2), points(10, 1, 2)))
}

func TestComputeRatio(t *testing.T) {
	rows := []model.AlignedRow{
		{Time: day(0), A: 20, B: 4000},
		{Time: day(1), A: 20, B: 0},
		{Time: day(2), A: 30, B: 3000},
	}
	out := ComputeRatio(rows)
	require.Len(t, out, 2)
	assert.InDelta(t, 5.0, out[0].Ratio, 1e-12)
	assert.InDelta(t, 10.0, out[1].Ratio, 1e-12)
	assert.True(t, out[1].Time.Equal(day(2)))
}
