package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FearIndex/internal/calculator"
	"FearIndex/internal/model"
)

var fixedNow = time.Date(2025, 6, 30, 15, 0, 0, 0, time.UTC)

func newTestCollector(f Fetcher) *Collector {
	c := NewCollector(f, "^VIX", "^GSPC", calculator.DefaultRollingOptions())
	c.Now = func() time.Time { return fixedNow }
	return c
}

func mockMarket(days int) *MockFetcher {
	return &MockFetcher{Series: map[string][]model.PricePoint{
		"^VIX":  GenerateMockSeries(18, fixedNow, days),
		"^GSPC": GenerateMockSeries(5200, fixedNow, days),
	}}
}

func TestCollect_FullPipeline(t *testing.T) {
	c := newTestCollector(mockMarket(120))
	params := model.Params{Start: fixedNow.AddDate(0, 0, -89), End: fixedNow}

	ds, err := c.Collect(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 90)

	assert.NotEmpty(t, ds.RunID)
	assert.Equal(t, "^VIX", ds.LabelA, "label defaults to the symbol")
	assert.Equal(t, 20, ds.MAWindow)
	assert.False(t, ds.Rows[18].MovingAverage.Valid)
	assert.True(t, ds.Rows[19].MovingAverage.Valid)
	assert.Equal(t, 90, ds.Summary.Count)
	assert.Equal(t, ds.LastRow().Ratio, ds.Summary.Latest)
	assert.NotEqual(t, model.BandUnavailable, ds.BandState)
	for _, r := range ds.Rows {
		assert.InDelta(t, r.A/r.B*1000, r.Ratio, 1e-9)
	}
}

func TestCollect_ShortRangeHasUnavailableBands(t *testing.T) {
	c := newTestCollector(mockMarket(30))
	ds, err := c.Collect(context.Background(), model.Params{Start: fixedNow.AddDate(0, 0, -4), End: fixedNow})
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 5)
	assert.Equal(t, model.BandUnavailable, ds.BandState)
}

func TestCollect_EmptyFetchStopsPipeline(t *testing.T) {
	m := mockMarket(60)
	m.Series["^GSPC"] = nil
	c := newTestCollector(m)

	ds, err := c.Collect(context.Background(), model.Params{Start: fixedNow.AddDate(0, 0, -30), End: fixedNow})
	assert.Nil(t, ds)
	assert.True(t, errors.Is(err, model.ErrDataUnavailable), "got %v", err)
}

func TestCollect_FirstFetchFailureSkipsSecond(t *testing.T) {
	m := mockMarket(60)
	m.Errs = map[string]error{"^VIX": errors.New("connection reset")}
	c := newTestCollector(m)

	_, err := c.Collect(context.Background(), model.Params{Start: fixedNow.AddDate(0, 0, -30), End: fixedNow})
	assert.True(t, errors.Is(err, model.ErrDataUnavailable))
	assert.Equal(t, 0, m.Calls("^GSPC"))
}

func TestCollect_NoOverlap(t *testing.T) {
	m := &MockFetcher{Series: map[string][]model.PricePoint{
		"^VIX":  GenerateMockSeries(18, fixedNow.AddDate(0, 0, -20), 10),
		"^GSPC": GenerateMockSeries(5200, fixedNow, 10),
	}}
	c := newTestCollector(m)

	_, err := c.Collect(context.Background(), model.Params{Start: fixedNow.AddDate(0, 0, -40), End: fixedNow})
	assert.True(t, errors.Is(err, model.ErrEmptyAlignment), "got %v", err)
	assert.False(t, errors.Is(err, model.ErrDataUnavailable))
}

func TestCollect_AllZeroDenominators(t *testing.T) {
	zeros := GenerateMockSeries(1, fixedNow, 10)
	for i := range zeros {
		zeros[i].Price = 0
	}
	m := &MockFetcher{Series: map[string][]model.PricePoint{
		"^VIX":  GenerateMockSeries(18, fixedNow, 10),
		"^GSPC": zeros,
	}}
	_, err := newTestCollector(m).Collect(context.Background(), model.Params{Start: fixedNow.AddDate(0, 0, -9), End: fixedNow})
	assert.True(t, errors.Is(err, model.ErrEmptyAlignment))
}

func TestCollect_InvalidParams(t *testing.T) {
	m := mockMarket(10)
	c := newTestCollector(m)

	_, err := c.Collect(context.Background(), model.Params{Start: fixedNow, End: fixedNow.AddDate(0, 0, -1)})
	assert.True(t, errors.Is(err, model.ErrInvalidParams))

	_, err = c.Collect(context.Background(), model.Params{Start: fixedNow, End: fixedNow.AddDate(0, 0, 1)})
	assert.True(t, errors.Is(err, model.ErrInvalidParams))
	assert.Equal(t, 0, m.Calls("^VIX"))
}
