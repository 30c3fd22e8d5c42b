package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"FearIndex/internal/model"
)

func TestFormatReport(t *testing.T) {
	day := time.Date(2025, 6, 27, 0, 0, 0, 0, time.UTC)
	ds := &model.Dataset{
		RunID:      "run-1",
		Source:     "yahoo",
		SymbolA:    "^VIX",
		SymbolB:    "^GSPC",
		LabelA:     "VIX",
		LabelB:     "SP500",
		Start:      day.AddDate(-1, 0, 0),
		End:        day,
		BandPeriod: 20,
		BandK:      2,
		Rows: []model.Row{{
			RatioRow:        model.RatioRow{AlignedRow: model.AlignedRow{Time: day, A: 16.3, B: 6173.07}, Ratio: 2.6405},
			BollingerMiddle: model.Some(3.1),
			BollingerUpper:  model.Some(3.6),
			BollingerLower:  model.Some(2.6),
		}},
		Summary: model.SummaryStats{
			Count:       250,
			Mean:        3.2,
			Percentiles: []model.PercentileValue{{Percentile: 10, Value: 2.5}, {Percentile: 90, Value: 4.1}},
			Latest:      2.6405,
			LatestRank:  12.4,
		},
		Latest: model.Latest{
			A:     model.Change{Current: 16.3, Previous: model.Some(16.6), Delta: model.Some(-0.3), DeltaPct: model.Some(-1.807)},
			Ratio: model.Change{Current: 2.6405},
		},
		BandState:  model.BandWithin,
		ComputedAt: day.Add(20 * time.Hour),
	}

	out := FormatReport(ds)
	assert.Contains(t, out, "VIX/SP500 ratio report | 2024-06-27 to 2025-06-27")
	assert.Contains(t, out, "VIX:     16.30 (-0.30, -1.81%)")
	assert.Contains(t, out, "Ratio:   2.64\n")
	assert.Contains(t, out, "P10  2.5000")
	assert.Contains(t, out, "12.4th percentile")
	assert.Contains(t, out, "Band position: within bands (2.6000 .. 3.6000, k=2.0, period 20)")
	assert.Contains(t, out, "Source: yahoo ^VIX, ^GSPC")
}
