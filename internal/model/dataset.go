package model

import "time"

// BandState classifies the latest ratio against its Bollinger envelope.
type BandState string

const (
	BandAbove       BandState = "above upper band"
	BandBelow       BandState = "below lower band"
	BandWithin      BandState = "within bands"
	BandUnavailable BandState = "unavailable"
)

// PercentileValue is one entry of the percentile table.
type PercentileValue struct {
	Percentile float64 `json:"percentile"`
	Value      float64 `json:"value"`
}

// SummaryStats holds descriptive statistics over the full ratio series.
type SummaryStats struct {
	Count       int               `json:"count"`
	Mean        float64           `json:"mean"`
	Median      float64           `json:"median"`
	Min         float64           `json:"min"`
	Max         float64           `json:"max"`
	StdDev      float64           `json:"std_dev"` // population
	Percentiles []PercentileValue `json:"percentiles"`
	Latest      float64           `json:"latest"`
	LatestRank  float64           `json:"latest_rank"` // 0 ~ 100
}

// Change describes the last value of a column against the one before it.
type Change struct {
	Current  float64   `json:"current"`
	Previous NullFloat `json:"previous"`
	Delta    NullFloat `json:"delta"`
	DeltaPct NullFloat `json:"delta_pct"`
}

// Latest groups the most recent changes shown as metric widgets.
type Latest struct {
	A     Change `json:"a"`
	B     Change `json:"b"`
	Ratio Change `json:"ratio"`
}

// Dataset is the result of one computation pass.
type Dataset struct {
	RunID      string       `json:"run_id"`
	Source     string       `json:"source"`
	SymbolA    string       `json:"symbol_a"`
	SymbolB    string       `json:"symbol_b"`
	LabelA     string       `json:"label_a"`
	LabelB     string       `json:"label_b"`
	Start      time.Time    `json:"start"`
	End        time.Time    `json:"end"`
	MAWindow   int          `json:"ma_window"`
	BandPeriod int          `json:"band_period"`
	BandK      float64      `json:"band_k"`
	Rows       []Row        `json:"rows"`
	Summary    SummaryStats `json:"summary"`
	Latest     Latest       `json:"latest"`
	BandState  BandState    `json:"band_state"`
	ComputedAt time.Time    `json:"computed_at"`
}

// LastRow returns the most recent row. The dataset must not be empty.
func (d *Dataset) LastRow() Row {
	return d.Rows[len(d.Rows)-1]
}
