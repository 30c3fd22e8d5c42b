package model

import "time"

// PricePoint is a single closing price on a session date.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// AlignedRow holds both prices for a date present in both series.
type AlignedRow struct {
	Time time.Time `json:"date"`
	A    float64   `json:"a"`
	B    float64   `json:"b"`
}

// RatioRow extends AlignedRow with the scaled ratio A/B*1000.
type RatioRow struct {
	AlignedRow
	Ratio float64 `json:"ratio"`
}

// Row is a fully computed output row.
type Row struct {
	RatioRow
	MovingAverage   NullFloat `json:"moving_average"`
	BollingerMiddle NullFloat `json:"bb_middle"`
	BollingerUpper  NullFloat `json:"bb_upper"`
	BollingerLower  NullFloat `json:"bb_lower"`
}

// Ratios extracts the ratio column.
func Ratios(rows []RatioRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Ratio
	}
	return out
}
