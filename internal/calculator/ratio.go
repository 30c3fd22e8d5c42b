package calculator

import "FearIndex/internal/model"

// RatioScale multiplies A/B so the ratio reads in convenient units.
const RatioScale = 1000.0

// ComputeRatio derives ratio = A/B*RatioScale for each aligned row.
// Rows with B == 0 are excluded.
func ComputeRatio(rows []model.AlignedRow) []model.RatioRow {
	out := make([]model.RatioRow, 0, len(rows))
	for _, r := range rows {
		if r.B == 0 {
			continue
		}
		ratio := r.A / r.B * RatioScale
		if !finite(ratio) {
			continue
		}
		out = append(out, model.RatioRow{AlignedRow: r, Ratio: ratio})
	}
	return out
}
