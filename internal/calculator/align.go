package calculator

import (
	"math"
	"sort"
	"time"

	"FearIndex/internal/model"
)

// Align joins two price series on their common dates, in ascending order.
// Rows where either price is NaN or infinite are dropped. If a date
// appears more than once in one input, the last occurrence wins.
func Align(a, b []model.PricePoint) []model.AlignedRow {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	pa := indexByDate(a)
	pb := indexByDate(b)

	rows := make([]model.AlignedRow, 0, min(len(pa), len(pb)))
	for key, va := range pa {
		vb, ok := pb[key]
		if !ok {
			continue
		}
		rows = append(rows, model.AlignedRow{Time: time.Unix(key, 0).UTC(), A: va, B: vb})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Time.Before(rows[j].Time) })
	return rows
}

func indexByDate(points []model.PricePoint) map[int64]float64 {
	m := make(map[int64]float64, len(points))
	for _, p := range points {
		key := model.Date(p.Time).Unix()
		if !finite(p.Price) {
			delete(m, key)
			continue
		}
		m[key] = p.Price
	}
	return m
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
