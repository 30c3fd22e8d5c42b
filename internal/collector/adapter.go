package collector

import (
	"fmt"
	"math"
	"time"

	"FearIndex/internal/model"
)

// PriceField names the upstream column a series was built from.
type PriceField string

const (
	FieldAdjClose PriceField = "adj_close"
	FieldClose    PriceField = "close"
)

// PriceColumns is an upstream payload reduced to its candidate price
// columns. A nil column means the upstream did not provide it; nil cells
// are missing values.
type PriceColumns struct {
	Times    []time.Time
	AdjClose []*float64
	Close    []*float64
}

// Normalize picks the adjusted close if present, else the close, and
// builds PricePoints from it, skipping missing or non-finite cells. It
// returns model.ErrNoPriceField when neither column is usable.
func Normalize(cols PriceColumns) ([]model.PricePoint, PriceField, error) {
	var (
		column []*float64
		field  PriceField
	)
	switch {
	case usable(cols.AdjClose, len(cols.Times)):
		column, field = cols.AdjClose, FieldAdjClose
	case usable(cols.Close, len(cols.Times)):
		column, field = cols.Close, FieldClose
	default:
		return nil, "", fmt.Errorf("%w: expected %s or %s", model.ErrNoPriceField, FieldAdjClose, FieldClose)
	}

	points := make([]model.PricePoint, 0, len(cols.Times))
	for i, t := range cols.Times {
		v := column[i]
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		points = append(points, model.PricePoint{Time: t, Price: *v})
	}
	return points, field, nil
}

// usable reports whether a column is present, matches the timestamp
// count and holds at least one value.
func usable(column []*float64, n int) bool {
	if column == nil || len(column) != n {
		return false
	}
	for _, v := range column {
		if v != nil {
			return true
		}
	}
	return false
}

// clip keeps points whose date lies within [start, end].
func clip(points []model.PricePoint, start, end time.Time) []model.PricePoint {
	from, to := model.Date(start), model.Date(end)
	out := points[:0:0]
	for _, p := range points {
		d := model.Date(p.Time)
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, model.PricePoint{Time: d, Price: p.Price})
	}
	return out
}
