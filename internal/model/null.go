package model

import (
	"encoding/json"
	"strconv"
)

// NullFloat is a float64 that may be undefined, e.g. a moving average
// before the window has filled.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Some returns a defined NullFloat.
func Some(v float64) NullFloat { return NullFloat{Float64: v, Valid: true} }

// MarshalJSON encodes undefined values as null.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// UnmarshalJSON accepts null or a number.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// String formats the value at full precision, or "" when undefined.
func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}
