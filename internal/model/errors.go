package model

import "errors"

var (
	// ErrDataUnavailable means a fetch failed or returned no rows.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrEmptyAlignment means the two series share no valid dates.
	ErrEmptyAlignment = errors.New("no overlapping data")
	// ErrNoPriceField means an upstream payload has no usable close price.
	ErrNoPriceField = errors.New("no recognizable price field")
	// ErrInvalidParams means the requested date range is not acceptable.
	ErrInvalidParams = errors.New("invalid parameters")
)
