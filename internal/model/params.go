package model

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Toggles control what the dashboard shows. They never affect computation.
type Toggles struct {
	MovingAverage bool
	Bands         bool
	ShowA         bool
	ShowB         bool
}

// DefaultToggles has every component visible.
func DefaultToggles() Toggles {
	return Toggles{MovingAverage: true, Bands: true, ShowA: true, ShowB: true}
}

// Params is the user-selected date range.
type Params struct {
	Start time.Time
	End   time.Time
}

// DefaultParams covers the last `years` years up to today.
func DefaultParams(now time.Time, years int) Params {
	end := Date(now)
	return Params{Start: end.AddDate(-years, 0, 0), End: end}
}

// Validate checks end >= start and both not after today.
func (p Params) Validate(now time.Time) error {
	today := Date(now)
	start, end := Date(p.Start), Date(p.End)
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidParams)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidParams,
			end.Format(DateLayout), start.Format(DateLayout))
	}
	if end.After(today) {
		return fmt.Errorf("%w: end %s is in the future", ErrInvalidParams, end.Format(DateLayout))
	}
	return nil
}

// Date truncates t to its calendar date in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrInvalidParams, s)
	}
	return t, nil
}
