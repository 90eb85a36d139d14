package analytics

import (
	"errors"
	"fmt"
	"time"
)

// Named periods
const (
	PeriodToday   = "today"
	PeriodDay     = "day"
	PeriodWeek    = "week"
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
	PeriodYear    = "year"
	PeriodCustom  = "custom"
)

var ErrUnknownPeriod = errors.New("unknown period")

// PeriodWindow is the half-open interval [Start, End)
type PeriodWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Previous returns the window of identical length that ends where w
// starts. It is never aligned to calendar boundaries.
func (w PeriodWindow) Previous() PeriodWindow {
	return PeriodWindow{Start: w.Start.Add(-w.End.Sub(w.Start)), End: w.Start}
}

func (w PeriodWindow) Minutes() float64 {
	return w.End.Sub(w.Start).Minutes()
}

var periodLengths = map[string]time.Duration{
	PeriodDay:     24 * time.Hour,
	PeriodWeek:    7 * 24 * time.Hour,
	PeriodMonth:   30 * 24 * time.Hour,
	PeriodQuarter: 90 * 24 * time.Hour,
	PeriodYear:    365 * 24 * time.Hour,
}

// ResolvePeriod maps a named period to the window ending at now. "today"
// starts at local midnight in loc. An empty name means "today".
func ResolvePeriod(name string, now time.Time, loc *time.Location) (PeriodWindow, error) {
	if loc == nil {
		loc = time.UTC
	}
	switch name {
	case "", PeriodToday:
		local := now.In(loc)
		midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		return PeriodWindow{Start: midnight, End: now}, nil
	}
	length, ok := periodLengths[name]
	if !ok {
		return PeriodWindow{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, name)
	}
	return PeriodWindow{Start: now.Add(-length), End: now}, nil
}

// CustomWindow validates an explicit [from, to) window
func CustomWindow(from, to time.Time) (PeriodWindow, error) {
	if from.IsZero() || to.IsZero() {
		return PeriodWindow{}, errors.New("custom period needs both from and to")
	}
	if !to.After(from) {
		return PeriodWindow{}, errors.New("custom period must end after it starts")
	}
	return PeriodWindow{Start: from, End: to}, nil
}
