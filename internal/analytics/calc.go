// Package analytics turns downtime and quality records into dashboard
// figures: durations, period-over-period trends and per-reason groups.
// Every function here is pure; callers fetch and normalize the records.
package analytics

import (
	"fmt"
	"time"
)

// Trend directions
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionNone = "none"
)

type TrendData struct {
	CurrentValue  float64 `json:"currentValue"`
	PreviousValue float64 `json:"previousValue"`
	Trend         float64 `json:"trend"`
	Direction     string  `json:"direction"`
}

// Duration returns the minutes between start and end, or 0 when either
// is missing. End before start gives a negative result.
func Duration(start, end *time.Time) float64 {
	if start == nil || end == nil {
		return 0
	}
	return end.Sub(*start).Minutes()
}

// Trend computes the percent change from previous to current. A zero
// previous value always reports no change, whatever current is.
func Trend(current, previous float64) TrendData {
	t := TrendData{CurrentValue: current, PreviousValue: previous, Direction: DirectionNone}
	if previous == 0 {
		return t
	}
	t.Trend = (current - previous) / previous * 100
	switch {
	case t.Trend > 0:
		t.Direction = DirectionUp
	case t.Trend < 0:
		t.Direction = DirectionDown
	}
	return t
}

// MinutesToHours formats minutes as hours with one decimal place
func MinutesToHours(minutes float64) string {
	return fmt.Sprintf("%.1f", minutes/60)
}

func average(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}
