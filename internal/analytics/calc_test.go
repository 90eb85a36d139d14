package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr(t time.Time) *time.Time { return &t }

func TestDurationMissingTimestamps(t *testing.T) {
	now := time.Now()
	assert.Zero(t, Duration(nil, nil))
	assert.Zero(t, Duration(&now, nil))
	assert.Zero(t, Duration(nil, &now))
}

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 90.0, Duration(&start, ptr(start.Add(90*time.Minute))))
	assert.Equal(t, 0.5, Duration(&start, ptr(start.Add(30*time.Second))))
}

func TestDurationNegativeIsNotClamped(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, -15.0, Duration(&start, ptr(start.Add(-15*time.Minute))))
}

func TestTrendZeroPrevious(t *testing.T) {
	for _, current := range []float64{0, 1, 250, -3} {
		tr := Trend(current, 0)
		assert.Zero(t, tr.Trend)
		assert.Equal(t, DirectionNone, tr.Direction)
		assert.Equal(t, current, tr.CurrentValue)
	}
}

func TestTrendPercent(t *testing.T) {
	tests := []struct {
		name      string
		current   float64
		previous  float64
		trend     float64
		direction string
	}{
		{"increase", 30, 20, 50, DirectionUp},
		{"decrease", 10, 40, -75, DirectionDown},
		{"flat", 12, 12, 0, DirectionNone},
		{"negative base", -5, -10, -50, DirectionDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Trend(tt.current, tt.previous)
			assert.InDelta(t, tt.trend, tr.Trend, 1e-9)
			assert.Equal(t, tt.direction, tr.Direction)
			assert.Equal(t, tt.previous, tr.PreviousValue)
		})
	}
}

func TestMinutesToHours(t *testing.T) {
	assert.Equal(t, "2.0", MinutesToHours(120))
	assert.Equal(t, "0.0", MinutesToHours(0))
	assert.Equal(t, "1.5", MinutesToHours(90))
	assert.Equal(t, "0.3", MinutesToHours(20))
}
