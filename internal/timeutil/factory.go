// Package timeutil keeps the factory's local time zone. Shift boundaries
// and the "today" dashboard period are computed in it.
package timeutil

import (
	"sync"
	"time"
)

var (
	mu       sync.RWMutex
	location = time.UTC
)

// SetLocation loads a zone by IANA name and makes it the factory zone.
// Unknown names fall back to a fixed IST offset.
func SetLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Fallback: create fixed zone if the tz database is not available
		loc = time.FixedZone("IST", 5*60*60+30*60) // UTC+5:30
	}
	mu.Lock()
	location = loc
	mu.Unlock()
	return loc
}

// Location returns the factory zone
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return location
}

// Now returns the current time in the factory zone
func Now() time.Time {
	return time.Now().In(Location())
}

// StartOfDay returns local midnight of t's day in the factory zone
func StartOfDay(t time.Time) time.Time {
	local := t.In(Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// Format renders t in the factory zone
func Format(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
