package model

import "time"

// Holiday is a non-working date from the institutional calendar. The
// collection is consulted best-effort: its absence or a lookup failure
// must never block schedule resolution.
type Holiday struct {
	Date   time.Time // date component only; normalized to midnight UTC
	Reason string
	Campus string // empty = all campuses
}

// HolidayKey normalizes a date to its calendar-day key
func HolidayKey(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
