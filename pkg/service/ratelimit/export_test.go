package ratelimit

import "time"

// SetClock replaces the wall clock for tests
func (l *SlidingWindow) SetClock(now func() time.Time) {
	l.now = now
}
