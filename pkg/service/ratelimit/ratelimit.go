package ratelimit

import (
	"sync"
	"time"
)

// Limiter gates requests per caller key
type Limiter interface {
	// Allow reports whether the key may make another request now
	Allow(key string) bool
}

// SlidingWindow is an in-process sliding window limiter: a key may make
// at most limit requests within any window. Denied requests are not
// recorded, so a caller at the limit does not push its own window
// forward by retrying.
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewSlidingWindow creates a limiter allowing limit requests per window
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:  limit,
		window: window,
		hits:   map[string][]time.Time{},
		now:    time.Now,
	}
}

// Allow records and admits the request unless the key has exhausted its
// window. A non-positive limit disables the limiter.
func (l *SlidingWindow) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.hits[key] = kept
		return false
	}

	l.hits[key] = append(kept, now)
	return true
}
