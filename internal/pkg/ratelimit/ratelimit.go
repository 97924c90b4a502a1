package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window rate limiter keyed by an opaque identifier
// (client IP for webhook endpoints). Single-process by design, matching
// the deployment model.
type Limiter struct {
	maxRequests int
	window      time.Duration

	mu      sync.Mutex
	history map[string][]time.Time
	now     func() time.Time
}

// New creates a limiter allowing maxRequests per window per identifier.
func New(maxRequests int, window time.Duration) *Limiter {
	if maxRequests <= 0 {
		maxRequests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		history:     make(map[string][]time.Time),
		now:         time.Now,
	}
}

// Allow reports whether a request for the identifier fits in the window
// and records it when it does.
func (l *Limiter) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.now()
	cutoff := current.Add(-l.window)

	kept := l.history[identifier][:0]
	for _, ts := range l.history[identifier] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.maxRequests {
		l.history[identifier] = kept
		return false
	}

	l.history[identifier] = append(kept, current)
	return true
}
