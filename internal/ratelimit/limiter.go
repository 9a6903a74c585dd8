package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window request counter keyed by an arbitrary
// identifier string (e.g. "login:jane@school.edu"). State lives in
// process memory only; that is acceptable because it guards transient
// abuse, not a hard security boundary.
type Limiter struct {
	mu      sync.Mutex
	entries map[string][]time.Time

	now func() time.Time
}

func New() *Limiter {
	return &Limiter{
		entries: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow reports whether a request for identifier fits inside the
// window. Timestamps older than the window are evicted on every call.
// A rejected request is not recorded.
func (l *Limiter) Allow(identifier string, limit int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-window)

	recent := l.entries[identifier][:0]
	for _, t := range l.entries[identifier] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= limit {
		l.entries[identifier] = recent
		return false
	}

	l.entries[identifier] = append(recent, now)
	return true
}

// Sweep drops identifiers whose newest timestamp is older than maxAge
// and returns how many were purged. Meant to run on a schedule,
// independent of request traffic, to bound memory growth.
func (l *Limiter) Sweep(maxAge time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-maxAge)
	purged := 0
	for id, stamps := range l.entries {
		stale := true
		for _, t := range stamps {
			if t.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(l.entries, id)
			purged++
		}
	}
	return purged
}

// Size returns the number of tracked identifiers.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
