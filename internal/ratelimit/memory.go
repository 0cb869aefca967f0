package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter keeps per-address attempt timestamps in process memory.
// Buckets are pruned on every check; address cardinality is unbounded.
type MemoryLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	now     func() time.Time
	buckets map[string][]time.Time
}

// NewMemoryLimiter builds an in-process sliding window limiter.
func NewMemoryLimiter(window time.Duration, max int) *MemoryLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 5
	}
	return &MemoryLimiter{
		window:  window,
		max:     max,
		now:     time.Now,
		buckets: make(map[string][]time.Time),
	}
}

// Allow prunes expired attempts for the address, rejects when the window is
// full, and otherwise records the current attempt.
func (l *MemoryLimiter) Allow(_ context.Context, addr string) error {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.buckets[addr][:0]
	for _, ts := range l.buckets[addr] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.max {
		l.buckets[addr] = kept
		return ErrRateLimited
	}

	l.buckets[addr] = append(kept, now)
	return nil
}
