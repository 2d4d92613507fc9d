// Package ratelimit holds the in-process sliding-window limiter used to
// throttle stock-transaction submissions per acting user. State lives in
// process memory: it is best-effort, resets on restart, and is not shared
// across instances. Deployments running more than one API instance should
// select the redis backend instead.
package ratelimit

import (
	"sync"
	"time"
)

// Result reports the outcome of one admission check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// SlidingWindow tracks per-key hit timestamps inside a rolling window.
// The zero value is not usable; construct with NewSlidingWindow.
type SlidingWindow struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewSlidingWindow builds an empty limiter admitting at most limit hits per
// key within the window.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// Allow records a hit for key if the window has capacity and reports whether
// the hit was admitted.
func (s *SlidingWindow) Allow(key string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-s.window)

	kept := s.hits[key][:0]
	for _, t := range s.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= s.limit {
		s.hits[key] = kept
		resetIn := s.window - now.Sub(kept[0])
		if resetIn < 0 {
			resetIn = 0
		}
		return Result{Allowed: false, Remaining: 0, ResetIn: resetIn}
	}

	kept = append(kept, now)
	s.hits[key] = kept

	return Result{Allowed: true, Remaining: s.limit - len(kept)}
}

// Reset clears all recorded hits. Tests use this for isolation instead of
// relying on process restart.
func (s *SlidingWindow) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits = make(map[string][]time.Time)
}
