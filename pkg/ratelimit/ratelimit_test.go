package ratelimit

import (
	"testing"
	"time"
)

func TestSlidingWindowAdmitsUpToLimit(t *testing.T) {
	t.Parallel()

	limiter := NewSlidingWindow(3, time.Minute)

	for i := 0; i < 3; i++ {
		if res := limiter.Allow("u1"); !res.Allowed {
			t.Fatalf("hit %d should be admitted", i+1)
		}
	}
	if res := limiter.Allow("u1"); res.Allowed {
		t.Fatal("fourth hit should be rejected")
	}
	if res := limiter.Allow("u2"); !res.Allowed {
		t.Fatal("keys must be isolated")
	}
}

func TestSlidingWindowExpiresOldHits(t *testing.T) {
	t.Parallel()

	limiter := NewSlidingWindow(1, time.Minute)
	current := time.Now()
	limiter.now = func() time.Time { return current }

	if res := limiter.Allow("u1"); !res.Allowed {
		t.Fatal("first hit should pass")
	}
	if res := limiter.Allow("u1"); res.Allowed {
		t.Fatal("second hit inside window should fail")
	}

	current = current.Add(61 * time.Second)
	if res := limiter.Allow("u1"); !res.Allowed {
		t.Fatal("hit after window must pass again")
	}
}

func TestSlidingWindowReportsResetIn(t *testing.T) {
	t.Parallel()

	limiter := NewSlidingWindow(1, time.Minute)
	current := time.Now()
	limiter.now = func() time.Time { return current }

	limiter.Allow("u1")
	current = current.Add(20 * time.Second)
	res := limiter.Allow("u1")
	if res.Allowed {
		t.Fatal("expected rejection")
	}
	if res.ResetIn != 40*time.Second {
		t.Fatalf("expected 40s until reset, got %s", res.ResetIn)
	}
}

func TestResetClearsState(t *testing.T) {
	t.Parallel()

	limiter := NewSlidingWindow(1, time.Minute)
	limiter.Allow("u1")
	limiter.Reset()
	if res := limiter.Allow("u1"); !res.Allowed {
		t.Fatal("reset limiter must admit again")
	}
}
