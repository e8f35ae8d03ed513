package ratelimit_test

import (
	"testing"
	"time"

	"codearena/internal/judge/ratelimit"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(opts ratelimit.Options) (*ratelimit.Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	return ratelimit.NewWithClock(opts, clock.now), clock
}

func TestThirdAttemptWithinWindowDenied(t *testing.T) {
	t.Parallel()
	limiter, _ := newTestLimiter(ratelimit.Options{MaxAttempts: 2, Window: time.Minute, Cooldown: time.Minute})

	for i, code := range []string{"code-a", "code-b"} {
		d := limiter.Check(code)
		if !d.Allowed {
			t.Fatalf("attempt %d: expected allowed, got %+v", i+1, d)
		}
		limiter.Record(code)
	}

	d := limiter.Check("code-c")
	if d.Allowed {
		t.Fatal("third attempt within window should be denied")
	}
	if d.Reason != ratelimit.ReasonCooldown {
		t.Fatalf("expected cooldown reason, got %q", d.Reason)
	}
	if d.WaitSeconds <= 0 {
		t.Fatalf("expected positive wait time, got %d", d.WaitSeconds)
	}
}

func TestDuplicateCodeDenied(t *testing.T) {
	t.Parallel()
	limiter, _ := newTestLimiter(ratelimit.Options{})

	d := limiter.Check("same code")
	if !d.Allowed {
		t.Fatalf("first check should pass, got %+v", d)
	}
	limiter.Record("same code")

	d = limiter.Check("same code")
	if d.Allowed {
		t.Fatal("identical code should be denied")
	}
	if d.Reason != ratelimit.ReasonDuplicate {
		t.Fatalf("expected duplicate reason, got %q", d.Reason)
	}
}

func TestCooldownExpires(t *testing.T) {
	t.Parallel()
	limiter, clock := newTestLimiter(ratelimit.Options{MaxAttempts: 1, Window: time.Minute, Cooldown: time.Minute})

	limiter.Record("first")
	if d := limiter.Check("second"); d.Allowed {
		t.Fatal("expected denial after exhausting attempts")
	}

	clock.advance(30 * time.Second)
	if d := limiter.Check("second"); d.Allowed || d.Reason != ratelimit.ReasonCooldown {
		t.Fatalf("expected cooldown to still apply, got %+v", d)
	}

	clock.advance(31 * time.Second)
	// Cooldown elapsed and the window start is more than a minute old,
	// so attempts implicitly reset.
	if d := limiter.Check("second"); !d.Allowed {
		t.Fatalf("expected allowance after cooldown and window elapsed, got %+v", d)
	}
}

func TestWindowReset(t *testing.T) {
	t.Parallel()
	limiter, clock := newTestLimiter(ratelimit.Options{MaxAttempts: 2, Window: time.Minute, Cooldown: time.Minute})

	limiter.Record("a")
	limiter.Record("b")

	clock.advance(61 * time.Second)
	if d := limiter.Check("c"); !d.Allowed {
		t.Fatalf("expected allowance after window elapsed, got %+v", d)
	}
}

func TestFingerprintStable(t *testing.T) {
	t.Parallel()
	if ratelimit.Fingerprint("x") != ratelimit.Fingerprint("x") {
		t.Fatal("fingerprint must be deterministic")
	}
	if ratelimit.Fingerprint("x") == ratelimit.Fingerprint("y") {
		t.Fatal("distinct inputs should not trivially collide")
	}
}
