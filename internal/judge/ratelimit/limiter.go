// Package ratelimit guards the submit path with a sliding window,
// a cooldown period and a duplicate-code fingerprint check.
package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sync"
	"time"
)

// Reason classifies why a submission attempt was denied.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonCooldown  Reason = "cooldown"
	ReasonDuplicate Reason = "duplicate"
	ReasonWindow    Reason = "window"
)

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed     bool
	Reason      Reason
	Message     string
	WaitSeconds int
}

// Options configures a Limiter.
type Options struct {
	MaxAttempts int
	Window      time.Duration
	Cooldown    time.Duration
}

const (
	defaultMaxAttempts = 2
	defaultWindow      = 60 * time.Second
	defaultCooldown    = 60 * time.Second
)

// Limiter tracks submission attempts for a single user session.
// All state is in-memory; the mutex serializes the check/record pair
// against concurrent callers sharing the same session.
type Limiter struct {
	mu   sync.Mutex
	opts Options
	now  func() time.Time

	attempts        int
	windowStart     time.Time
	cooldownUntil   time.Time
	lastFingerprint string
}

// New creates a Limiter with defaults applied for unset options.
func New(opts Options) *Limiter {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Window <= 0 {
		opts.Window = defaultWindow
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = defaultCooldown
	}
	return &Limiter{opts: opts, now: time.Now}
}

// NewWithClock creates a Limiter with an injectable clock for tests.
func NewWithClock(opts Options, now func() time.Time) *Limiter {
	l := New(opts)
	if now != nil {
		l.now = now
	}
	return l
}

// Check decides whether a submission of code may proceed. It does not
// consume an attempt; callers must invoke Record exactly once after an
// allowed check, per actual submission.
func (l *Limiter) Check(code string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if now.Before(l.cooldownUntil) {
		wait := ceilSeconds(l.cooldownUntil.Sub(now))
		return Decision{
			Reason:      ReasonCooldown,
			Message:     fmt.Sprintf("too many submissions, try again in %ds", wait),
			WaitSeconds: wait,
		}
	}

	if l.lastFingerprint != "" && l.lastFingerprint == Fingerprint(code) {
		return Decision{
			Reason:  ReasonDuplicate,
			Message: "this code was already submitted, change it before submitting again",
		}
	}

	if now.Sub(l.windowStart) > l.opts.Window {
		l.attempts = 0
		l.windowStart = now
		return Decision{Allowed: true}
	}

	if l.attempts >= l.opts.MaxAttempts {
		l.cooldownUntil = now.Add(l.opts.Cooldown)
		wait := ceilSeconds(l.opts.Cooldown)
		return Decision{
			Reason:      ReasonCooldown,
			Message:     fmt.Sprintf("submission limit reached, try again in %ds", wait),
			WaitSeconds: wait,
		}
	}

	return Decision{Allowed: true}
}

// Record stores the fingerprint of code and consumes one attempt.
func (l *Limiter) Record(code string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.attempts == 0 {
		l.windowStart = l.now()
	}
	l.attempts++
	l.lastFingerprint = Fingerprint(code)
}

// Fingerprint returns a stable hash of submitted code. Collisions are
// tolerated: a false-positive duplicate rejection is an accepted tradeoff.
func Fingerprint(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
