// Package resilience provides fault-tolerance primitives: a fixed-schedule
// retry policy for external lookups and a circuit breaker.
package resilience

import (
	"context"
	"time"
)

// Sleeper abstracts blocking delays so retry schedules can be exercised in
// tests without waiting on the wall clock.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration)
}

// WallClock is the default Sleeper, backed by a real timer. It wakes early
// when the context is cancelled.
type WallClock struct{}

func (WallClock) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// FixedPolicy is a retry policy with a fixed schedule rather than
// exponential backoff: a pacing delay before every attempt, a separate
// (longer) delay after transport-level failures, and a per-call timeout.
// Pacing and failure delays are deliberately distinct knobs.
type FixedPolicy struct {
	MaxAttempts  int
	PacingDelay  time.Duration
	FailureDelay time.Duration
	CallTimeout  time.Duration
	Sleeper      Sleeper
}

// DefaultFixedPolicy mirrors the schedule expected by rate-limited metadata
// services: 3 attempts, 1s pacing, 2s after failures, 8s per call.
func DefaultFixedPolicy() FixedPolicy {
	return FixedPolicy{
		MaxAttempts:  3,
		PacingDelay:  time.Second,
		FailureDelay: 2 * time.Second,
		CallTimeout:  8 * time.Second,
		Sleeper:      WallClock{},
	}
}

// Normalized returns a copy of the policy with defaults filled in for zero
// values.
func (p FixedPolicy) Normalized() FixedPolicy {
	defaults := DefaultFixedPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaults.MaxAttempts
	}
	if p.PacingDelay <= 0 {
		p.PacingDelay = defaults.PacingDelay
	}
	if p.FailureDelay <= 0 {
		p.FailureDelay = defaults.FailureDelay
	}
	if p.CallTimeout <= 0 {
		p.CallTimeout = defaults.CallTimeout
	}
	if p.Sleeper == nil {
		p.Sleeper = defaults.Sleeper
	}
	return p
}

// Pace blocks for the pacing delay that precedes every attempt.
func (p FixedPolicy) Pace(ctx context.Context) {
	p.Sleeper.Sleep(ctx, p.PacingDelay)
}

// FailureBackoff blocks for the delay applied after a transport failure.
func (p FixedPolicy) FailureBackoff(ctx context.Context) {
	p.Sleeper.Sleep(ctx, p.FailureDelay)
}

// CallContext derives a context bounded by the per-call timeout.
func (p FixedPolicy) CallContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.CallTimeout)
}
