package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeSleeper struct {
	delays []time.Duration
}

func (s *fakeSleeper) Sleep(ctx context.Context, d time.Duration) {
	s.delays = append(s.delays, d)
}

func TestNormalizedFillsDefaults(t *testing.T) {
	p := FixedPolicy{}.Normalized()
	if p.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", p.MaxAttempts)
	}
	if p.PacingDelay != time.Second {
		t.Errorf("PacingDelay = %v, want 1s", p.PacingDelay)
	}
	if p.FailureDelay != 2*time.Second {
		t.Errorf("FailureDelay = %v, want 2s", p.FailureDelay)
	}
	if p.CallTimeout != 8*time.Second {
		t.Errorf("CallTimeout = %v, want 8s", p.CallTimeout)
	}
	if p.Sleeper == nil {
		t.Error("Sleeper not defaulted")
	}
}

func TestNormalizedKeepsExplicitValues(t *testing.T) {
	p := FixedPolicy{MaxAttempts: 5, PacingDelay: 10 * time.Millisecond}.Normalized()
	if p.MaxAttempts != 5 || p.PacingDelay != 10*time.Millisecond {
		t.Errorf("explicit values overwritten: %+v", p)
	}
}

func TestPaceAndFailureBackoffUseDistinctDelays(t *testing.T) {
	s := &fakeSleeper{}
	p := FixedPolicy{Sleeper: s}.Normalized()

	ctx := context.Background()
	p.Pace(ctx)
	p.FailureBackoff(ctx)

	if len(s.delays) != 2 || s.delays[0] != time.Second || s.delays[1] != 2*time.Second {
		t.Errorf("delays = %v, want [1s 2s]", s.delays)
	}
}

func TestCallContextTimeout(t *testing.T) {
	p := FixedPolicy{CallTimeout: 50 * time.Millisecond}.Normalized()
	ctx, cancel := p.CallContext(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if remaining := time.Until(deadline); remaining > 50*time.Millisecond {
		t.Errorf("deadline too far out: %v", remaining)
	}
}

func TestWallClockRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	WallClock{}.Sleep(ctx, time.Minute)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Sleep ignored cancelled context, blocked %v", elapsed)
	}
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)
	failing := func() error { return errors.New("boom") }

	for i := 0; i < 3; i++ {
		if err := cb.Execute(failing); err == nil {
			t.Fatal("expected failure")
		}
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %v, want open", cb.GetState())
	}

	err := cb.Execute(func() error { return nil })
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond)
	if err := cb.Execute(func() error { return errors.New("boom") }); err == nil {
		t.Fatal("expected failure")
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %v, want open", cb.GetState())
	}

	time.Sleep(20 * time.Millisecond)

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
	if cb.GetState() != StateClosed {
		t.Errorf("state = %v, want closed after successful probe", cb.GetState())
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, time.Minute)
	fail := func() error { return errors.New("boom") }
	ok := func() error { return nil }

	cb.Execute(fail)
	cb.Execute(ok)
	cb.Execute(fail)

	if cb.GetState() != StateClosed {
		t.Errorf("state = %v, want closed (failures not consecutive)", cb.GetState())
	}
}

func TestCircuitBreakerReset(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, time.Minute)
	cb.Execute(func() error { return errors.New("boom") })
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %v, want open", cb.GetState())
	}
	cb.Reset()
	if cb.GetState() != StateClosed {
		t.Errorf("state = %v, want closed after Reset", cb.GetState())
	}
}
