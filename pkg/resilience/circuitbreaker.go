package resilience

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is in the Open state.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the current phase of a circuit breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker trips open after a run of consecutive failures so that a
// dead upstream does not consume a full retry schedule per call. After the
// reset timeout it allows a single half-open probe.
type CircuitBreaker struct {
	name             string
	failureThreshold int
	resetTimeout     time.Duration

	mu                  sync.Mutex
	state               State
	consecutiveFailures int
	lastFailureTime     time.Time
	probing             bool
	logger              *slog.Logger
}

// NewCircuitBreaker creates a CircuitBreaker. Zero values fall back to a
// threshold of 5 failures and a 30s reset timeout.
func NewCircuitBreaker(name string, failureThreshold int, resetTimeout time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}
	return &CircuitBreaker{
		name:             name,
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		state:            StateClosed,
		logger:           slog.Default().With("component", "circuit-breaker", "name", name),
	}
}

// Execute runs fn if the circuit allows it, recording success or failure.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}
	err := fn()
	cb.afterRequest(err)
	return err
}

// GetState returns the current State of the circuit breaker.
func (cb *CircuitBreaker) GetState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset forces the circuit breaker back to the Closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.consecutiveFailures = 0
	cb.probing = false
	cb.logger.Info("circuit manually reset")
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case StateClosed:
		return nil
	case StateOpen:
		if time.Since(cb.lastFailureTime) >= cb.resetTimeout {
			cb.state = StateHalfOpen
			cb.probing = false
			cb.logger.Info("circuit transitioning to half-open", "after", cb.resetTimeout)
			return nil
		}
		return fmt.Errorf("%w: %s (retry after %v)", ErrCircuitOpen, cb.name, cb.resetTimeout-time.Since(cb.lastFailureTime))
	case StateHalfOpen:
		if cb.probing {
			return fmt.Errorf("%w: %s (probe in flight)", ErrCircuitOpen, cb.name)
		}
		cb.probing = true
		return nil
	}
	return nil
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err == nil {
		if cb.state == StateHalfOpen {
			cb.logger.Info("circuit closed (recovered)")
		}
		cb.state = StateClosed
		cb.consecutiveFailures = 0
		cb.probing = false
		return
	}

	cb.lastFailureTime = time.Now()
	cb.consecutiveFailures++
	switch cb.state {
	case StateClosed:
		if cb.consecutiveFailures >= cb.failureThreshold {
			cb.state = StateOpen
			cb.logger.Warn("circuit opened",
				"consecutive_failures", cb.consecutiveFailures,
				"threshold", cb.failureThreshold,
			)
		}
	case StateHalfOpen:
		cb.state = StateOpen
		cb.probing = false
		cb.logger.Warn("circuit re-opened (half-open probe failed)")
	}
}
