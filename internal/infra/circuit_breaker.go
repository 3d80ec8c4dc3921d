package infra

import (
	"errors"
	"sync"
	"time"
)

// CircuitBreaker shields the worker pool from a misbehaving SMTP relay.
// After FailureThreshold consecutive failures it fast-fails every call for
// OpenTimeout, then lets probes through until SuccessThreshold of them
// succeed in a row.

// ErrCircuitOpen is returned by Execute while the breaker is tripped.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CBState is the breaker's externally visible state.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// CircuitBreakerConfig tunes the trip and recovery thresholds.
type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	OpenTimeout      time.Duration
}

// DefaultCBConfig matches what a flaky mail relay typically needs: trip
// after 5 straight failures, stay dark a minute, close after 2 good probes.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{FailureThreshold: 5, SuccessThreshold: 2, OpenTimeout: time.Minute}
}

type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu        sync.Mutex
	state     CBState
	streak    int // consecutive failures (closed) or successes (half-open)
	trippedAt time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = time.Minute
	}
	return &CircuitBreaker{cfg: cfg}
}

// State reports the current state, moving open → half-open once the
// cool-down has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.maybeProbe()
	return cb.state
}

func (cb *CircuitBreaker) maybeProbe() {
	if cb.state == CBOpen && time.Since(cb.trippedAt) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.streak = 0
	}
}

// Execute runs fn unless the breaker is open, and feeds the outcome back
// into the state machine.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	cb.maybeProbe()
	if cb.state == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	cb.record(err == nil)
	cb.mu.Unlock()
	return err
}

func (cb *CircuitBreaker) record(ok bool) {
	switch cb.state {
	case CBClosed:
		if ok {
			cb.streak = 0
			return
		}
		cb.streak++
		if cb.streak >= cb.cfg.FailureThreshold {
			cb.state = CBOpen
			cb.trippedAt = time.Now()
			cb.streak = 0
		}
	case CBHalfOpen:
		if !ok {
			cb.state = CBOpen
			cb.trippedAt = time.Now()
			cb.streak = 0
			return
		}
		cb.streak++
		if cb.streak >= cb.cfg.SuccessThreshold {
			cb.state = CBClosed
			cb.streak = 0
		}
	}
}
