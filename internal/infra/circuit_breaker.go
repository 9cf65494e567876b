package infra

import (
	"errors"
	"sync"
	"time"
)

// circuit_breaker.go
// Guards the SMTP relay. After SMTP_BREAKER_FAILURES consecutive send
// failures the breaker trips and every call fast-fails until the cooldown
// (SMTP_BREAKER_COOLDOWN_SECONDS) elapses; then a single probe send decides
// whether the relay is back.

// BreakerState is the observable breaker state, exposed for logs.
type BreakerState int

const (
	BreakerClosed  BreakerState = iota // relay healthy, sends flow
	BreakerOpen                        // relay down, sends fast-fail
	BreakerProbing                     // cooldown elapsed, one send allowed
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerProbing:
		return "probing"
	}
	return "unknown"
}

// ErrBreakerOpen is returned while the breaker refuses sends.
var ErrBreakerOpen = errors.New("smtp breaker open")

// BreakerSettings come from Config; zero values fall back to the viper
// defaults so a hand-built settings struct in tests stays short.
type BreakerSettings struct {
	FailureThreshold int           // consecutive failures to trip
	ProbeSuccesses   int           // consecutive probe successes to close again
	Cooldown         time.Duration // open time before probing
}

func (s BreakerSettings) withDefaults() BreakerSettings {
	if s.FailureThreshold <= 0 {
		s.FailureThreshold = 5
	}
	if s.ProbeSuccesses <= 0 {
		s.ProbeSuccesses = 2
	}
	if s.Cooldown <= 0 {
		s.Cooldown = time.Minute
	}
	return s
}

// CircuitBreaker serializes state transitions; safe for concurrent workers.
type CircuitBreaker struct {
	mu        sync.Mutex
	settings  BreakerSettings
	state     BreakerState
	failures  int
	probeOKs  int
	trippedAt time.Time
}

func NewCircuitBreaker(s BreakerSettings) *CircuitBreaker {
	return &CircuitBreaker{settings: s.withDefaults(), state: BreakerClosed}
}

// State reports the current state, moving open → probing once the cooldown
// has elapsed.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() BreakerState {
	if cb.state == BreakerOpen && time.Since(cb.trippedAt) >= cb.settings.Cooldown {
		cb.state = BreakerProbing
		cb.probeOKs = 0
	}
	return cb.state
}

// Execute runs send through the breaker, returning ErrBreakerOpen without
// calling send while the breaker is open.
func (cb *CircuitBreaker) Execute(send func() error) error {
	cb.mu.Lock()
	if cb.stateLocked() == BreakerOpen {
		cb.mu.Unlock()
		return ErrBreakerOpen
	}
	cb.mu.Unlock()

	err := send()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.record(err)
	return err
}

// record applies the outcome to the state machine (caller holds mu).
func (cb *CircuitBreaker) record(err error) {
	if err != nil {
		cb.failures++
		cb.trippedAt = time.Now()
		switch cb.state {
		case BreakerClosed:
			if cb.failures >= cb.settings.FailureThreshold {
				cb.state = BreakerOpen
				cb.probeOKs = 0
			}
		case BreakerProbing:
			// Probe failed, back to open for another cooldown.
			cb.state = BreakerOpen
			cb.failures = 0
		}
		return
	}

	switch cb.state {
	case BreakerClosed:
		cb.failures = 0
	case BreakerProbing:
		cb.probeOKs++
		if cb.probeOKs >= cb.settings.ProbeSuccesses {
			cb.state = BreakerClosed
			cb.failures = 0
			cb.probeOKs = 0
		}
	}
}
