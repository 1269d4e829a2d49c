package clients

import (
	"sync"
	"time"
)

// State is a circuit breaker state.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota

	// StateOpen rejects requests until the cooldown elapses.
	StateOpen

	// StateHalfOpen admits a limited number of trial requests.
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

// CircuitBreakerConfig configures a CircuitBreaker. Zero fields take defaults.
type CircuitBreakerConfig struct {
	// MaxFailures is how many consecutive failures open the circuit.
	MaxFailures int

	// Timeout is the cooldown an open circuit waits before admitting trials.
	Timeout time.Duration

	// HalfOpenLimit is how many trials are admitted, and must all succeed,
	// before the circuit closes again.
	HalfOpenLimit int
}

const (
	defaultCircuitMaxFailures   = 5
	defaultCircuitTimeout       = 30 * time.Second
	defaultCircuitHalfOpenLimit = 1
)

// CircuitBreaker stops calls to a host that keeps failing.
//
// Closed opens after MaxFailures consecutive failures. Open becomes
// half-open once Timeout has passed since it opened. Half-open closes after
// HalfOpenLimit successful trials and reopens on the first failed one.
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig
	now func() time.Time

	state    State
	openedAt time.Time
	failures int
	trials   int
	passed   int

	listener func(from, to State)
}

// NewCircuitBreaker returns a closed breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = defaultCircuitMaxFailures
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultCircuitTimeout
	}
	if cfg.HalfOpenLimit <= 0 {
		cfg.HalfOpenLimit = defaultCircuitHalfOpenLimit
	}

	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn to run after every transition. fn runs on the
// goroutine that caused the transition, outside the breaker's lock.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	cb.listener = fn
	cb.mu.Unlock()
}

// Allow reports whether a request may be sent now. An admitted request must
// be followed by RecordSuccess or RecordFailure.
func (cb *CircuitBreaker) Allow() bool {
	var allowed bool

	cb.update(func(now time.Time) {
		switch cb.state {
		case StateClosed:
			allowed = true
		case StateHalfOpen:
			if cb.trials < cb.cfg.HalfOpenLimit {
				cb.trials++
				allowed = true
			}
		}
	})

	return allowed
}

// RecordSuccess reports a request that reached a healthy host.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.update(func(time.Time) {
		switch cb.state {
		case StateClosed:
			cb.failures = 0
		case StateHalfOpen:
			cb.passed++
			if cb.passed >= cb.cfg.HalfOpenLimit {
				cb.moveTo(StateClosed)
			}
		}
	})
}

// RecordFailure reports a request that failed after all its attempts.
func (cb *CircuitBreaker) RecordFailure() {
	cb.update(func(now time.Time) {
		switch cb.state {
		case StateClosed:
			cb.failures++
			if cb.failures >= cb.cfg.MaxFailures {
				cb.trip(now)
			}
		case StateHalfOpen:
			cb.trip(now)
		}
	})
}

// State returns the current state, accounting for an elapsed cooldown.
func (cb *CircuitBreaker) State() State {
	var s State

	cb.update(func(time.Time) { s = cb.state })

	return s
}

// RetryAfter returns how much longer an open circuit keeps rejecting.
func (cb *CircuitBreaker) RetryAfter() time.Duration {
	var wait time.Duration

	cb.update(func(now time.Time) {
		if cb.state == StateOpen {
			wait = cb.cfg.Timeout - now.Sub(cb.openedAt)
		}
	})

	return wait
}

// update runs fn under the lock after applying any due cooldown, then
// notifies the listener of the transitions that happened.
func (cb *CircuitBreaker) update(fn func(now time.Time)) {
	cb.mu.Lock()

	from := cb.state
	now := cb.now()

	if cb.state == StateOpen && now.Sub(cb.openedAt) >= cb.cfg.Timeout {
		cb.moveTo(StateHalfOpen)
	}

	mid := cb.state
	fn(now)
	to := cb.state
	listener := cb.listener

	cb.mu.Unlock()

	if listener == nil {
		return
	}

	if mid != from {
		listener(from, mid)
	}
	if to != mid {
		listener(mid, to)
	}
}

func (cb *CircuitBreaker) trip(now time.Time) {
	cb.openedAt = now
	cb.moveTo(StateOpen)
}

func (cb *CircuitBreaker) moveTo(s State) {
	cb.state = s
	cb.failures = 0
	cb.trials = 0
	cb.passed = 0
}
