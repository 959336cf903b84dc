package guard

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/resilient/invoke"
)

// State represents the breaker state.
type State int

const (
	// StateClosed means invocations flow normally.
	StateClosed State = iota
	// StateOpen means invocations are refused.
	StateOpen
	// StateHalfOpen means a limited number of probe invocations are let
	// through to test recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
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

// BreakerConfig configures a Breaker.
type BreakerConfig struct {
	// Threshold is the number of consecutive failures that opens the
	// breaker.
	// Default: 5
	Threshold int

	// Cooldown is how long the breaker stays open before probing.
	// Default: 30s
	Cooldown time.Duration

	// HalfOpenProbes is the number of invocations admitted while
	// half-open.
	// Default: 1
	HalfOpenProbes int

	// Classify reports whether an error counts as a dependency failure.
	// Default: non-nil errors count, except caller cancellation
	// (invoke.OutcomeCancelled).
	Classify func(err error) bool

	// OnStateChange is called on every state transition.
	OnStateChange func(from, to State)
}

// Breaker refuses invocations to a dependency that keeps failing, and
// probes it again after a cooldown.
type Breaker struct {
	config BreakerConfig

	mu        sync.Mutex
	state     State
	failures  int
	probes    int
	openedAt  time.Time
	lastError error
}

// NewBreaker creates a Breaker, applying defaults for zero config
// fields.
func NewBreaker(config BreakerConfig) *Breaker {
	if config.Threshold <= 0 {
		config.Threshold = 5
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 30 * time.Second
	}
	if config.HalfOpenProbes <= 0 {
		config.HalfOpenProbes = 1
	}
	if config.Classify == nil {
		config.Classify = func(err error) bool {
			return err != nil && invoke.OutcomeOf(err) != invoke.OutcomeCancelled
		}
	}

	return &Breaker{config: config, state: StateClosed}
}

// Allow reports whether an invocation may start. Returns ErrOpen when
// the breaker is refusing traffic. A successful Allow must be paired
// with a Record call.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.stateLocked() {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		if b.probes >= b.config.HalfOpenProbes {
			return ErrOpen
		}
		b.probes++
	}
	return nil
}

// Record feeds the result of an admitted invocation back into the
// breaker.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	failed := b.config.Classify(err)
	from := b.state

	switch b.state {
	case StateClosed:
		if failed {
			b.failures++
			b.lastError = err
			b.openedAt = time.Now()
			if b.failures >= b.config.Threshold {
				b.state = StateOpen
			}
		} else {
			b.failures = 0
		}

	case StateHalfOpen:
		if failed {
			b.lastError = err
			b.openedAt = time.Now()
			b.state = StateOpen
		} else {
			b.state = StateClosed
			b.failures = 0
		}
	}

	b.notifyLocked(from)
}

// Execute runs op if the breaker admits it and records the result.
func (b *Breaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.Allow(); err != nil {
		return err
	}

	err := op(ctx)
	b.Record(err)
	return err
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// Reset forces the breaker closed and clears its counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	from := b.state
	b.state = StateClosed
	b.failures = 0
	b.probes = 0
	b.lastError = nil
	b.notifyLocked(from)
}

// Stats is a snapshot of breaker internals.
type Stats struct {
	State     State
	Failures  int
	LastError error
	OpenedAt  time.Time
}

// Stats returns a snapshot of the breaker.
func (b *Breaker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Stats{
		State:     b.stateLocked(),
		Failures:  b.failures,
		LastError: b.lastError,
		OpenedAt:  b.openedAt,
	}
}

// stateLocked resolves the open-to-half-open transition lazily on
// observation. Callers must hold b.mu.
func (b *Breaker) stateLocked() State {
	if b.state == StateOpen && time.Since(b.openedAt) >= b.config.Cooldown {
		b.state = StateHalfOpen
		b.probes = 0
		if b.config.OnStateChange != nil {
			b.config.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return b.state
}

func (b *Breaker) notifyLocked(from State) {
	if from != b.state && b.config.OnStateChange != nil {
		b.config.OnStateChange(from, b.state)
	}
}
