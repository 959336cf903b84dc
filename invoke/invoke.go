package invoke

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Operation is a single invocable unit of work. The invoker calls it
// once per attempt; it must be idempotent or otherwise safe to repeat.
type Operation[T any] func(ctx context.Context) (T, error)

// Config configures an Invoker.
type Config struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	// A value of 1 disables retries.
	// Default: 3
	MaxAttempts int

	// AttemptTimeout bounds each attempt independently, not the call as
	// a whole.
	// Default: 30s
	AttemptTimeout time.Duration

	// Backoff computes the delay inserted after a timed-out attempt.
	// Default: Linear(100ms)
	Backoff Backoff

	// OnRetry is called before each backoff wait with the attempt that
	// timed out, its error, and the coming delay.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Invoker runs operations with retries, per-attempt timeouts, and
// cooperative cancellation. It holds no state across calls and is safe
// for concurrent use.
type Invoker[T any] struct {
	config Config
}

// New creates an Invoker, applying defaults for zero config fields.
func New[T any](config Config) *Invoker[T] {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.AttemptTimeout <= 0 {
		config.AttemptTimeout = 30 * time.Second
	}
	if config.Backoff == nil {
		config.Backoff = Linear(100 * time.Millisecond)
	}

	return &Invoker[T]{config: config}
}

// Do runs op until it succeeds, fails with a non-timeout error, the
// caller's context is cancelled, or MaxAttempts per-attempt timeouts
// have been spent.
//
// Attempts are strictly sequential. Only the per-attempt timeout is
// retried; caller cancellation and non-timeout errors are terminal on
// first occurrence, including cancellation arriving during a backoff
// wait. On failure the returned error is a *Error carrying the outcome
// and the attempt count.
func (inv *Invoker[T]) Do(ctx context.Context, op Operation[T]) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, &Error{Outcome: OutcomeCancelled, Attempts: 0, Err: err}
	}

	for attempt := 1; attempt <= inv.config.MaxAttempts; attempt++ {
		value, err := inv.runAttempt(ctx, op)
		if err == nil {
			return value, nil
		}

		// Caller cancellation wins over any attempt-level classification.
		if cerr := ctx.Err(); cerr != nil {
			return zero, &Error{Outcome: OutcomeCancelled, Attempts: attempt, Err: cerr}
		}

		if !errors.Is(err, ErrAttemptTimeout) {
			return zero, &Error{Outcome: OutcomeFailed, Attempts: attempt, Err: err}
		}

		if attempt >= inv.config.MaxAttempts {
			return zero, &Error{Outcome: OutcomeTimedOut, Attempts: attempt, Err: err}
		}

		delay := inv.config.Backoff(attempt)

		if inv.config.OnRetry != nil {
			inv.config.OnRetry(attempt, err, delay)
		}

		// Wait for the backoff delay or caller cancellation.
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, &Error{Outcome: OutcomeCancelled, Attempts: attempt, Err: ctx.Err()}
		case <-timer.C:
		}
	}

	return zero, &Error{Outcome: OutcomeFailed, Attempts: inv.config.MaxAttempts, Err: ErrAttemptsExhausted}
}

// Config returns the invoker configuration.
func (inv *Invoker[T]) Config() Config {
	return inv.config
}

// runAttempt executes op under a context composed from the caller's
// context and a fresh per-attempt deadline. The operation runs in its
// own goroutine with a buffered completion channel, so the attempt
// resolves at the deadline even when op ignores its context.
func (inv *Invoker[T]) runAttempt(ctx context.Context, op Operation[T]) (T, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, inv.config.AttemptTimeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)

	go func() {
		value, err := op(attemptCtx)
		done <- result{value: value, err: err}
	}()

	var zero T

	select {
	case res := <-done:
		if res.err == nil {
			return res.value, nil
		}
		// An operation that honored the composed context surfaces our
		// deadline as context.DeadlineExceeded. A deadline the operation
		// produced on its own is not ours to retry.
		if errors.Is(res.err, context.DeadlineExceeded) &&
			attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return zero, fmt.Errorf("%w: %v", ErrAttemptTimeout, res.err)
		}
		return zero, res.err

	case <-attemptCtx.Done():
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, ErrAttemptTimeout
	}
}

// Do is a convenience for a one-off invocation without constructing an
// Invoker.
func Do[T any](ctx context.Context, config Config, op Operation[T]) (T, error) {
	return New[T](config).Do(ctx, op)
}
