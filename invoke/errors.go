package invoke

import (
	"errors"
	"fmt"
)

// Sentinel errors for invocation outcomes.
var (
	// ErrAttemptTimeout marks an attempt that exceeded its per-attempt
	// timeout.
	ErrAttemptTimeout = errors.New("invoke: attempt timed out")

	// ErrAttemptsExhausted is reported if the retry loop ends without a
	// terminal outcome. It should not occur; it exists so the loop has a
	// defined failure instead of a silent fallthrough.
	ErrAttemptsExhausted = errors.New("invoke: attempts exhausted")
)

// Error is the classified failure returned by Do. It wraps the
// underlying cause, so errors.Is sees context.Canceled for cancelled
// invocations and ErrAttemptTimeout for timed-out ones.
type Error struct {
	// Outcome is the terminal classification.
	Outcome Outcome

	// Attempts is the number of attempts actually made.
	Attempts int

	// Err is the underlying cause.
	Err error
}

// Error returns the formatted error message.
func (e *Error) Error() string {
	return fmt.Sprintf("invoke: %s after %d attempt(s): %v", e.Outcome, e.Attempts, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
