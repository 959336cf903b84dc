package guard

import "errors"

// Sentinel errors for admission decisions.
var (
	// ErrOpen is returned when the breaker is refusing invocations.
	ErrOpen = errors.New("guard: breaker is open")

	// ErrFull is returned when the bulkhead is at capacity.
	ErrFull = errors.New("guard: bulkhead at capacity")

	// ErrThrottled is returned when the rate limit refuses an invocation.
	ErrThrottled = errors.New("guard: rate limit exceeded")
)
