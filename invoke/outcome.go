package invoke

import "errors"

// Outcome classifies how an invocation resolved.
type Outcome int

const (
	// OutcomeSuccess means the operation returned a value.
	OutcomeSuccess Outcome = iota
	// OutcomeTimedOut means retries were exhausted with every attempt
	// exceeding its per-attempt timeout.
	OutcomeTimedOut
	// OutcomeCancelled means the caller's context was cancelled.
	OutcomeCancelled
	// OutcomeFailed means the operation reported a non-timeout error.
	OutcomeFailed
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OutcomeOf classifies an error returned by Do. A nil error is
// OutcomeSuccess; errors not produced by this package are OutcomeFailed.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Outcome
	}
	return OutcomeFailed
}
