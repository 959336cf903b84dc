package invoke

import (
	"context"
	"errors"
	"testing"
)

func TestOutcome_String(t *testing.T) {
	cases := map[Outcome]string{
		OutcomeSuccess:   "success",
		OutcomeTimedOut:  "timed_out",
		OutcomeCancelled: "cancelled",
		OutcomeFailed:    "failed",
		Outcome(99):      "unknown",
	}

	for outcome, want := range cases {
		if got := outcome.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", int(outcome), got, want)
		}
	}
}

func TestOutcomeOf(t *testing.T) {
	if got := OutcomeOf(nil); got != OutcomeSuccess {
		t.Errorf("OutcomeOf(nil) = %v, want success", got)
	}

	if got := OutcomeOf(errors.New("boom")); got != OutcomeFailed {
		t.Errorf("OutcomeOf(plain error) = %v, want failed", got)
	}

	wrapped := &Error{Outcome: OutcomeCancelled, Attempts: 1, Err: context.Canceled}
	if got := OutcomeOf(wrapped); got != OutcomeCancelled {
		t.Errorf("OutcomeOf(*Error) = %v, want cancelled", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Outcome: OutcomeFailed, Attempts: 2, Err: cause}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false")
	}
	if err.Error() != "invoke: failed after 2 attempt(s): root cause" {
		t.Errorf("Error() = %q", err.Error())
	}
}
