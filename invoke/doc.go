// Package invoke runs caller-supplied operations with bounded retries,
// a per-attempt timeout, and cooperative cancellation.
//
// An operation is a context-taking callable producing a value or an
// error. The invoker calls it once per attempt under a context composed from
// the caller's context and a fresh per-attempt deadline, so either one
// releases the wait. Only the per-attempt timeout is retried: caller
// cancellation and non-timeout errors end the call on first occurrence.
//
// # Usage
//
//	inv := invoke.New[string](invoke.Config{
//	    MaxAttempts:    3,
//	    AttemptTimeout: 2 * time.Second,
//	    Backoff:        invoke.Linear(100 * time.Millisecond),
//	})
//
//	value, err := inv.Do(ctx, func(ctx context.Context) (string, error) {
//	    return fetchRemoteValue(ctx)
//	})
//	if err != nil {
//	    switch invoke.OutcomeOf(err) {
//	    case invoke.OutcomeTimedOut:
//	        // every attempt hit its deadline
//	    case invoke.OutcomeCancelled:
//	        // the caller's context was cancelled
//	    case invoke.OutcomeFailed:
//	        // the operation reported a non-timeout error
//	    }
//	}
//
// Operations must be safe to re-invoke; the invoker never retains one
// beyond the call. Cancellation is cooperative: the invoker stops
// initiating attempts and backoff waits once the caller's context is
// done, and resolves at the attempt deadline even when the operation
// ignores its context, but it cannot forcibly terminate in-flight work.
package invoke
