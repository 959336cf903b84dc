// Package guard provides admission patterns placed in front of
// resilient invocations.
//
// Where package invoke decides how often to re-run an operation, guard
// decides whether an operation may run at all:
//
//   - Breaker: stops invoking a dependency after repeated failures and
//     probes it after a cooldown.
//
//   - Bulkhead: bounds concurrent invocations to isolate resource
//     exhaustion.
//
//   - Limiter: token-bucket rate limiting of invocation starts.
//
// Patterns compose through a Chain, evaluated limiter first, then
// bulkhead, then breaker:
//
//	chain := guard.NewChain(
//	    guard.WithLimiter(guard.NewLimiter(guard.LimiterConfig{PerSecond: 50})),
//	    guard.WithBulkhead(guard.NewBulkhead(guard.BulkheadConfig{Limit: 8})),
//	    guard.WithBreaker(guard.NewBreaker(guard.BreakerConfig{Threshold: 5})),
//	)
//
//	value, err := guard.Through(ctx, chain, inv, fetchUser)
//
// By default the breaker does not count caller cancellation as a
// dependency failure; see BreakerConfig.Classify.
package guard
