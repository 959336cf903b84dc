// Package cache keeps last-known-good results so callers can serve a
// recent value when a dependency times out.
//
// Fallback wraps a resilient invoker: on success it refreshes the
// stored value, and when the invoker exhausts its attempts on
// per-attempt timeouts it serves the stored value instead. Non-timeout
// failures and caller cancellation are never masked by stale data.
package cache
