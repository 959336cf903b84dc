// Package probe runs dependency health probes through the resilient
// invoker, so every probe gets bounded retries, a per-attempt timeout,
// and a classified outcome.
//
// A probe that responds on the first attempt is healthy; one that
// responds only after retries is degraded; one that exhausts its
// attempts or fails outright is unhealthy. HTTP handlers expose the
// aggregate for liveness/readiness endpoints.
package probe
