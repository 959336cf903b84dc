// Package observe provides telemetry for resilient invocations:
// OpenTelemetry tracing and metrics plus structured JSON logging.
//
// An Observer owns the provider wiring; Middleware attaches a span,
// outcome-tagged metrics and logs to each invocation, including the
// attempt count and retry waits exposed by package invoke.
package observe
