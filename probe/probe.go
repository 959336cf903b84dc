package probe

import (
	"context"
	"time"
)

// Status represents the probed state of a dependency.
type Status int

const (
	// StatusHealthy indicates the dependency responded on the first attempt.
	StatusHealthy Status = iota
	// StatusDegraded indicates the dependency responded only after retries.
	StatusDegraded
	// StatusUnhealthy indicates the dependency did not respond.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result contains the outcome of probing one dependency.
type Result struct {
	// Status is the probed state.
	Status Status

	// Message provides additional context about the status.
	Message string

	// Attempts is the number of invocation attempts the probe took.
	Attempts int

	// Duration is how long the probe took, retries included.
	Duration time.Duration

	// Timestamp is when the probe started.
	Timestamp time.Time

	// Error is the terminal error if the probe failed.
	Error error
}

// Probe checks one dependency.
type Probe interface {
	// Name returns the name of the probed dependency.
	Name() string

	// Ping checks that the dependency is reachable. It must honor ctx.
	Ping(ctx context.Context) error
}

// ProbeFunc is an adapter to allow ordinary functions to be used as
// Probes.
type ProbeFunc struct {
	name string
	fn   func(context.Context) error
}

// NewProbeFunc creates a new ProbeFunc.
func NewProbeFunc(name string, fn func(context.Context) error) *ProbeFunc {
	return &ProbeFunc{name: name, fn: fn}
}

// Name returns the name of the probed dependency.
func (p *ProbeFunc) Name() string {
	return p.name
}

// Ping checks the dependency.
func (p *ProbeFunc) Ping(ctx context.Context) error {
	return p.fn(ctx)
}
