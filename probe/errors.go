package probe

import "errors"

// Sentinel errors for probing.
var (
	// ErrProbeNotFound is returned when a named probe is not registered.
	ErrProbeNotFound = errors.New("probe: probe not found")
)
