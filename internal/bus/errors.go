package bus

import "errors"

// Domain-specific errors for bus operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrAckTimeout is returned when a device does not acknowledge a
	// command or browse request within the configured timeout.
	ErrAckTimeout = errors.New("bus: acknowledgement timed out")
)
