package stack

import "errors"

// Domain-specific errors for composite player operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrSourceNotFound is returned by SelectSource when no resolved
	// source matches the requested qualified label. Detected before any
	// command is issued, so no partial action has been taken.
	ErrSourceNotFound = errors.New("stack: source not found")

	// ErrTargetNotFound is returned when a delegated play or browse
	// request names a device that is not part of the resolved stack.
	ErrTargetNotFound = errors.New("stack: target device not found")

	// ErrNoActiveSource is returned when a transport command is issued
	// while no device is actively producing output.
	ErrNoActiveSource = errors.New("stack: no active source device")

	// ErrNoSink is returned when a volume command is issued with no sink
	// device configured.
	ErrNoSink = errors.New("stack: no sink device configured")

	// ErrBrowseUnsupported is returned when media browsing is requested
	// but no browser collaborator is wired in.
	ErrBrowseUnsupported = errors.New("stack: media browsing not available")
)
