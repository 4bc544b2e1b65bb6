package device

import "errors"

// Domain-specific errors for device operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrDeviceNotFound is returned when no snapshot exists for a device.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrCommandFailed is returned when a device rejects or fails a command.
	ErrCommandFailed = errors.New("device: command failed")

	// ErrBrowseUnsupported is returned when a device cannot serve a native
	// browse request.
	ErrBrowseUnsupported = errors.New("device: browsing not supported")
)
