package device

import "context"

// StateReader provides synchronous read access to the latest known device
// snapshots. The source resolver performs no I/O beyond these reads, so a
// resolution is deterministic given a settled snapshot set.
type StateReader interface {
	// State returns the latest snapshot for the device, or false if the
	// device has never reported (unreachable).
	State(deviceID string) (Snapshot, bool)
}

// Commander issues blocking commands to devices. Call returns once the
// device has acknowledged the command or a fatal error occurred; timeouts
// are the implementation's responsibility.
type Commander interface {
	Call(ctx context.Context, deviceID string, cmd Command, params Params) error
}

// Browser delegates media-browse requests to devices that support native
// browsing. The composite player wraps returned content ids with a
// "<deviceID>:" prefix so follow-up requests route back to the right child.
type Browser interface {
	Browse(ctx context.Context, deviceID, contentType, contentID string) (*BrowseNode, error)
}
