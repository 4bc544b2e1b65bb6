package influxdb

import "errors"

// Sentinel errors, matched with errors.Is. Write failures surface
// asynchronously through the SetOnError callback instead.
var (
	// ErrNotConnected means the client has not reached the server.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed means the initial health probe failed.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrDisabled means telemetry is switched off in the configuration.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)
