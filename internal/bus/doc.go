// Package bus adapts the MQTT device topics to the domain interfaces the
// composite player consumes.
//
// # Message Flow
//
//	                        ┌──────────────────────────────┐
//	 device adapters ─────▶ │ mediastack/device/{id}/state │ ──▶ Registry
//	                        └──────────────────────────────┘
//	                        ┌──────────────────────────────┐
//	 Bus.Call ────────────▶ │ .../command  {request_id}    │ ──▶ adapter
//	 (blocks)  ◀──────────  │ .../result/{request_id}      │ ◀── adapter
//	                        └──────────────────────────────┘
//
// State snapshots are retained, so a restart replays the full device
// picture before the first refresh. Commands and browse requests are
// correlated by a uuid request id and acknowledged on a per-request topic;
// the caller blocks until the acknowledgement, a timeout, or context
// cancellation.
//
// The Bus implements device.Commander and device.Browser directly and
// feeds device.Registry, which implements device.StateReader.
package bus
