// Package device defines the device snapshot model for Media Stack Core and
// the narrow collaborator interfaces the source-resolution core consumes.
//
// # Key Types
//
//   - Snapshot: a device's last reported state (status, current source,
//     selectable sources, volume, capability bitmask, passthrough attributes)
//   - Status: power/activity enumeration with an off-set (off, standby,
//     unavailable, idle) that gates the active chain
//   - Feature: capability bitmask (select source, volume control, browse...)
//   - Command / Params: one parameterised command kind plus payload,
//     replacing a method per transport command
//   - Registry: thread-safe store of the latest snapshots with change
//     subscriptions, feeding composite player refreshes
//
// # Contracts
//
// The core never talks to devices directly. It reads settled snapshots
// through StateReader, issues blocking commands through Commander, and
// delegates media browsing through Browser. The MQTT bus (internal/bus)
// implements all three against the broker; tests substitute in-memory fakes.
//
// # Usage
//
//	registry := device.NewRegistry()
//	registry.Put(device.Snapshot{ID: "media_player.tv", Status: device.StatusOn})
//
//	unsubscribe := registry.Subscribe([]string{"media_player.tv"}, func(id string) {
//	    player.Refresh()
//	})
//	defer unsubscribe()
package device
