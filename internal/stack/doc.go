// Package stack implements the source-resolution core of Media Stack Core:
// the virtualisation of a wired tree of media devices into one composite
// player.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────────────────────┐
//	│                         Composite Player                           │
//	│                                                                    │
//	│  ┌──────────────┐   ┌──────────────┐   ┌───────────────────────┐   │
//	│  │  WiringMap   │──▶│   Resolver   │──▶│  Projector            │   │
//	│  │ (wiring.go)  │   │ (resolver.go)│   │ (projector.go)        │   │
//	│  │              │   │              │   │                       │   │
//	│  │ • static     │   │ • sink pick  │   │ • status/source       │   │
//	│  │   wiring     │   │ • cycle-safe │   │ • volume from sink    │   │
//	│  │ • sink order │   │   DFS        │   │ • feature bitmask     │   │
//	│  └──────────────┘   └──────────────┘   └───────────────────────┘   │
//	│                            │                                       │
//	│                            ▼                                       │
//	│  ┌──────────────────────────────────────┐   ┌──────────────────┐   │
//	│  │  Switch executor (switch.go)         │   │ Browse delegation│   │
//	│  │  • root-to-target chain replay       │   │ (browse.go)      │   │
//	│  │  • power on + select per hop         │   │ • id prefixing   │   │
//	│  │  • idempotent, fail-fast             │   └──────────────────┘   │
//	│  └──────────────────────────────────────┘                          │
//	└────────────────────────────────────────────────────────────────────┘
//
// # Resolution model
//
// Every refresh rebuilds a flat list of SourceInfo nodes from live device
// snapshots: one entry per reachable (device, source) pair, each holding a
// non-owning parent reference back toward the sink. Intermediate devices
// whose source is wired onward appear only as parent links; the list itself
// contains the selectable endpoints. At most one entry is active, and its
// parent chain is exactly the path producing output right now.
//
// Resolution is deliberately forgiving: a missing snapshot prunes the
// branch, a wiring cycle turns into a terminal leaf plus a diagnostic
// event, and resolution itself never returns an error. A household media
// tree is frequently half-off or mid-transition; the composite view must
// stay meaningful throughout.
//
// # Collaborators
//
// The package performs no I/O: snapshots come from a device.StateReader,
// commands go through a device.Commander, and native media browsing is
// delegated to a device.Browser. All three are narrow interfaces
// implemented by the MQTT bus in production and by fakes in tests.
package stack
