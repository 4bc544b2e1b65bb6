package stack

import (
	"github.com/elupus/media-stack-core/internal/device"
)

// SourceInfo is one selectable source in the resolved tree: a device plus
// one of its source names, positioned by a chain of parent references.
//
// The resolved set is rebuilt wholesale from live snapshots on every
// refresh; it carries no identity across refreshes besides the device ids
// it references. Parent is a non-owning navigational reference used only to
// replay the chain upward during switching.
type SourceInfo struct {
	// DeviceID and DeviceName are copied from the device's snapshot at
	// resolution time.
	DeviceID   string
	DeviceName string

	// Source is the source name this node represents on its device.
	// Empty for a device that advertises no sources at all.
	Source string

	// Active is true iff this node lies on the routed root-to-leaf chain:
	// its parent is active and the parent's current source reaches it.
	// Power is not consulted; a routed device in standby still owns the
	// chain, and projection maps its status to standby.
	Active bool

	// Parent points at the node whose source feeds this device, nil at
	// the root (the sink).
	Parent *SourceInfo
}

// Label returns the source's human-readable identity:
// "<deviceName>: <sourceName>", or just the device name when the node has
// no source.
func (s *SourceInfo) Label() string {
	if s.Source == "" {
		return s.DeviceName
	}
	return s.DeviceName + ": " + s.Source
}

// Chain returns the path from the root down to this node, inclusive.
// This is the replay order for multi-hop switching: every hop must land
// before the next hop's device state is trustworthy.
func (s *SourceInfo) Chain() []*SourceInfo {
	var reversed []*SourceInfo
	for node := s; node != nil; node = node.Parent {
		reversed = append(reversed, node)
	}
	chain := make([]*SourceInfo, len(reversed))
	for i, node := range reversed {
		chain[len(reversed)-1-i] = node
	}
	return chain
}

// CycleFunc is invoked when resolution breaks a wiring cycle: deviceID's
// source points back at target, which is already on the ancestor chain.
type CycleFunc func(deviceID, source, target string)

// SelectSink chooses the composite player's output sink.
//
// It returns the first configured sink candidate whose snapshot exists and
// is not in the off-set. If every candidate is off it falls back to the
// first configured candidate: an off stack member still identifies which
// stack position hosts the sink when nothing is playing. Returns false only
// for an empty wiring map.
func SelectSink(w *WiringMap, states device.StateReader) (string, bool) {
	sinks := w.Sinks()
	for _, id := range sinks {
		if snap, ok := states.State(id); ok && !snap.Status.IsOff() {
			return id, true
		}
	}
	if len(sinks) > 0 {
		return sinks[0], true
	}
	return "", false
}

// Resolve walks the wiring graph depth-first from the given device over
// live snapshots and returns the flat list of reachable sources, each with
// parent references back to the root.
//
// Resolution never fails on missing or cyclic data; it degrades to treating
// the problematic edge as a dead end:
//   - missing snapshot: the branch is pruned (the parent's entry stays as a
//     terminal source)
//   - cycle: the edge becomes a terminal leaf and onCycle is invoked
//
// Exactly zero or one entry of the result has Active set; its parent chain
// is the routed root-to-leaf path. onCycle may be nil.
func Resolve(w *WiringMap, states device.StateReader, deviceID string, onCycle CycleFunc) []*SourceInfo {
	if deviceID == "" {
		return nil
	}
	r := resolver{wiring: w, states: states, onCycle: onCycle}
	r.walk(deviceID, nil)
	return r.out
}

// resolver carries the shared state of one resolution pass.
type resolver struct {
	wiring  *WiringMap
	states  device.StateReader
	onCycle CycleFunc
	out     []*SourceInfo
}

// walk resolves one device into the output list. parent is the node whose
// source feeds this device, nil at the root.
func (r *resolver) walk(deviceID string, parent *SourceInfo) {
	snap, ok := r.states.State(deviceID)
	if !ok {
		return
	}

	parentActive := parent == nil || parent.Active

	sources := snap.Sources()
	if len(sources) == 0 {
		r.out = append(r.out, &SourceInfo{
			DeviceID:   deviceID,
			DeviceName: snap.Name,
			Source:     snap.Source,
			Active:     parentActive,
			Parent:     parent,
		})
		return
	}

	ancestors := ancestorSet(parent)
	for _, source := range sources {
		node := &SourceInfo{
			DeviceID:   deviceID,
			DeviceName: snap.Name,
			Source:     source,
			Active:     parentActive && snap.Source == source,
			Parent:     parent,
		}

		target, wired := r.wiring.Target(deviceID, source)
		if !wired {
			r.out = append(r.out, node)
			continue
		}

		if _, cyclic := ancestors[target]; cyclic || target == deviceID {
			if r.onCycle != nil {
				r.onCycle(deviceID, source, target)
			}
			r.out = append(r.out, node)
			continue
		}

		if _, reachable := r.states.State(target); !reachable {
			// Unreachable child: record the source as a terminal entry
			// rather than failing the whole resolution.
			r.out = append(r.out, node)
			continue
		}

		r.walk(target, node)
	}
}

// ancestorSet collects the device ids on the chain from parent to the root.
// Each recursion level builds its own set; nothing shared is mutated.
func ancestorSet(parent *SourceInfo) map[string]struct{} {
	set := make(map[string]struct{})
	for node := parent; node != nil; node = node.Parent {
		set[node.DeviceID] = struct{}{}
	}
	return set
}

// activeNode returns the unique active entry of a resolved list, or nil.
func activeNode(nodes []*SourceInfo) *SourceInfo {
	for _, node := range nodes {
		if node.Active {
			return node
		}
	}
	return nil
}
