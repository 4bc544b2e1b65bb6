package stack

import (
	"fmt"
	"sort"
)

// WiringEntry is one device's wiring: which device feeds each of its
// selectable sources. Sources without an entry are terminal (native)
// sources with nothing behind them.
type WiringEntry struct {
	Device  string
	Sources map[string]string
}

// WiringMap is the static wiring configuration: a directed graph where an
// edge A --"HDMI 1"--> B means device A's "HDMI 1" input is fed by device
// B's output. The graph may contain cycles (misconfiguration) and is never
// assumed acyclic; the resolver guards against them.
//
// The order of the top-level entries is preserved from configuration: sink
// selection iterates candidates in that order. A WiringMap is immutable
// after construction and safe for concurrent use.
type WiringMap struct {
	order []string
	edges map[string]map[string]string
}

// NewWiringMap builds a validated WiringMap from ordered entries.
//
// Returns an error for duplicate or empty device identifiers. Format-level
// identifier validation (topic-segment safety) happens at config load; this
// constructor only enforces structural uniqueness.
func NewWiringMap(entries []WiringEntry) (*WiringMap, error) {
	w := &WiringMap{
		order: make([]string, 0, len(entries)),
		edges: make(map[string]map[string]string, len(entries)),
	}

	for _, entry := range entries {
		if entry.Device == "" {
			return nil, fmt.Errorf("wiring: empty device id")
		}
		if _, dup := w.edges[entry.Device]; dup {
			return nil, fmt.Errorf("wiring: duplicate device %q", entry.Device)
		}

		sources := make(map[string]string, len(entry.Sources))
		for source, target := range entry.Sources {
			if source == "" {
				return nil, fmt.Errorf("wiring: device %q has an empty source name", entry.Device)
			}
			if target == "" {
				return nil, fmt.Errorf("wiring: device %q source %q has an empty target", entry.Device, source)
			}
			sources[source] = target
		}

		w.order = append(w.order, entry.Device)
		w.edges[entry.Device] = sources
	}

	return w, nil
}

// Sinks returns the configured top-level devices in configuration order.
// These are the sink candidates for the composite player's output stage.
func (w *WiringMap) Sinks() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// Target returns the device wired to the given source of the given device.
// The second return is false for terminal sources and unmapped devices.
func (w *WiringMap) Target(deviceID, source string) (string, bool) {
	sources, ok := w.edges[deviceID]
	if !ok {
		return "", false
	}
	target, ok := sources[source]
	return target, ok
}

// Devices returns every device referenced anywhere in the wiring (keys and
// targets), deduplicated, in first-mention order.
func (w *WiringMap) Devices() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(w.order))

	add := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, id := range w.order {
		add(id)
		for _, source := range w.sourceNames(id) {
			add(w.edges[id][source])
		}
	}
	return out
}

// HasDevice reports whether the device appears anywhere in the wiring.
func (w *WiringMap) HasDevice(deviceID string) bool {
	if _, ok := w.edges[deviceID]; ok {
		return true
	}
	for _, sources := range w.edges {
		for _, target := range sources {
			if target == deviceID {
				return true
			}
		}
	}
	return false
}

// Empty reports whether no devices are configured.
func (w *WiringMap) Empty() bool {
	return len(w.order) == 0
}

// sourceNames returns a device's wired source names in a stable order.
func (w *WiringMap) sourceNames(deviceID string) []string {
	sources := w.edges[deviceID]
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
