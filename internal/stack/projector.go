package stack

import (
	"sort"

	"github.com/elupus/media-stack-core/internal/device"
)

// Projection is the composite player's derived state for one refresh.
// It is a plain value: recomputed wholesale from the resolved sources and
// the sink snapshot, never mutated in place.
type Projection struct {
	// Name is the composite player's display name.
	Name string `json:"name"`

	// Status is the composite power/activity state.
	Status device.Status `json:"status"`

	// Source is the qualified label of the active source
	// ("<deviceName>: <sourceName>"), empty when nothing is active.
	Source string `json:"source,omitempty"`

	// SourceList is every reachable source's qualified label, sorted
	// lexicographically.
	SourceList []string `json:"source_list"`

	// Volume and Muted come from the sink device only: volume is a
	// property of the final output stage, not the content source.
	Volume *float64 `json:"volume,omitempty"`
	Muted  *bool    `json:"muted,omitempty"`

	// Features is the composite capability bitmask.
	Features device.Feature `json:"features"`

	// Passthrough attributes from the active source device.
	Icon         string `json:"icon,omitempty"`
	Picture      string `json:"picture,omitempty"`
	AssumedState bool   `json:"assumed_state,omitempty"`
	Shuffle      *bool  `json:"shuffle,omitempty"`
	AppName      string `json:"app_name,omitempty"`

	// SourceDevice is the id of the device producing output, if any.
	SourceDevice string `json:"source_device,omitempty"`

	// SinkDevice is the id of the selected output sink, if any.
	SinkDevice string `json:"sink_device,omitempty"`
}

// Project derives the composite player state from the selected sink and the
// resolved source list.
//
// Status policy:
//   - sink missing or in the off-set: standby
//   - no active source: the sink's own status
//   - active source in the off-set: standby
//   - otherwise: the active source's status
//
// Volume and mute always come from the sink; browse/play capability is
// OR-ed across every wired device so attached libraries stay reachable
// regardless of current routing.
func Project(name string, w *WiringMap, states device.StateReader, sinkID string, nodes []*SourceInfo) Projection {
	proj := Projection{
		Name:       name,
		Status:     device.StatusStandby,
		SourceList: sourceLabels(nodes),
		SinkDevice: sinkID,
	}

	var sinkSnap device.Snapshot
	sinkKnown := false
	if sinkID != "" {
		sinkSnap, sinkKnown = states.State(sinkID)
	}

	active := activeNode(nodes)
	var leafSnap device.Snapshot
	leafKnown := false
	if active != nil {
		leafSnap, leafKnown = states.State(active.DeviceID)
	}

	// Composite status.
	switch {
	case !sinkKnown || sinkSnap.Status.IsOff():
		proj.Status = device.StatusStandby
	case !leafKnown:
		proj.Status = sinkSnap.Status
	case leafSnap.Status.IsOff():
		proj.Status = device.StatusStandby
	default:
		proj.Status = leafSnap.Status
	}

	// Active source identity and passthrough attributes.
	if active != nil {
		proj.Source = active.Label()
		proj.SourceDevice = active.DeviceID
	}
	if leafKnown {
		proj.Icon = leafSnap.Icon
		proj.Picture = leafSnap.Picture
		proj.AssumedState = leafSnap.AssumedState
		proj.Shuffle = leafSnap.Shuffle
		proj.AppName = leafSnap.AppName
	}

	// Volume belongs to the output stage.
	if sinkKnown {
		proj.Volume = sinkSnap.Volume
		proj.Muted = sinkSnap.Muted
	}

	proj.Features = projectFeatures(w, states, sinkSnap, sinkKnown, leafSnap, leafKnown)

	return proj
}

// projectFeatures derives the composite capability bitmask.
func projectFeatures(w *WiringMap, states device.StateReader, sinkSnap device.Snapshot, sinkKnown bool, leafSnap device.Snapshot, leafKnown bool) device.Feature {
	var features device.Feature
	if leafKnown {
		features = leafSnap.Features
	}

	// Selecting a source is what the composite player is for.
	features |= device.FeatureSelectSource

	// Volume bits are re-derived from the sink only.
	features &^= device.FeatureVolume
	if sinkKnown {
		features |= sinkSnap.Features & device.FeatureVolume
	}

	// Browse/play bits are OR-ed across every wired device, not just the
	// active chain: browsing surfaces all attached libraries.
	var anywhere device.Feature
	for _, id := range w.Devices() {
		if snap, ok := states.State(id); ok {
			anywhere |= snap.Features & device.FeatureAnyDevice
		}
	}
	features &^= device.FeatureAnyDevice
	features |= anywhere

	return features
}

// sourceLabels renders every resolved node as its qualified label, sorted
// lexicographically.
func sourceLabels(nodes []*SourceInfo) []string {
	labels := make([]string, 0, len(nodes))
	for _, node := range nodes {
		labels = append(labels, node.Label())
	}
	sort.Strings(labels)
	return labels
}
