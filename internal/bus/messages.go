package bus

import (
	"encoding/json"
	"fmt"

	"github.com/elupus/media-stack-core/internal/device"
)

// CommandPayload is published to a device's command topic. The request id
// correlates the acknowledgement on the per-request result topic.
type CommandPayload struct {
	RequestID string         `json:"request_id"`
	Command   device.Command `json:"command"`
	Params    device.Params  `json:"params,omitempty"`
}

// ResultPayload is the acknowledgement a device adapter publishes after
// executing (or failing) a command.
type ResultPayload struct {
	RequestID string `json:"request_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// BrowseRequestPayload is published to a device's browse topic.
type BrowseRequestPayload struct {
	RequestID   string `json:"request_id"`
	ContentType string `json:"content_type,omitempty"`
	ContentID   string `json:"content_id,omitempty"`
}

// BrowseItem is one node of a browse response, mirroring device.BrowseNode
// on the wire.
type BrowseItem struct {
	Title       string       `json:"title"`
	ContentID   string       `json:"content_id"`
	ContentType string       `json:"content_type,omitempty"`
	CanPlay     bool         `json:"can_play"`
	CanExpand   bool         `json:"can_expand"`
	Children    []BrowseItem `json:"children,omitempty"`
}

// BrowseResponsePayload is the response a device adapter publishes on the
// per-request browse result topic.
type BrowseResponsePayload struct {
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Error     string      `json:"error,omitempty"`
	Item      *BrowseItem `json:"item,omitempty"`
}

// decodeSnapshot parses a retained state payload into a device snapshot.
// The device id comes from the topic, not the payload: the topic is the
// authoritative identity on the bus.
func decodeSnapshot(deviceID string, payload []byte) (device.Snapshot, error) {
	var snap device.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return device.Snapshot{}, fmt.Errorf("decoding state for %s: %w", deviceID, err)
	}
	snap.ID = deviceID
	return snap, nil
}

// toBrowseNode converts a wire browse item into the domain representation.
func toBrowseNode(item BrowseItem) device.BrowseNode {
	node := device.BrowseNode{
		Title:       item.Title,
		ContentID:   item.ContentID,
		ContentType: item.ContentType,
		CanPlay:     item.CanPlay,
		CanExpand:   item.CanExpand,
	}
	for _, child := range item.Children {
		node.Children = append(node.Children, toBrowseNode(child))
	}
	return node
}
