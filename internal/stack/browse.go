package stack

import (
	"context"
	"fmt"
	"strings"

	"github.com/elupus/media-stack-core/internal/device"
)

// browseContentTypeLibrary is the content type of synthesised library nodes.
const browseContentTypeLibrary = "library"

// Browse serves a media-browse request against the composite player.
//
// An empty content id returns the synthesised root: one expandable child
// per wired device that advertises native browsing, regardless of current
// routing. Any other content id carries a "<deviceID>:" prefix and is
// delegated to that device; returned content ids are re-prefixed
// (recursively) so follow-up browse and play requests route back through
// the same child.
func (p *Player) Browse(ctx context.Context, contentType, contentID string) (*device.BrowseNode, error) {
	if contentID == "" {
		return p.browseRoot(), nil
	}

	deviceID, subID, _ := strings.Cut(contentID, ":")
	if !p.wiring.HasDevice(deviceID) {
		return nil, fmt.Errorf("%w: %q", ErrTargetNotFound, deviceID)
	}
	if p.browser == nil {
		return nil, ErrBrowseUnsupported
	}

	if subID == "" {
		// Bare device id: browse the device's own root.
		contentType = ""
	}

	result, err := p.browser.Browse(ctx, deviceID, contentType, subID)
	if err != nil {
		return nil, fmt.Errorf("browsing %s: %w", deviceID, err)
	}

	prefixed := prefixContentIDs(*result, deviceID)
	return &prefixed, nil
}

// browseRoot synthesises the composite root listing: every wired device
// with native browse support, whether or not it is on the active chain.
func (p *Player) browseRoot() *device.BrowseNode {
	root := &device.BrowseNode{
		Title:       p.name,
		ContentType: browseContentTypeLibrary,
		CanPlay:     false,
		CanExpand:   true,
	}

	for _, id := range p.wiring.Devices() {
		snap, ok := p.states.State(id)
		if !ok || !snap.Features.Has(device.FeatureBrowseMedia) {
			continue
		}
		root.Children = append(root.Children, device.BrowseNode{
			Title:       snap.Name,
			ContentID:   id,
			ContentType: browseContentTypeLibrary,
			CanPlay:     false,
			CanExpand:   true,
		})
	}

	return root
}

// prefixContentIDs rewrites a browse tree's content ids with the owning
// device's prefix, recursively, returning a copy.
func prefixContentIDs(node device.BrowseNode, deviceID string) device.BrowseNode {
	node.ContentID = deviceID + ":" + node.ContentID
	if len(node.Children) > 0 {
		children := make([]device.BrowseNode, len(node.Children))
		for i, child := range node.Children {
			children[i] = prefixContentIDs(child, deviceID)
		}
		node.Children = children
	}
	return node
}
