package stack

import (
	"context"
	"errors"
	"testing"

	"github.com/elupus/media-stack-core/internal/device"
)

func browseFixture() (*fakeStates, *fakeBrowser, *Player) {
	states := newFakeStates(
		device.Snapshot{
			ID: "media_player.stereo", Name: "stereo",
			Status: device.StatusOn, SourceList: []string{"DISPLAY"},
		},
		device.Snapshot{
			ID: "media_player.tv", Name: "tv",
			Status:   device.StatusOn,
			Features: device.FeatureBrowseMedia,
		},
		device.Snapshot{
			ID: "media_player.pvr", Name: "pvr",
			Status:   device.StatusOff,
			Features: device.FeatureBrowseMedia | device.FeaturePlayMedia,
		},
	)
	browser := &fakeBrowser{nodes: map[string]*device.BrowseNode{
		"media_player.pvr/": {
			Title:       "pvr",
			ContentID:   "",
			ContentType: "library",
			CanExpand:   true,
			Children: []device.BrowseNode{
				{Title: "Recordings", ContentID: "recordings", ContentType: "directory", CanExpand: true},
				{Title: "Live TV", ContentID: "live", ContentType: "directory", CanExpand: true},
			},
		},
		"media_player.pvr/recordings": {
			Title:       "Recordings",
			ContentID:   "recordings",
			ContentType: "directory",
			CanExpand:   true,
			Children: []device.BrowseNode{
				{Title: "Match of the Day", ContentID: "recordings/123", ContentType: "video", CanPlay: true},
			},
		},
	}}

	wiring := mustWiring(
		WiringEntry{Device: "media_player.stereo", Sources: map[string]string{"DISPLAY": "media_player.tv"}},
		WiringEntry{Device: "media_player.tv", Sources: map[string]string{"HDMI 3": "media_player.pvr"}},
	)

	player, err := New(Deps{
		Name:      "Media Stack",
		Wiring:    wiring,
		States:    states,
		Commander: newFakeCommander(states),
		Browser:   browser,
	})
	if err != nil {
		panic(err)
	}
	player.Refresh()
	return states, browser, player
}

func TestBrowse_RootListsBrowsableDevices(t *testing.T) {
	_, _, player := browseFixture()

	root, err := player.Browse(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Browse() error = %v", err)
	}

	if root.Title != "Media Stack" || !root.CanExpand || root.CanPlay {
		t.Errorf("root = %+v, want expandable non-playable composite node", root)
	}

	// The stereo advertises no browse support; the powered-off pvr still
	// shows up. Routing state never filters the library listing.
	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(root.Children))
	}
	ids := map[string]bool{}
	for _, child := range root.Children {
		ids[child.ContentID] = child.CanExpand
	}
	if !ids["media_player.tv"] || !ids["media_player.pvr"] {
		t.Errorf("root children = %v, want tv and pvr", ids)
	}
}

func TestBrowse_DelegatesWithPrefixedIDs(t *testing.T) {
	_, _, player := browseFixture()

	// A bare device id from the root listing browses that device's root.
	node, err := player.Browse(context.Background(), "library", "media_player.pvr")
	if err != nil {
		t.Fatalf("Browse(device root) error = %v", err)
	}
	if node.ContentID != "media_player.pvr:" {
		t.Errorf("root ContentID = %q, want prefixed", node.ContentID)
	}
	if len(node.Children) != 2 {
		t.Fatalf("device root has %d children, want 2", len(node.Children))
	}
	if got := node.Children[0].ContentID; got != "media_player.pvr:recordings" {
		t.Errorf("child ContentID = %q, want media_player.pvr:recordings", got)
	}

	// Follow the prefixed id down a level; grandchildren get prefixed too.
	sub, err := player.Browse(context.Background(), "directory", "media_player.pvr:recordings")
	if err != nil {
		t.Fatalf("Browse(subdirectory) error = %v", err)
	}
	if got := sub.Children[0].ContentID; got != "media_player.pvr:recordings/123" {
		t.Errorf("grandchild ContentID = %q, want media_player.pvr:recordings/123", got)
	}
	if !sub.Children[0].CanPlay {
		t.Error("playable leaf lost CanPlay through prefixing")
	}
}

func TestBrowse_UnknownDevice(t *testing.T) {
	_, _, player := browseFixture()

	_, err := player.Browse(context.Background(), "library", "media_player.nas:music")
	if !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Browse() error = %v, want ErrTargetNotFound", err)
	}
}

func TestBrowse_NoBrowserConfigured(t *testing.T) {
	states := newFakeStates(device.Snapshot{ID: "media_player.tv", Name: "tv", Status: device.StatusOn})
	wiring := mustWiring(WiringEntry{Device: "media_player.tv", Sources: map[string]string{}})
	player := newTestPlayer(wiring, states, newFakeCommander(states))

	_, err := player.Browse(context.Background(), "library", "media_player.tv:anything")
	if !errors.Is(err, ErrBrowseUnsupported) {
		t.Errorf("Browse() error = %v, want ErrBrowseUnsupported", err)
	}

	// The synthesised root needs no delegation and still works.
	if _, err := player.Browse(context.Background(), "", ""); err != nil {
		t.Errorf("Browse(root) error = %v", err)
	}
}
