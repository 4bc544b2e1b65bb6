package stack

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/elupus/media-stack-core/internal/device"
)

// chainFixture wires stereo -> tv -> pvr with the stereo listening to AUX
// and the tv powered off, so switching to the pvr needs the full replay.
func chainFixture() (*fakeStates, *fakeCommander, *Player) {
	states := newFakeStates(
		device.Snapshot{
			ID: "media_player.stereo", Name: "stereo",
			Status: device.StatusOn, Source: "AUX",
			SourceList: []string{"AUX", "DISPLAY"},
		},
		device.Snapshot{
			ID: "media_player.tv", Name: "tv",
			Status: device.StatusOff, Source: "HDMI 1",
			SourceList: []string{"HDMI 1", "HDMI 3"},
		},
		device.Snapshot{
			ID: "media_player.pvr", Name: "pvr",
			Status: device.StatusOn, Source: "BBC",
			SourceList: []string{"BBC", "ITV"},
		},
	)
	wiring := mustWiring(
		WiringEntry{Device: "media_player.stereo", Sources: map[string]string{"DISPLAY": "media_player.tv"}},
		WiringEntry{Device: "media_player.tv", Sources: map[string]string{"HDMI 3": "media_player.pvr"}},
	)
	commander := newFakeCommander(states)
	player := newTestPlayer(wiring, states, commander)
	player.Refresh()
	return states, commander, player
}

func commandSequence(calls []call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.deviceID + "/" + string(c.cmd)
	}
	return out
}

func TestSelectSource_ReplaysChainRootToLeaf(t *testing.T) {
	_, commander, player := chainFixture()
	commander.applyEffects = true

	if err := player.SelectSource(context.Background(), "pvr: BBC"); err != nil {
		t.Fatalf("SelectSource() error = %v", err)
	}

	want := []string{
		"media_player.stereo/select_source",
		"media_player.tv/turn_on",
		"media_player.tv/select_source",
	}
	if got := commandSequence(commander.recorded()); !reflect.DeepEqual(got, want) {
		t.Errorf("command sequence = %v, want %v", got, want)
	}

	// The pvr was already on BBC; it must not be touched.
	for _, c := range commander.recorded() {
		if c.deviceID == "media_player.pvr" {
			t.Errorf("unexpected command to pvr: %s", c.cmd)
		}
	}

	// Parameter check on the source selections.
	calls := commander.recorded()
	if src := calls[0].params[device.ParamSource]; src != "DISPLAY" {
		t.Errorf("stereo selected %v, want DISPLAY", src)
	}
	if src := calls[2].params[device.ParamSource]; src != "HDMI 3" {
		t.Errorf("tv selected %v, want HDMI 3", src)
	}
}

func TestSelectSource_SecondCallIsIdempotent(t *testing.T) {
	_, commander, player := chainFixture()
	commander.applyEffects = true

	if err := player.SelectSource(context.Background(), "pvr: BBC"); err != nil {
		t.Fatalf("first SelectSource() error = %v", err)
	}
	commander.reset()

	// Devices now report the switched state; a re-select issues nothing.
	if err := player.SelectSource(context.Background(), "pvr: BBC"); err != nil {
		t.Fatalf("second SelectSource() error = %v", err)
	}
	if n := commander.callCount(); n != 0 {
		t.Errorf("second call issued %d commands, want 0: %v", n, commandSequence(commander.recorded()))
	}
}

func TestSelectSource_UnknownLabel(t *testing.T) {
	_, commander, player := chainFixture()

	err := player.SelectSource(context.Background(), "projector: VGA")
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("SelectSource() error = %v, want ErrSourceNotFound", err)
	}
	if n := commander.callCount(); n != 0 {
		t.Errorf("issued %d commands before failing, want 0", n)
	}
}

func TestSelectSource_MidChainFailureAborts(t *testing.T) {
	_, commander, player := chainFixture()
	boom := errors.New("device rejected command")
	commander.failOn["media_player.tv/turn_on"] = boom

	err := player.SelectSource(context.Background(), "pvr: BBC")
	if !errors.Is(err, boom) {
		t.Fatalf("SelectSource() error = %v, want wrapped %v", err, boom)
	}

	// The failing hop is the last command attempted; nothing downstream runs.
	want := []string{
		"media_player.stereo/select_source",
		"media_player.tv/turn_on",
	}
	if got := commandSequence(commander.recorded()); !reflect.DeepEqual(got, want) {
		t.Errorf("command sequence = %v, want %v", got, want)
	}
}

func TestPlayMedia_RoutesChainThenDelegates(t *testing.T) {
	_, commander, player := chainFixture()
	commander.applyEffects = true

	err := player.PlayMedia(context.Background(), "video", "media_player.pvr:recordings/123")
	if err != nil {
		t.Fatalf("PlayMedia() error = %v", err)
	}

	calls := commander.recorded()
	if len(calls) == 0 {
		t.Fatal("no commands issued")
	}
	last := calls[len(calls)-1]
	if last.deviceID != "media_player.pvr" || last.cmd != device.CommandPlayMedia {
		t.Fatalf("last command = %s/%s, want media_player.pvr/play_media", last.deviceID, last.cmd)
	}
	if id := last.params[device.ParamContentID]; id != "recordings/123" {
		t.Errorf("content id = %v, want prefix stripped", id)
	}
	if ct := last.params[device.ParamContentType]; ct != "video" {
		t.Errorf("content type = %v, want video", ct)
	}
}

func TestPlayMedia_UnknownDevice(t *testing.T) {
	_, commander, player := chainFixture()

	err := player.PlayMedia(context.Background(), "video", "media_player.projector:movies/1")
	if !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("PlayMedia() error = %v, want ErrTargetNotFound", err)
	}
	if n := commander.callCount(); n != 0 {
		t.Errorf("issued %d commands before failing, want 0", n)
	}
}

func TestTurnOff_FansOutToEveryDevice(t *testing.T) {
	_, commander, player := chainFixture()

	if err := player.TurnOff(context.Background()); err != nil {
		t.Fatalf("TurnOff() error = %v", err)
	}

	got := make(map[string]device.Command)
	for _, c := range commander.recorded() {
		got[c.deviceID] = c.cmd
	}
	for _, id := range []string{"media_player.stereo", "media_player.tv", "media_player.pvr"} {
		if got[id] != device.CommandTurnOff {
			t.Errorf("device %s got %q, want turn_off", id, got[id])
		}
	}
	if n := commander.callCount(); n != 3 {
		t.Errorf("issued %d commands, want 3", n)
	}
}

func TestTurnOff_FailureDoesNotStopOthers(t *testing.T) {
	_, commander, player := chainFixture()
	boom := errors.New("unreachable")
	commander.failOn["media_player.tv/turn_off"] = boom

	err := player.TurnOff(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("TurnOff() error = %v, want joined %v", err, boom)
	}
	if n := commander.callCount(); n != 3 {
		t.Errorf("issued %d commands, want all 3 despite failure", n)
	}
}
