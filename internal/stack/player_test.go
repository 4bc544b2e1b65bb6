package stack

import (
	"context"
	"errors"
	"testing"

	"github.com/elupus/media-stack-core/internal/device"
)

func TestNew_Validation(t *testing.T) {
	states := newFakeStates()
	commander := newFakeCommander(states)
	wiring := mustWiring()

	tests := []struct {
		name string
		deps Deps
		ok   bool
	}{
		{"complete", Deps{Name: "Media Stack", Wiring: wiring, States: states, Commander: commander}, true},
		{"missing name", Deps{Wiring: wiring, States: states, Commander: commander}, false},
		{"missing wiring", Deps{Name: "Media Stack", States: states, Commander: commander}, false},
		{"missing states", Deps{Name: "Media Stack", Wiring: wiring, Commander: commander}, false},
		{"missing commander", Deps{Name: "Media Stack", Wiring: wiring, States: states}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.deps)
			if (err == nil) != tt.ok {
				t.Errorf("New() error = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestPlayer_RefreshUpdatesProjection(t *testing.T) {
	states, _, player := chainFixture()

	proj := player.Projection()
	if proj.Status != device.StatusOn {
		t.Fatalf("initial Status = %q, want on (stereo on AUX)", proj.Status)
	}
	if proj.Source != "stereo: AUX" {
		t.Fatalf("initial Source = %q, want \"stereo: AUX\"", proj.Source)
	}

	// The stereo switches to the display input and the chain lights up.
	states.set(device.Snapshot{
		ID: "media_player.stereo", Name: "stereo",
		Status: device.StatusOn, Source: "DISPLAY",
		SourceList: []string{"AUX", "DISPLAY"},
	})
	states.set(device.Snapshot{
		ID: "media_player.tv", Name: "tv",
		Status: device.StatusOn, Source: "HDMI 3",
		SourceList: []string{"HDMI 1", "HDMI 3"},
	})

	fresh := player.Refresh()
	if fresh.Source != "pvr: BBC" {
		t.Errorf("Source after refresh = %q, want \"pvr: BBC\"", fresh.Source)
	}
	if got := player.Projection(); got.Source != fresh.Source {
		t.Errorf("Projection() = %q, want the refreshed value %q", got.Source, fresh.Source)
	}
}

func TestPlayer_OnUpdateHook(t *testing.T) {
	_, _, player := chainFixture()

	var seen []Projection
	player.OnUpdate(func(p Projection) { seen = append(seen, p) })

	player.Refresh()
	player.Refresh()

	if len(seen) != 2 {
		t.Fatalf("hook fired %d times, want 2", len(seen))
	}
	if seen[0].Source != "stereo: AUX" {
		t.Errorf("hook projection Source = %q, want \"stereo: AUX\"", seen[0].Source)
	}
}

func TestPlayer_OnCycleHook(t *testing.T) {
	states := newFakeStates(
		device.Snapshot{
			ID: "media_player.stereo", Name: "stereo",
			Status: device.StatusOn, Source: "DISPLAY",
			SourceList: []string{"DISPLAY"},
		},
		device.Snapshot{
			ID: "media_player.tv", Name: "tv",
			Status: device.StatusOn, Source: "HDMI 1",
			SourceList: []string{"HDMI 1"},
		},
	)
	wiring := mustWiring(
		WiringEntry{Device: "media_player.stereo", Sources: map[string]string{"DISPLAY": "media_player.tv"}},
		WiringEntry{Device: "media_player.tv", Sources: map[string]string{"HDMI 1": "media_player.stereo"}},
	)
	player := newTestPlayer(wiring, states, newFakeCommander(states))

	type cycleEvent struct{ deviceID, source, target string }
	var events []cycleEvent
	player.OnCycle(func(deviceID, source, target string) {
		events = append(events, cycleEvent{deviceID, source, target})
	})

	player.Refresh()

	if len(events) != 1 {
		t.Fatalf("cycle hook fired %d times, want 1", len(events))
	}
	want := cycleEvent{"media_player.tv", "HDMI 1", "media_player.stereo"}
	if events[0] != want {
		t.Errorf("cycle event = %+v, want %+v", events[0], want)
	}
}

func TestPlayer_TransportRoutesToActiveSource(t *testing.T) {
	_, commander, player := chainFixture()

	// The active source is the stereo itself (playing AUX).
	if err := player.Play(context.Background()); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if err := player.Pause(context.Background()); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if err := player.SetShuffle(context.Background(), true); err != nil {
		t.Fatalf("SetShuffle() error = %v", err)
	}

	for _, c := range commander.recorded() {
		if c.deviceID != "media_player.stereo" {
			t.Errorf("command %s went to %s, want the active source", c.cmd, c.deviceID)
		}
	}
	calls := commander.recorded()
	if len(calls) != 3 || calls[0].cmd != device.CommandPlay || calls[1].cmd != device.CommandPause {
		t.Errorf("commands = %v", commandSequence(calls))
	}
	if shuffle := calls[2].params[device.ParamShuffle]; shuffle != true {
		t.Errorf("shuffle param = %v, want true", shuffle)
	}
}

func TestPlayer_VolumeRoutesToSink(t *testing.T) {
	states, commander, player := chainFixture()

	// Light up the full chain so source and sink are different devices.
	states.set(device.Snapshot{
		ID: "media_player.stereo", Name: "stereo",
		Status: device.StatusOn, Source: "DISPLAY",
		SourceList: []string{"AUX", "DISPLAY"},
	})
	states.set(device.Snapshot{
		ID: "media_player.tv", Name: "tv",
		Status: device.StatusOn, Source: "HDMI 3",
		SourceList: []string{"HDMI 1", "HDMI 3"},
	})
	player.Refresh()

	if err := player.SetVolume(context.Background(), 0.4); err != nil {
		t.Fatalf("SetVolume() error = %v", err)
	}
	if err := player.Mute(context.Background(), true); err != nil {
		t.Fatalf("Mute() error = %v", err)
	}
	if err := player.NextTrack(context.Background()); err != nil {
		t.Fatalf("NextTrack() error = %v", err)
	}

	calls := commander.recorded()
	if len(calls) != 3 {
		t.Fatalf("issued %d commands, want 3", len(calls))
	}
	if calls[0].deviceID != "media_player.stereo" || calls[0].cmd != device.CommandVolumeSet {
		t.Errorf("volume went to %s/%s, want the sink stereo", calls[0].deviceID, calls[0].cmd)
	}
	if level := calls[0].params[device.ParamVolume]; level != 0.4 {
		t.Errorf("volume level = %v, want 0.4", level)
	}
	if calls[1].deviceID != "media_player.stereo" || calls[1].cmd != device.CommandVolumeMute {
		t.Errorf("mute went to %s/%s, want the sink stereo", calls[1].deviceID, calls[1].cmd)
	}
	if calls[2].deviceID != "media_player.pvr" {
		t.Errorf("next-track went to %s, want the active source pvr", calls[2].deviceID)
	}
}

func TestPlayer_NoActiveSource(t *testing.T) {
	states := newFakeStates(
		device.Snapshot{
			ID: "media_player.tv", Name: "tv",
			Status: device.StatusOff, SourceList: []string{"HDMI 1"},
		},
	)
	wiring := mustWiring(WiringEntry{Device: "media_player.tv", Sources: map[string]string{}})
	commander := newFakeCommander(states)
	player := newTestPlayer(wiring, states, commander)
	player.Refresh()

	if err := player.Play(context.Background()); !errors.Is(err, ErrNoActiveSource) {
		t.Errorf("Play() error = %v, want ErrNoActiveSource", err)
	}

	// Volume still reaches the sink even with nothing active.
	if err := player.SetVolume(context.Background(), 0.1); err != nil {
		t.Errorf("SetVolume() error = %v", err)
	}
	if n := commander.callCount(); n != 1 {
		t.Errorf("issued %d commands, want only the volume call", n)
	}
}

func TestPlayer_NoSink(t *testing.T) {
	states := newFakeStates()
	player := newTestPlayer(mustWiring(), states, newFakeCommander(states))
	player.Refresh()

	if err := player.SetVolume(context.Background(), 0.5); !errors.Is(err, ErrNoSink) {
		t.Errorf("SetVolume() error = %v, want ErrNoSink", err)
	}
	if err := player.VolumeUp(context.Background()); !errors.Is(err, ErrNoSink) {
		t.Errorf("VolumeUp() error = %v, want ErrNoSink", err)
	}
}
