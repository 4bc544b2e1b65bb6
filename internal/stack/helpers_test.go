package stack

import (
	"context"
	"fmt"
	"sync"

	"github.com/elupus/media-stack-core/internal/device"
)

// fakeStates is a test implementation of device.StateReader.
type fakeStates struct {
	mu    sync.Mutex
	snaps map[string]device.Snapshot
}

func newFakeStates(snaps ...device.Snapshot) *fakeStates {
	f := &fakeStates{snaps: make(map[string]device.Snapshot)}
	for _, s := range snaps {
		f.snaps[s.ID] = s
	}
	return f
}

func (f *fakeStates) State(deviceID string) (device.Snapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.snaps[deviceID]
	return snap.Clone(), ok
}

func (f *fakeStates) set(snap device.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps[snap.ID] = snap
}

// call records one command issued through the fake commander.
type call struct {
	deviceID string
	cmd      device.Command
	params   device.Params
}

// fakeCommander is a test implementation of device.Commander. It records
// every call; with applyEffects set it also updates the backing fakeStates
// the way a well-behaved device would, so a follow-up resolution or switch
// observes the new state.
type fakeCommander struct {
	mu           sync.Mutex
	calls        []call
	failOn       map[string]error // keyed by "<deviceID>/<cmd>"
	states       *fakeStates
	applyEffects bool
}

func newFakeCommander(states *fakeStates) *fakeCommander {
	return &fakeCommander{
		failOn: make(map[string]error),
		states: states,
	}
}

func (f *fakeCommander) Call(_ context.Context, deviceID string, cmd device.Command, params device.Params) error {
	f.mu.Lock()
	f.calls = append(f.calls, call{deviceID: deviceID, cmd: cmd, params: params})
	err := f.failOn[deviceID+"/"+string(cmd)]
	f.mu.Unlock()
	if err != nil {
		return err
	}

	if f.applyEffects && f.states != nil {
		f.applyEffect(deviceID, cmd, params)
	}
	return nil
}

func (f *fakeCommander) applyEffect(deviceID string, cmd device.Command, params device.Params) {
	snap, ok := f.states.State(deviceID)
	if !ok {
		return
	}
	switch cmd {
	case device.CommandTurnOn:
		snap.Status = device.StatusOn
	case device.CommandTurnOff:
		snap.Status = device.StatusOff
	case device.CommandSelectSource:
		if src, ok := params[device.ParamSource].(string); ok {
			snap.Source = src
		}
	}
	f.states.set(snap)
}

func (f *fakeCommander) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCommander) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeCommander) reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

// fakeBrowser is a test implementation of device.Browser.
type fakeBrowser struct {
	nodes map[string]*device.BrowseNode // keyed by "<deviceID>/<contentID>"
	err   error
}

func (f *fakeBrowser) Browse(_ context.Context, deviceID, _, contentID string) (*device.BrowseNode, error) {
	if f.err != nil {
		return nil, f.err
	}
	node, ok := f.nodes[deviceID+"/"+contentID]
	if !ok {
		return nil, fmt.Errorf("no content at %s/%s", deviceID, contentID)
	}
	return node, nil
}

// mustWiring builds a WiringMap or fails the test setup.
func mustWiring(entries ...WiringEntry) *WiringMap {
	w, err := NewWiringMap(entries)
	if err != nil {
		panic(err)
	}
	return w
}

// Shared scenario fixture: a stereo fed by a TV which is fed by a PVR.
//
//	stereo --"DISPLAY"--> tv --"HDMI 1"--> stereo (cycle when wired)
//	                      tv --"HDMI 3"--> pvr
func stereoTVWiring() *WiringMap {
	return mustWiring(
		WiringEntry{Device: "media_player.stereo", Sources: map[string]string{
			"DISPLAY": "media_player.tv",
		}},
		WiringEntry{Device: "media_player.tv", Sources: map[string]string{
			"HDMI 1": "media_player.stereo",
			"HDMI 3": "media_player.pvr",
		}},
	)
}

func newTestPlayer(w *WiringMap, states *fakeStates, commander *fakeCommander) *Player {
	p, err := New(Deps{
		Name:      "Media Stack",
		Wiring:    w,
		States:    states,
		Commander: commander,
	})
	if err != nil {
		panic(err)
	}
	return p
}
