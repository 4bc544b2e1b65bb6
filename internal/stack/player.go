package stack

import (
	"context"
	"fmt"
	"sync"

	"github.com/elupus/media-stack-core/internal/device"
)

// Logger defines the logging interface used by the Player.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// UpdateFunc is invoked with the fresh projection after every refresh.
type UpdateFunc func(Projection)

// Deps holds the dependencies required by the composite Player.
type Deps struct {
	// Name is the composite player's display name.
	Name string

	// Wiring is the static device wiring map.
	Wiring *WiringMap

	// States provides synchronous snapshot reads.
	States device.StateReader

	// Commander issues blocking device commands.
	Commander device.Commander

	// Browser delegates native media browsing. Optional; browsing
	// requests fail with ErrBrowseUnsupported when absent.
	Browser device.Browser

	// Logger is optional.
	Logger Logger
}

// Player is the composite virtual media player.
//
// It owns no device state: every Refresh re-selects the sink, re-resolves
// the source tree from live snapshots, and recomputes the projection. Reads
// (Projection) and writes (SelectSource, PlayMedia, transport and volume
// commands) both work off the most recent resolution; command execution
// re-reads live snapshots as it goes.
//
// Refresh and command execution are single logical tasks: the mutex makes
// each projection swap atomic, and command chains run sequentially on the
// calling goroutine.
type Player struct {
	name      string
	wiring    *WiringMap
	states    device.StateReader
	commander device.Commander
	browser   device.Browser
	logger    Logger

	mu    sync.Mutex
	sink  string
	nodes []*SourceInfo
	proj  Projection

	hookMu   sync.Mutex
	onUpdate []UpdateFunc
	onCycle  []CycleFunc
}

// New creates a composite Player from its dependencies.
func New(deps Deps) (*Player, error) {
	if deps.Name == "" {
		return nil, fmt.Errorf("player name is required")
	}
	if deps.Wiring == nil {
		return nil, fmt.Errorf("wiring map is required")
	}
	if deps.States == nil {
		return nil, fmt.Errorf("state reader is required")
	}
	if deps.Commander == nil {
		return nil, fmt.Errorf("commander is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	p := &Player{
		name:      deps.Name,
		wiring:    deps.Wiring,
		states:    deps.States,
		commander: deps.Commander,
		browser:   deps.Browser,
		logger:    logger,
	}
	p.proj = Projection{Name: deps.Name, Status: device.StatusStandby, SourceList: []string{}}
	return p, nil
}

// OnUpdate registers a hook invoked with the projection after each refresh.
// Hooks run on the refreshing goroutine and should return quickly.
func (p *Player) OnUpdate(fn UpdateFunc) {
	p.hookMu.Lock()
	p.onUpdate = append(p.onUpdate, fn)
	p.hookMu.Unlock()
}

// OnCycle registers a hook invoked whenever resolution breaks a wiring
// cycle. Used for diagnostics and telemetry.
func (p *Player) OnCycle(fn CycleFunc) {
	p.hookMu.Lock()
	p.onCycle = append(p.onCycle, fn)
	p.hookMu.Unlock()
}

// Refresh discards the previous resolution, rebuilds the source tree from
// live snapshots, and recomputes the composite projection.
//
// Returns the fresh projection. Update hooks fire after the projection has
// been swapped in, so a hook reading Projection() sees consistent state.
func (p *Player) Refresh() Projection {
	p.mu.Lock()
	sink, _ := SelectSink(p.wiring, p.states)
	nodes := Resolve(p.wiring, p.states, sink, p.cycleBroken)
	proj := Project(p.name, p.wiring, p.states, sink, nodes)

	p.sink = sink
	p.nodes = nodes
	p.proj = proj
	p.mu.Unlock()

	p.hookMu.Lock()
	hooks := make([]UpdateFunc, len(p.onUpdate))
	copy(hooks, p.onUpdate)
	p.hookMu.Unlock()
	for _, fn := range hooks {
		fn(proj)
	}

	return proj
}

// Projection returns the most recently computed composite state.
func (p *Player) Projection() Projection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.proj
}

// cycleBroken fans a cycle event out to the log and registered hooks.
func (p *Player) cycleBroken(deviceID, source, target string) {
	p.logger.Warn("wiring cycle broken",
		"device", deviceID,
		"source", source,
		"target", target,
	)

	p.hookMu.Lock()
	hooks := make([]CycleFunc, len(p.onCycle))
	copy(hooks, p.onCycle)
	p.hookMu.Unlock()
	for _, fn := range hooks {
		fn(deviceID, source, target)
	}
}

// activeDevice returns the id of the currently active source device.
func (p *Player) activeDevice() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if node := activeNode(p.nodes); node != nil {
		return node.DeviceID, true
	}
	return "", false
}

// sinkDevice returns the id of the current sink device.
func (p *Player) sinkDevice() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sink, p.sink != ""
}

// callSource issues a command to the active source device.
func (p *Player) callSource(ctx context.Context, cmd device.Command, params device.Params) error {
	id, ok := p.activeDevice()
	if !ok {
		return ErrNoActiveSource
	}
	return p.commander.Call(ctx, id, cmd, params)
}

// callSink issues a command to the sink device.
func (p *Player) callSink(ctx context.Context, cmd device.Command, params device.Params) error {
	id, ok := p.sinkDevice()
	if !ok {
		return ErrNoSink
	}
	return p.commander.Call(ctx, id, cmd, params)
}

// TurnOn powers on the active source device.
func (p *Player) TurnOn(ctx context.Context) error {
	return p.callSource(ctx, device.CommandTurnOn, nil)
}

// SetVolume sets the sink device's volume level (0.0-1.0).
func (p *Player) SetVolume(ctx context.Context, level float64) error {
	return p.callSink(ctx, device.CommandVolumeSet, device.Params{device.ParamVolume: level})
}

// Mute sets the sink device's mute flag.
func (p *Player) Mute(ctx context.Context, muted bool) error {
	return p.callSink(ctx, device.CommandVolumeMute, device.Params{device.ParamMuted: muted})
}

// VolumeUp steps the sink device's volume up.
func (p *Player) VolumeUp(ctx context.Context) error {
	return p.callSink(ctx, device.CommandVolumeUp, nil)
}

// VolumeDown steps the sink device's volume down.
func (p *Player) VolumeDown(ctx context.Context) error {
	return p.callSink(ctx, device.CommandVolumeDown, nil)
}

// Play sends a play command to the active source device.
func (p *Player) Play(ctx context.Context) error {
	return p.callSource(ctx, device.CommandPlay, nil)
}

// Pause sends a pause command to the active source device.
func (p *Player) Pause(ctx context.Context) error {
	return p.callSource(ctx, device.CommandPause, nil)
}

// PlayPause toggles playback on the active source device.
func (p *Player) PlayPause(ctx context.Context) error {
	return p.callSource(ctx, device.CommandPlayPause, nil)
}

// Stop sends a stop command to the active source device.
func (p *Player) Stop(ctx context.Context) error {
	return p.callSource(ctx, device.CommandStop, nil)
}

// NextTrack skips to the next track on the active source device.
func (p *Player) NextTrack(ctx context.Context) error {
	return p.callSource(ctx, device.CommandNextTrack, nil)
}

// PreviousTrack skips to the previous track on the active source device.
func (p *Player) PreviousTrack(ctx context.Context) error {
	return p.callSource(ctx, device.CommandPreviousTrack, nil)
}

// Seek seeks the active source device to the given position in seconds.
func (p *Player) Seek(ctx context.Context, position float64) error {
	return p.callSource(ctx, device.CommandSeek, device.Params{device.ParamPosition: position})
}

// ClearPlaylist clears the active source device's playlist.
func (p *Player) ClearPlaylist(ctx context.Context) error {
	return p.callSource(ctx, device.CommandClearPlaylist, nil)
}

// SetShuffle enables or disables shuffling on the active source device.
func (p *Player) SetShuffle(ctx context.Context, shuffle bool) error {
	return p.callSource(ctx, device.CommandShuffleSet, device.Params{device.ParamShuffle: shuffle})
}
