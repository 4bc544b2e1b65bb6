package device

// Status is the reported power/activity state of a device.
type Status string

// Known device statuses. Devices on the bus report one of these; anything
// unrecognised is mapped to StatusUnavailable at the bus boundary.
const (
	StatusOn          Status = "on"
	StatusOff         Status = "off"
	StatusStandby     Status = "standby"
	StatusUnavailable Status = "unavailable"
	StatusIdle        Status = "idle"
	StatusPlaying     Status = "playing"
	StatusPaused      Status = "paused"
	StatusBuffering   Status = "buffering"
)

// offStatuses are the statuses in which a device is not producing output.
// A device in one of these states never carries the active chain.
var offStatuses = map[Status]struct{}{
	StatusOff:         {},
	StatusStandby:     {},
	StatusUnavailable: {},
	StatusIdle:        {},
}

// IsOff reports whether the status is in the off-set
// (off, standby, unavailable, idle).
func (s Status) IsOff() bool {
	_, off := offStatuses[s]
	return off
}

// ParseStatus normalises a raw status string from the bus.
// Unknown values become StatusUnavailable rather than an error: a device
// reporting something exotic is treated the same as one we cannot reach.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusOn, StatusOff, StatusStandby, StatusUnavailable,
		StatusIdle, StatusPlaying, StatusPaused, StatusBuffering:
		return Status(raw)
	default:
		return StatusUnavailable
	}
}

// Feature is a bitmask of device capabilities.
type Feature uint32

// Device capability bits.
const (
	FeaturePause Feature = 1 << iota
	FeatureSeek
	FeatureVolumeSet
	FeatureVolumeMute
	FeaturePreviousTrack
	FeatureNextTrack
	FeaturePlayMedia
	FeatureVolumeStep
	FeatureSelectSource
	FeatureStop
	FeatureClearPlaylist
	FeaturePlay
	FeatureShuffleSet
	FeatureTurnOn
	FeatureTurnOff
	FeatureBrowseMedia
)

// FeatureVolume groups the bits that belong to the output stage. The
// composite player always takes these from the sink device, never from
// whichever source is active.
const FeatureVolume = FeatureVolumeSet | FeatureVolumeMute | FeatureVolumeStep

// FeatureAnyDevice groups the bits that any wired device can contribute to
// the composite player regardless of current routing (media libraries stay
// browsable even when the route points elsewhere).
const FeatureAnyDevice = FeatureBrowseMedia | FeaturePlayMedia

// Has reports whether all bits in want are set.
func (f Feature) Has(want Feature) bool {
	return f&want == want
}

// Command identifies a command kind issued to a device.
//
// One parameterised command kind plus a payload replaces a method per
// command; the bus serialises the kind verbatim into the command envelope.
type Command string

// Command kinds understood by devices on the bus.
const (
	CommandTurnOn        Command = "turn_on"
	CommandTurnOff       Command = "turn_off"
	CommandSelectSource  Command = "select_source"
	CommandVolumeSet     Command = "volume_set"
	CommandVolumeMute    Command = "volume_mute"
	CommandVolumeUp      Command = "volume_up"
	CommandVolumeDown    Command = "volume_down"
	CommandPlay          Command = "media_play"
	CommandPause         Command = "media_pause"
	CommandPlayPause     Command = "media_play_pause"
	CommandStop          Command = "media_stop"
	CommandNextTrack     Command = "media_next_track"
	CommandPreviousTrack Command = "media_previous_track"
	CommandSeek          Command = "media_seek"
	CommandPlayMedia     Command = "play_media"
	CommandClearPlaylist Command = "clear_playlist"
	CommandShuffleSet    Command = "shuffle_set"
)

// Params carries the payload of a command (source name, volume level, media
// content id, and so on). Keys follow the bus attribute names.
type Params map[string]any

// Well-known parameter and attribute keys.
const (
	ParamSource      = "source"
	ParamVolume      = "volume_level"
	ParamMuted       = "is_volume_muted"
	ParamPosition    = "seek_position"
	ParamShuffle     = "shuffle"
	ParamContentType = "media_content_type"
	ParamContentID   = "media_content_id"
)

// Snapshot is a read-only view of a device's last reported state.
//
// Snapshots are value types: the registry hands out copies, so holding one
// across a refresh never observes later bus updates.
type Snapshot struct {
	// ID is the device identifier (also its topic segment on the bus).
	ID string `json:"id"`

	// Name is the human-readable device name.
	Name string `json:"name"`

	// Status is the reported power/activity state.
	Status Status `json:"status"`

	// Source is the currently selected input source, if any.
	Source string `json:"source,omitempty"`

	// SourceList is the device's advertised selectable sources. May be
	// empty, and may omit the live Source (some devices under-report).
	SourceList []string `json:"source_list,omitempty"`

	// Volume is the volume level (0.0-1.0), if the device reports one.
	Volume *float64 `json:"volume,omitempty"`

	// Muted is the mute flag, if the device reports one.
	Muted *bool `json:"muted,omitempty"`

	// Features is the device's capability bitmask.
	Features Feature `json:"features"`

	// Passthrough attributes surfaced on the composite player when this
	// device is the active source.
	Icon         string `json:"icon,omitempty"`
	Picture      string `json:"picture,omitempty"`
	AssumedState bool   `json:"assumed_state,omitempty"`
	Shuffle      *bool  `json:"shuffle,omitempty"`
	AppName      string `json:"app_name,omitempty"`
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	cpy := s
	if s.SourceList != nil {
		cpy.SourceList = make([]string, len(s.SourceList))
		copy(cpy.SourceList, s.SourceList)
	}
	if s.Volume != nil {
		v := *s.Volume
		cpy.Volume = &v
	}
	if s.Muted != nil {
		m := *s.Muted
		cpy.Muted = &m
	}
	if s.Shuffle != nil {
		sh := *s.Shuffle
		cpy.Shuffle = &sh
	}
	return cpy
}

// Sources returns the device's selectable sources with the live current
// source appended when the advertised list omits it, order preserved and
// deduplicated. This guarantees the current source is always represented.
func (s Snapshot) Sources() []string {
	seen := make(map[string]struct{}, len(s.SourceList)+1)
	out := make([]string, 0, len(s.SourceList)+1)
	for _, src := range s.SourceList {
		if _, dup := seen[src]; dup || src == "" {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
	}
	if s.Source != "" {
		if _, dup := seen[s.Source]; !dup {
			out = append(out, s.Source)
		}
	}
	return out
}

// BrowseNode is one node of a device's media library tree as returned by a
// native browse request.
type BrowseNode struct {
	Title       string       `json:"title"`
	ContentID   string       `json:"media_content_id"`
	ContentType string       `json:"media_content_type"`
	CanPlay     bool         `json:"can_play"`
	CanExpand   bool         `json:"can_expand"`
	Children    []BrowseNode `json:"children,omitempty"`
}
