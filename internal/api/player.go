package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/elupus/media-stack-core/internal/stack"
)

// playerCommand names a parameterless composite player operation.
type playerCommand string

const (
	cmdTurnOn        playerCommand = "turn_on"
	cmdTurnOff       playerCommand = "turn_off"
	cmdPlay          playerCommand = "play"
	cmdPause         playerCommand = "pause"
	cmdPlayPause     playerCommand = "play_pause"
	cmdStop          playerCommand = "stop"
	cmdNext          playerCommand = "next"
	cmdPrevious      playerCommand = "previous"
	cmdClearPlaylist playerCommand = "clear_playlist"
	cmdVolumeUp      playerCommand = "volume_up"
	cmdVolumeDown    playerCommand = "volume_down"
)

// handleGetPlayer returns the current composite projection.
func (s *Server) handleGetPlayer(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.player.Projection())
}

// handleListSources returns the active source and the full source list.
func (s *Server) handleListSources(w http.ResponseWriter, _ *http.Request) {
	proj := s.player.Projection()
	writeJSON(w, http.StatusOK, map[string]any{
		"source":      proj.Source,
		"source_list": proj.SourceList,
	})
}

// selectSourceRequest is the request body for POST /player/source.
type selectSourceRequest struct {
	Source string `json:"source"`
}

// handleSelectSource routes the composite player to the named source,
// switching every device along the wiring chain.
func (s *Server) handleSelectSource(w http.ResponseWriter, r *http.Request) {
	var req selectSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Source == "" {
		writeBadRequest(w, "source is required")
		return
	}

	if err := s.player.SelectSource(r.Context(), req.Source); err != nil {
		s.writePlayerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.player.Refresh())
}

// handlePlayerCommand returns a handler for one parameterless player command.
func (s *Server) handlePlayerCommand(cmd playerCommand) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		ctx := r.Context()

		switch cmd {
		case cmdTurnOn:
			err = s.player.TurnOn(ctx)
		case cmdTurnOff:
			err = s.player.TurnOff(ctx)
		case cmdPlay:
			err = s.player.Play(ctx)
		case cmdPause:
			err = s.player.Pause(ctx)
		case cmdPlayPause:
			err = s.player.PlayPause(ctx)
		case cmdStop:
			err = s.player.Stop(ctx)
		case cmdNext:
			err = s.player.NextTrack(ctx)
		case cmdPrevious:
			err = s.player.PreviousTrack(ctx)
		case cmdClearPlaylist:
			err = s.player.ClearPlaylist(ctx)
		case cmdVolumeUp:
			err = s.player.VolumeUp(ctx)
		case cmdVolumeDown:
			err = s.player.VolumeDown(ctx)
		default:
			writeNotFound(w, "unknown command")
			return
		}

		if err != nil {
			s.writePlayerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.player.Refresh())
	}
}

// handleSetVolume sets the sink volume level.
func (s *Server) handleSetVolume(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level *float64 `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Level == nil {
		writeBadRequest(w, "level is required")
		return
	}
	if *req.Level < 0 || *req.Level > 1 {
		writeBadRequest(w, "level must be between 0.0 and 1.0")
		return
	}

	s.runPlayerCommand(r.Context(), w, func(ctx context.Context) error {
		return s.player.SetVolume(ctx, *req.Level)
	})
}

// handleSetMute mutes or unmutes the sink.
func (s *Server) handleSetMute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Muted *bool `json:"muted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Muted == nil {
		writeBadRequest(w, "muted is required")
		return
	}

	s.runPlayerCommand(r.Context(), w, func(ctx context.Context) error {
		return s.player.Mute(ctx, *req.Muted)
	})
}

// handleSeek seeks the active source to a position in seconds.
func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position *float64 `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Position == nil {
		writeBadRequest(w, "position is required")
		return
	}

	s.runPlayerCommand(r.Context(), w, func(ctx context.Context) error {
		return s.player.Seek(ctx, *req.Position)
	})
}

// handleSetShuffle sets shuffle mode on the active source.
func (s *Server) handleSetShuffle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Shuffle *bool `json:"shuffle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Shuffle == nil {
		writeBadRequest(w, "shuffle is required")
		return
	}

	s.runPlayerCommand(r.Context(), w, func(ctx context.Context) error {
		return s.player.SetShuffle(ctx, *req.Shuffle)
	})
}

// playMediaRequest is the request body for POST /player/play_media.
type playMediaRequest struct {
	ContentType string `json:"media_content_type"`
	ContentID   string `json:"media_content_id"`
}

// handlePlayMedia routes the chain to the addressed device and delegates
// playback of the item to it.
func (s *Server) handlePlayMedia(w http.ResponseWriter, r *http.Request) {
	var req playMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.ContentID == "" {
		writeBadRequest(w, "media_content_id is required")
		return
	}

	s.runPlayerCommand(r.Context(), w, func(ctx context.Context) error {
		return s.player.PlayMedia(ctx, req.ContentType, req.ContentID)
	})
}

// handleBrowse serves a media browse request. An absent media_content_id
// returns the synthesised root of browsable devices.
func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	contentType := r.URL.Query().Get("media_content_type")
	contentID := r.URL.Query().Get("media_content_id")

	node, err := s.player.Browse(r.Context(), contentType, contentID)
	if err != nil {
		s.writePlayerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, node)
}

// runPlayerCommand executes one player operation and writes the refreshed
// projection on success.
func (s *Server) runPlayerCommand(ctx context.Context, w http.ResponseWriter, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		s.writePlayerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.player.Refresh())
}

// writePlayerError maps stack errors to HTTP responses.
func (s *Server) writePlayerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, stack.ErrSourceNotFound),
		errors.Is(err, stack.ErrTargetNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, stack.ErrNoActiveSource),
		errors.Is(err, stack.ErrNoSink),
		errors.Is(err, stack.ErrBrowseUnsupported):
		writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	default:
		s.logger.Error("player command failed", "error", err)
		writeInternalError(w, err.Error())
	}
}
