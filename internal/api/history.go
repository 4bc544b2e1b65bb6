package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/elupus/media-stack-core/internal/history"
)

// handleListTransitions returns recorded composite state transitions,
// most recent first. Supports since (RFC 3339), limit, and offset query
// parameters.
func (s *Server) handleListTransitions(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeNotFound(w, "history is not enabled")
		return
	}

	var filter history.Filter

	if since := r.URL.Query().Get("since"); since != "" {
		ts, err := time.Parse(time.RFC3339, since)
		if err != nil {
			writeBadRequest(w, "since must be an RFC 3339 timestamp")
			return
		}
		filter.Since = ts
	}

	var ok bool
	if filter.Limit, ok = parseIntParam(w, r, "limit"); !ok {
		return
	}
	if filter.Offset, ok = parseIntParam(w, r, "offset"); !ok {
		return
	}

	transitions, err := s.history.ListTransitions(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing transitions failed", "error", err)
		writeInternalError(w, "failed to list transitions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transitions": transitions,
		"count":       len(transitions),
	})
}

// handleListCycles returns recorded wiring cycle events, most recent first.
func (s *Server) handleListCycles(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeNotFound(w, "history is not enabled")
		return
	}

	limit, ok := parseIntParam(w, r, "limit")
	if !ok {
		return
	}

	cycles, err := s.history.ListCycles(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing cycle events failed", "error", err)
		writeInternalError(w, "failed to list cycle events")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"cycles": cycles,
		"count":  len(cycles),
	})
}

// parseIntParam reads a non-negative integer query parameter. A missing
// parameter yields zero. On a malformed value it writes a 400 response and
// returns ok=false.
func parseIntParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeBadRequest(w, name+" must be a non-negative integer")
		return 0, false
	}
	return v, true
}
