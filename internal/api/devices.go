package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListDevices returns the latest snapshot of every wired device.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	snaps := s.registry.All()
	writeJSON(w, http.StatusOK, map[string]any{
		"devices": snaps,
		"count":   len(snaps),
	})
}

// handleGetDevice returns the latest snapshot of one device.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, ok := s.registry.State(id)
	if !ok {
		writeNotFound(w, "device not found: "+id)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}
