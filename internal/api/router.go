package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// WS ticket requires authentication; the ticket then authorises
			// the WebSocket upgrade without a token in the URL.
			r.Post("/auth/ws-ticket", s.handleWSTicket)

			// Composite player endpoints
			r.Route("/player", func(r chi.Router) {
				r.Get("/", s.handleGetPlayer)
				r.Get("/sources", s.handleListSources)
				r.Post("/source", s.handleSelectSource)
				r.Get("/browse", s.handleBrowse)

				r.Post("/turn_on", s.handlePlayerCommand(cmdTurnOn))
				r.Post("/turn_off", s.handlePlayerCommand(cmdTurnOff))
				r.Post("/play", s.handlePlayerCommand(cmdPlay))
				r.Post("/pause", s.handlePlayerCommand(cmdPause))
				r.Post("/play_pause", s.handlePlayerCommand(cmdPlayPause))
				r.Post("/stop", s.handlePlayerCommand(cmdStop))
				r.Post("/next", s.handlePlayerCommand(cmdNext))
				r.Post("/previous", s.handlePlayerCommand(cmdPrevious))
				r.Post("/clear_playlist", s.handlePlayerCommand(cmdClearPlaylist))
				r.Post("/volume_up", s.handlePlayerCommand(cmdVolumeUp))
				r.Post("/volume_down", s.handlePlayerCommand(cmdVolumeDown))

				r.Post("/volume", s.handleSetVolume)
				r.Post("/mute", s.handleSetMute)
				r.Post("/seek", s.handleSeek)
				r.Post("/shuffle", s.handleSetShuffle)
				r.Post("/play_media", s.handlePlayMedia)
			})

			// Wired device endpoints (read-only view of the registry)
			r.Route("/devices", func(r chi.Router) {
				r.Get("/", s.handleListDevices)
				r.Get("/{id}", s.handleGetDevice)
			})

			// History endpoints
			r.Route("/history", func(r chi.Router) {
				r.Get("/transitions", s.handleListTransitions)
				r.Get("/cycles", s.handleListCycles)
			})

			// WebSocket (auth via ticket, validated in handler)
			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
