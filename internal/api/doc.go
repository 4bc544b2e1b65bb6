// Package api implements the HTTP REST API and WebSocket server for
// Media Stack Core.
//
// This package provides:
//   - REST endpoints for the composite player, wired devices, and history
//   - WebSocket hub for real-time player state broadcasts
//   - JWT authentication with ticket-based WebSocket auth
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//   - TLS support for production deployments
//
// # Architecture
//
// The API server sits between user interfaces and the composite player.
// Player commands are routed through the stack package, which re-reads the
// wiring and device registry on every call; the API layer never talks to
// the MQTT bus directly. State flows the other way: the player's OnUpdate
// hook feeds the WebSocket hub via BroadcastPlayerState.
//
// # Security
//
// Authentication is a single configured account exchanged for a short-lived
// JWT. WebSocket connections use single-use tickets to keep tokens out of
// URLs and server logs.
package api
