// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/canarymap/internal/config"
	"github.com/tomtom215/canarymap/internal/datasource"
	"github.com/tomtom215/canarymap/internal/logging"
	ws "github.com/tomtom215/canarymap/internal/websocket"
)

// registerWait bounds how long an upgraded connection waits for the hub.
const registerWait = 5 * time.Second

// BreakerStatus reports the backend circuit breaker state.
type BreakerStatus interface {
	StateName() string
}

// HandlerDeps collects the services the handlers read from.
type HandlerDeps struct {
	Config  *config.Config
	Hub     *ws.Hub
	Session ws.SessionConfig

	// Breaker is nil when the circuit breaker is disabled.
	Breaker BreakerStatus

	// Synth backs the mock backend routes.
	Synth *datasource.Synthesizer
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and the websocket endpoint
//   - handlers_health.go: liveness and readiness probes
//   - handlers_assets.go: chart images and the world map asset
//   - mock_backend.go: synthetic backend for development
type Handler struct {
	config    *config.Config
	hub       *ws.Hub
	session   ws.SessionConfig
	breaker   BreakerStatus
	synth     *datasource.Synthesizer
	startTime time.Time
}

// NewHandler creates a Handler. Synth defaults to a randomly seeded synthesizer.
func NewHandler(deps HandlerDeps) *Handler {
	synth := deps.Synth
	if synth == nil {
		synth = datasource.NewRandomSynthesizer()
	}
	return &Handler{
		config:    deps.Config,
		hub:       deps.Hub,
		session:   deps.Session,
		breaker:   deps.Breaker,
		synth:     synth,
		startTime: time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins. Browsers always
// send Origin, so a missing header is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// WebSocket upgrades the request and starts a dashboard session on it.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.hub, conn, h.session)
	select {
	case h.hub.Register <- client:
	case <-time.After(registerWait):
		logging.Warn().Str("session_id", client.SessionID()).Msg("WebSocket hub not accepting sessions")
		_ = conn.Close()
		return
	}
	client.Start()
}
