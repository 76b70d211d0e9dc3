// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/canarymap/internal/middleware"
)

// Router wires handlers and middleware onto a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	mockBackend   bool
}

// NewRouter creates a Router. mw may be nil for default middleware settings.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	mock := handler.config != nil && handler.config.MockBackend.Enabled
	return &Router{handler: handler, chiMiddleware: mw, mockBackend: mock}
}

// chiMiddleware adapts http.HandlerFunc middleware to chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom("health", RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.With(router.chiMiddleware.RateLimitCustom("ws", RateLimitWebSocket)).
		Get("/ws", router.handler.WebSocket)

	r.With(router.chiMiddleware.RateLimitCustom("charts", RateLimitCharts), APISecurityHeaders()).
		Get("/charts/{id}.png", router.handler.ChartImage)

	r.With(
		router.chiMiddleware.RateLimit("assets"),
		chimiddleware.Compress(5, "application/json", "application/geo+json"),
	).Get("/assets/world-map.json", router.handler.WorldMap)

	if router.mockBackend {
		r.Route(MockBackendPrefix, func(r chi.Router) {
			r.Get("/countries", router.handler.MockCountries)
			r.Get("/canary-groups/{country}", router.handler.MockCanaryGroups)
		})
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
