// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

// Package metrics exposes Prometheus instrumentation for Canarymap.
//
// Instrumented areas:
//   - HTTP API latency and throughput
//   - Backend data source fetches, fallbacks and the circuit breaker
//   - Canary group cache efficiency and in-flight joins
//   - Dashboard sessions, intents and chart widget lifecycle
//   - WebSocket traffic
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Data Source Metrics
	DatasourceFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datasource_fetches_total",
			Help: "Total number of backend fetches by endpoint and result",
		},
		[]string{"endpoint", "result"}, // result: "success", "error"
	)

	DatasourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "datasource_fetch_duration_seconds",
			Help:    "Backend fetch duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	DatasourceFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datasource_fallbacks_total",
			Help: "Total number of times synthetic data replaced a failed backend fetch",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected", "canceled"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Canary Cache Metrics
	CanaryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "canary_cache_hits_total",
			Help: "Total number of canary group cache hits",
		},
	)

	CanaryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "canary_cache_misses_total",
			Help: "Total number of canary group cache misses",
		},
	)

	CanaryCacheInflightJoins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "canary_cache_inflight_joins_total",
			Help: "Total number of lookups that waited on an outstanding fetch instead of starting one",
		},
	)

	CanaryCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "canary_cache_entries",
			Help: "Current number of countries held in the canary group cache",
		},
	)

	// Dashboard Metrics
	DashboardSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_sessions",
			Help: "Current number of live dashboard sessions",
		},
	)

	DashboardIntents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_intents_total",
			Help: "Total number of dashboard intents by type and outcome",
		},
		[]string{"intent", "outcome"}, // outcome: "applied", "ignored"
	)

	DashboardStaleResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_stale_results_total",
			Help: "Total number of fetch completions discarded because the view moved on",
		},
	)

	DashboardWidgetsBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_widgets_built_total",
			Help: "Total number of chart widgets instantiated",
		},
		[]string{"kind"}, // kind: "map", "trend", "api"
	)

	DashboardWidgetsLive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dashboard_widgets_live",
			Help: "Current number of instantiated, undisposed chart widgets",
		},
		[]string{"kind"},
	)

	MapAssetErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "map_asset_load_errors_total",
			Help: "Total number of failed map geometry loads",
		},
	)

	ChartRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chart_render_duration_seconds",
			Help:    "Duration of PNG chart rendering in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDatasourceFetch records the outcome and latency of one backend fetch.
func RecordDatasourceFetch(endpoint string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	DatasourceFetches.WithLabelValues(endpoint, result).Inc()
	DatasourceFetchDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordFallback records that synthetic data was served for endpoint.
func RecordFallback(endpoint string) {
	DatasourceFallbacks.WithLabelValues(endpoint).Inc()
}

// RecordIntent records a dashboard intent and whether it changed state.
func RecordIntent(intent string, applied bool) {
	outcome := "ignored"
	if applied {
		outcome = "applied"
	}
	DashboardIntents.WithLabelValues(intent, outcome).Inc()
}

// RecordWidgetBuilt records a new widget of kind.
func RecordWidgetBuilt(kind string) {
	DashboardWidgetsBuilt.WithLabelValues(kind).Inc()
	DashboardWidgetsLive.WithLabelValues(kind).Inc()
}

// RecordWidgetDisposed records the destruction of a widget of kind.
func RecordWidgetDisposed(kind string) {
	DashboardWidgetsLive.WithLabelValues(kind).Dec()
}
