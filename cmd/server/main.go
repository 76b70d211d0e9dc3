// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/canarymap/internal/api"
	"github.com/tomtom215/canarymap/internal/cache"
	"github.com/tomtom215/canarymap/internal/charts"
	"github.com/tomtom215/canarymap/internal/config"
	"github.com/tomtom215/canarymap/internal/datasource"
	"github.com/tomtom215/canarymap/internal/geo"
	"github.com/tomtom215/canarymap/internal/logging"
	"github.com/tomtom215/canarymap/internal/supervisor"
	"github.com/tomtom215/canarymap/internal/supervisor/services"
	ws "github.com/tomtom215/canarymap/internal/websocket"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("api_base_url", cfg.Datasource.APIBaseURL).
		Str("map_asset", cfg.Map.AssetPath).
		Bool("mock_backend", cfg.MockBackend.Enabled).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Canarymap")

	synth := datasource.NewRandomSynthesizer()
	source, breaker := buildSource(cfg, synth)

	store := charts.NewStore()
	session := ws.SessionConfig{
		Cache:  cache.NewCanaryCache(),
		Source: source,
		Assets: geo.FileAsset{Path: cfg.Map.AssetPath},
		Charts: charts.NewRenderer(cfg.Charts),
		Store:  store,
	}

	hub := ws.NewHub()
	handler := api.NewHandler(api.HandlerDeps{
		Config:  cfg,
		Hub:     hub,
		Session: session,
		Breaker: breaker,
		Synth:   synth,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security)))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), cfg.Supervisor)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddMessagingService(services.NewSessionHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Supervisor.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}
	logging.Info().Int("charts_left", store.Len()).Msg("Canarymap stopped")
}

// buildSource chains client, breaker and synthetic fallback. breaker is nil
// when the breaker is disabled or there is no backend.
func buildSource(cfg *config.Config, synth *datasource.Synthesizer) (datasource.Source, api.BreakerStatus) {
	if cfg.Datasource.APIBaseURL == "" {
		logging.Warn().Msg("No backend configured, serving synthetic data only")
		return datasource.NewFallbackSource(nil, synth), nil
	}

	var fetcher datasource.Fetcher = datasource.NewClient(cfg.Datasource)
	if !cfg.Datasource.Breaker.Enabled {
		return datasource.NewFallbackSource(fetcher, synth), nil
	}
	cb := datasource.NewCircuitBreakerClient(fetcher, cfg.Datasource.Breaker)
	return datasource.NewFallbackSource(cb, synth), cb
}
