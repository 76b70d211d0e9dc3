// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

/*
Package main is the entry point for the Canarymap server.

Canarymap shows canary-test health per country: a world choropleth of API
call share, and per-country detail with 60-day availability for each canary
group, its APIs and their trend charts. Every browser tab is one dashboard
session on a websocket; the server owns the view state and pushes render
messages.

# Process layout

	"canarymap"
	├── "messaging-layer"
	│   └── session-hub
	└── "api-layer"
	    └── http-server

Startup order:

 1. Configuration (Koanf v2: defaults, config.yaml, environment)
 2. Logging (zerolog)
 3. Backend client, circuit breaker and synthetic fallback
 4. Shared canary cache, map asset loader, chart renderer and store
 5. Session hub and chi router
 6. Supervisor tree, until SIGINT or SIGTERM

# Configuration

Common environment variables:

	API_BASE_URL          backend prefix for /countries and /canary-groups/{country}
	MAP_ASSET_PATH        GeoJSON world map
	ENABLE_MOCK_BACKEND   serve synthetic data at /mock/api
	HTTP_PORT             listen port (default 8050)
	LOG_LEVEL, LOG_FORMAT

An empty API_BASE_URL runs on synthetic data only.

# Development without a backend

	export ENABLE_MOCK_BACKEND=true
	export API_BASE_URL=http://localhost:8050/mock/api
	./canarymap
*/
package main
