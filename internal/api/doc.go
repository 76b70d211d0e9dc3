// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

/*
Package api serves the Canarymap HTTP surface on a chi router.

Routes:

	GET /api/v1/health/live         liveness probe
	GET /api/v1/health/ready        readiness probe (map asset, breaker, cache, sessions)
	GET /metrics                    Prometheus metrics
	GET /ws                         dashboard session websocket
	GET /charts/{id}.png            image of a live chart widget
	GET /assets/world-map.json      the configured map geometry
	GET /mock/api/countries         synthetic backend (mock_backend.enabled only)
	GET /mock/api/canary-groups/{country}

JSON responses use the models.APIResponse envelope, except the mock backend,
which answers in the raw shapes the real backend uses so that
datasource.Client can be pointed at it unchanged.
*/
package api
