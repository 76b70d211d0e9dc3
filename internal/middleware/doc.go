// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

/*
Package middleware provides HTTP middleware shared by the API router.

  - RequestID: assigns or propagates X-Request-ID and puts it in the logging context
  - PrometheusMetrics: records request counts, durations and in-flight requests

Both are plain http.HandlerFunc wrappers; the router adapts them to chi.
Request metrics are labelled with the chi route pattern, not the raw path,
so /charts/{id}.png is one series rather than one per chart.
*/
package middleware
