// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

/*
Package models defines the data structures shared across Canarymap.

Key Components:

  - CountryDistribution: share of total API calls per country, shown on the world map
  - CanaryGroup: a named service grouping with per-API daily success rates
  - APISeries: exactly SeriesDays daily success-rate percentages for one API
  - CountriesPayload: wire shape of the backend countries endpoint

The validate tags on these types are enforced by internal/validation when
payloads arrive from the backend. Values that pass validation are treated as
immutable for the rest of the process: cache entries hand out the same slices
to every dashboard session.
*/
package models
