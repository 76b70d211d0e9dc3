// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// MockBackendPrefix is where the mock backend is mounted. Setting
// datasource.api_base_url to http://<host>:<port>/mock/api points the
// dashboard at it.
const MockBackendPrefix = "/mock/api"

// MockCountries answers like GET /countries on the real backend.
func (h *Handler) MockCountries(w http.ResponseWriter, r *http.Request) {
	respondRaw(w, http.StatusOK, h.synth.Distribution().Payload())
}

// MockCanaryGroups answers like GET /canary-groups/{country} on the real backend.
func (h *Handler) MockCanaryGroups(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	if unescaped, err := url.PathUnescape(country); err == nil {
		country = unescaped
	}
	if country == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "country is required", nil)
		return
	}
	respondRaw(w, http.StatusOK, h.synth.CanaryGroups(country))
}
