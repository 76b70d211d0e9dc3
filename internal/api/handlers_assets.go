// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ChartImage serves the PNG of a live chart widget. Destroyed widgets are 404.
func (h *Handler) ChartImage(w http.ResponseWriter, r *http.Request) {
	if h.session.Store == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Chart not found", nil)
		return
	}

	png, ok := h.session.Store.Get(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Chart not found", nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	// Widget ids are never reused.
	w.Header().Set("Cache-Control", "private, max-age=3600, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// WorldMap serves the configured GeoJSON asset.
func (h *Handler) WorldMap(w http.ResponseWriter, r *http.Request) {
	if !h.mapAssetAvailable() {
		respondError(w, http.StatusNotFound, "MAP_ASSET_MISSING", "World map data not available", nil)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	http.ServeFile(w, r, h.assetPath())
}
