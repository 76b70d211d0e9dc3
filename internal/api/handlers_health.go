// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package api

import (
	"net/http"
	"os"
	"time"
)

// CacheHealth summarizes the canary cache for the readiness probe.
type CacheHealth struct {
	Entries       int   `json:"entries"`
	Inflight      int   `json:"inflight"`
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	InflightJoins int64 `json:"inflight_joins"`
}

// ReadyStatus is the data of a readiness response.
type ReadyStatus struct {
	MapAssetAvailable bool         `json:"map_asset_available"`
	Backend           string       `json:"backend"`
	CircuitBreaker    string       `json:"circuit_breaker,omitempty"`
	Sessions          int          `json:"sessions"`
	Cache             *CacheHealth `json:"cache,omitempty"`
	ReadyToServe      bool         `json:"ready_to_serve"`
	Uptime            float64      `json:"uptime"`
}

// HealthLive reports that the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, success(r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}))
}

// HealthReady returns 200 only when the map asset is readable. The backend
// is reported but never blocks readiness because sessions fall back to
// synthetic data.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := ReadyStatus{
		MapAssetAvailable: h.mapAssetAvailable(),
		Backend:           h.backendMode(),
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if h.breaker != nil {
		status.CircuitBreaker = h.breaker.StateName()
	}
	if h.hub != nil {
		status.Sessions = h.hub.GetClientCount()
	}
	if h.session.Cache != nil {
		s := h.session.Cache.Stats()
		status.Cache = &CacheHealth{
			Entries:       s.Entries,
			Inflight:      s.Inflight,
			Hits:          s.Hits,
			Misses:        s.Misses,
			InflightJoins: s.InflightJoins,
		}
	}
	status.ReadyToServe = status.MapAssetAvailable

	code := http.StatusOK
	resp := success(r, status)
	if !status.ReadyToServe {
		code = http.StatusServiceUnavailable
		resp.Status = "not_ready"
	} else {
		resp.Status = "ready"
	}
	respondJSON(w, code, resp)
}

func (h *Handler) mapAssetAvailable() bool {
	path := h.assetPath()
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// backendMode is "remote", "mock" or "synthetic".
func (h *Handler) backendMode() string {
	switch {
	case h.config == nil:
		return "synthetic"
	case h.config.Datasource.APIBaseURL != "":
		return "remote"
	case h.config.MockBackend.Enabled:
		return "mock"
	default:
		return "synthetic"
	}
}

func (h *Handler) assetPath() string {
	if h.config == nil {
		return ""
	}
	return h.config.Map.AssetPath
}
