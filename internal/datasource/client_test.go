// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package datasource

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/canarymap/internal/config"
	"github.com/tomtom215/canarymap/internal/models"
)

func testConfig(baseURL string) config.DatasourceConfig {
	return config.DatasourceConfig{APIBaseURL: baseURL, Timeout: 2 * time.Second}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode: %v", err)
	}
}

func TestClientCountries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/countries" {
			http.NotFound(w, r)
			return
		}
		writeJSON(t, w, models.CountriesPayload{
			Countries:   []string{"Singapore", "Ireland"},
			Percentages: []float64{70.25, 29.75},
		})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL + "/api/"))
	d, err := client.Countries(context.Background())
	if err != nil {
		t.Fatalf("Countries() error = %v", err)
	}
	if len(d.Countries) != 2 || d.Countries[0].Country != "Singapore" || d.Countries[0].Percent != 70.25 {
		t.Errorf("Countries() = %+v", d)
	}
}

func TestClientCanaryGroupsEscapesCountry(t *testing.T) {
	t.Parallel()

	synth := NewSynthesizer(rand.NewPCG(1, 2))
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		writeJSON(t, w, synth.CanaryGroups("Hong Kong"))
	}))
	defer server.Close()

	groups, err := NewClient(testConfig(server.URL + "/api")).CanaryGroups(context.Background(), "Hong Kong")
	if err != nil {
		t.Fatalf("CanaryGroups() error = %v", err)
	}
	if gotPath != "/api/canary-groups/Hong%20Kong" {
		t.Errorf("request path = %q, want /api/canary-groups/Hong%%20Kong", gotPath)
	}
	if len(groups) != 3 || groups[0].Name != "hk-mobile-app" {
		t.Errorf("unexpected groups: %+v", groups)
	}
}

func TestClientErrors(t *testing.T) {
	t.Parallel()

	shortSeries := []models.CanaryGroup{{Name: "x", APIs: []models.APISeries{{API: "Login", Daily: []float64{99}}}}}

	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantErrText string
		wantInvalid bool
	}{
		{
			name: "non-200 includes body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "backend exploded", http.StatusInternalServerError)
			},
			wantErrText: "status 500: backend exploded",
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			wantErrText: "failed to decode",
		},
		{
			name: "short series rejected",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, shortSeries)
			},
			wantInvalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := NewClient(testConfig(server.URL)).CanaryGroups(context.Background(), "Singapore")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantInvalid && !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("error = %v, want ErrInvalidPayload", err)
			}
			if tt.wantErrText != "" && !strings.Contains(err.Error(), tt.wantErrText) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErrText)
			}
		})
	}
}

func TestClientMisalignedCountries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"countries":   []string{"Singapore", "Ireland"},
			"percentages": []float64{100},
		})
	}))
	defer server.Close()

	_, err := NewClient(testConfig(server.URL)).Countries(context.Background())
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("error = %v, want ErrInvalidPayload", err)
	}
}

func TestClientRateLimitHonoursContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, models.CountriesPayload{Countries: []string{"India"}, Percentages: []float64{100}})
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RequestsPerSecond = 0.001
	cfg.Burst = 1
	client := NewClient(cfg)

	if _, err := client.Countries(context.Background()); err != nil {
		t.Fatalf("first request should use the burst token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.Countries(ctx); err == nil || !strings.Contains(err.Error(), "rate limiter") {
		t.Errorf("second request error = %v, want rate limiter error", err)
	}
}
