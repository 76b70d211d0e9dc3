// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

/*
Package datasource reads country distribution and canary group data from the
canary backend.

Layers, innermost first:
  - Client: plain HTTP + JSON against {API_BASE}, returns every failure as an error
  - CircuitBreakerClient: sony/gobreaker wrapper that fails fast while the backend is down
  - FallbackSource: never fails; logs the error and serves Synthesizer data instead

Dashboard sessions depend only on the Source interface, so a backend outage
degrades the dashboard to synthetic data rather than an error screen.
*/
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/canarymap/internal/config"
	"github.com/tomtom215/canarymap/internal/metrics"
	"github.com/tomtom215/canarymap/internal/models"
	"github.com/tomtom215/canarymap/internal/validation"
)

// Endpoint labels used in logs and metrics.
const (
	EndpointCountries    = "countries"
	EndpointCanaryGroups = "canary_groups"
)

// ErrInvalidPayload wraps backend responses that decode but violate the data model.
var ErrInvalidPayload = errors.New("invalid backend payload")

// maxErrorBodySize limits how much of a failed response body is kept for diagnostics.
const maxErrorBodySize = 64 * 1024

func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// Fetcher is the error-returning view of the backend.
type Fetcher interface {
	Countries(ctx context.Context) (models.CountryDistribution, error)
	CanaryGroups(ctx context.Context, country string) ([]models.CanaryGroup, error)
}

// Client talks to the canary backend over HTTP.
//
// Thread Safety: safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a backend client. A positive RequestsPerSecond enables a
// token-bucket limit shared by every caller of this client.
func NewClient(cfg config.DatasourceConfig) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	return c
}

// Countries fetches GET {base}/countries.
func (c *Client) Countries(ctx context.Context) (models.CountryDistribution, error) {
	var payload models.CountriesPayload
	if err := c.getJSON(ctx, EndpointCountries, "/countries", &payload); err != nil {
		return models.CountryDistribution{}, err
	}
	if verr := validation.ValidateStruct(&payload); verr != nil {
		return models.CountryDistribution{}, fmt.Errorf("%w: countries: %v", ErrInvalidPayload, verr)
	}
	return payload.Distribution(), nil
}

// CanaryGroups fetches GET {base}/canary-groups/{country}. The country is path-escaped.
func (c *Client) CanaryGroups(ctx context.Context, country string) ([]models.CanaryGroup, error) {
	var groups []models.CanaryGroup
	if err := c.getJSON(ctx, EndpointCanaryGroups, "/canary-groups/"+url.PathEscape(country), &groups); err != nil {
		return nil, err
	}
	for i := range groups {
		if verr := validation.ValidateStruct(&groups[i]); verr != nil {
			return nil, fmt.Errorf("%w: canary group %d for %s: %v", ErrInvalidPayload, i, country, verr)
		}
	}
	return groups, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, v interface{}) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDatasourceFetch(endpoint, time.Since(start), err) }()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
