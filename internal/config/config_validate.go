// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the loaded configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatasource(); err != nil {
		return err
	}
	if err := c.validateMap(); err != nil {
		return err
	}
	if err := c.validateCharts(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateDatasource() error {
	ds := c.Datasource
	if ds.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	u, err := url.Parse(ds.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("API_BASE_URL must include a host")
	}
	if ds.Timeout <= 0 {
		return fmt.Errorf("DATASOURCE_TIMEOUT must be positive, got %s", ds.Timeout)
	}
	if ds.RequestsPerSecond < 0 {
		return fmt.Errorf("DATASOURCE_RPS must not be negative, got %g", ds.RequestsPerSecond)
	}
	if ds.RequestsPerSecond > 0 && ds.Burst < 1 {
		return fmt.Errorf("DATASOURCE_BURST must be at least 1 when rate limiting, got %d", ds.Burst)
	}
	return c.validateBreaker()
}

func (c *Config) validateBreaker() error {
	b := c.Datasource.Breaker
	if !b.Enabled {
		return nil
	}
	if b.MaxRequests == 0 {
		return fmt.Errorf("CIRCUIT_BREAKER_MAX_REQUESTS must be at least 1")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("CIRCUIT_BREAKER_TIMEOUT must be positive, got %s", b.Timeout)
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("CIRCUIT_BREAKER_FAILURE_RATIO must be in (0, 1], got %g", b.FailureRatio)
	}
	return nil
}

func (c *Config) validateMap() error {
	if strings.TrimSpace(c.Map.AssetPath) == "" {
		return fmt.Errorf("MAP_ASSET_PATH is required")
	}
	return nil
}

func (c *Config) validateCharts() error {
	if c.Charts.Width < 200 || c.Charts.Height < 100 {
		return fmt.Errorf("chart size must be at least 200x100, got %dx%d", c.Charts.Width, c.Charts.Height)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
