// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

// Package config loads Canarymap configuration with Koanf.
//
// Sources are layered in increasing priority: built-in defaults, an optional
// YAML file (CONFIG_PATH or one of DefaultConfigPaths), then environment
// variables. Only environment variables listed in envTransformFunc are read.
package config

import "time"

// Config is the complete server configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Datasource  DatasourceConfig  `koanf:"datasource"`
	Map         MapConfig         `koanf:"map"`
	Charts      ChartsConfig      `koanf:"charts"`
	MockBackend MockBackendConfig `koanf:"mock_backend"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
	Supervisor  SupervisorConfig  `koanf:"supervisor"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging" or "production"
}

// DatasourceConfig describes the canary backend the dashboard reads from.
type DatasourceConfig struct {
	// APIBaseURL is the prefix for /countries and /canary-groups/{country}.
	APIBaseURL string `koanf:"api_base_url"`

	// Timeout bounds each backend request. Failed requests are not retried;
	// the dashboard falls back to synthetic data instead.
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond caps outbound requests across all sessions. 0 disables the limit.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig tunes the backend circuit breaker.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"` // allowed through while half-open
	Interval     time.Duration `koanf:"interval"`     // closed-state count reset period
	Timeout      time.Duration `koanf:"timeout"`      // open duration before probing
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// MapConfig locates the world map geometry.
type MapConfig struct {
	AssetPath string `koanf:"asset_path"`
}

// ChartsConfig sizes rendered chart widgets in pixels.
type ChartsConfig struct {
	Width  int `koanf:"width"`
	Height int `koanf:"height"`
}

// MockBackendConfig enables the built-in development backend.
type MockBackendConfig struct {
	Enabled bool `koanf:"enabled"`
}

// SecurityConfig holds browser-facing HTTP protections.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// SupervisorConfig tunes the suture supervisor tree.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}
