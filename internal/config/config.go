// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package config

import "time"

// Config holds all application configuration loaded from environment variables
// and config files. Provides centralized configuration management for the
// controller client, database, polling, diagnostics, server, API, security,
// and logging components.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting
//
// Example - Load configuration from environment:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Controller.URL, cfg.Database.Path, etc. are now populated
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from
// multiple goroutines.
type Config struct {
	Controller  ControllerConfig  `koanf:"controller"`
	Database    DatabaseConfig    `koanf:"database"`
	Poll        PollConfig        `koanf:"poll"`
	Diagnostics DiagnosticsConfig `koanf:"diagnostics"`
	Server      ServerConfig      `koanf:"server"`
	API         APIConfig         `koanf:"api"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ControllerConfig holds connection settings for the upstream network
// controller (Cisco Catalyst Center / DNA Center style API).
//
// Environment Variables:
//   - CONTROLLER_URL: Base URL of the controller (required)
//   - CONTROLLER_FALLBACK_URL: Alternate base URL tried when the primary fails
//   - CONTROLLER_USERNAME: Basic-auth username for the token exchange (required)
//   - CONTROLLER_PASSWORD: Basic-auth password for the token exchange (required)
//   - CONTROLLER_SITE_ID: Site scope for device and site-health queries
//   - CONTROLLER_VERIFY_TLS: Verify the controller's TLS certificate (default: true)
//   - CONTROLLER_TIMEOUT: Per-request timeout (default: 60s)
//   - CONTROLLER_PAGE_SIZE: Records requested per page (default: 100)
//   - CONTROLLER_MAX_RETRIES: Retries per request on rate limiting (default: 3)
//   - CONTROLLER_RATE_LIMIT: Outbound requests per second (default: 10)
//
// Campus controllers commonly run self-signed certificates; VerifyTLS exists
// for those deployments and should stay true anywhere else.
type ControllerConfig struct {
	URL         string        `koanf:"url"`          // Controller base URL (https://dnac.example.edu)
	FallbackURL string        `koanf:"fallback_url"` // Optional alternate controller
	Username    string        `koanf:"username"`
	Password    string        `koanf:"password"`
	SiteID      string        `koanf:"site_id"`     // Scope queries to one site hierarchy
	VerifyTLS   bool          `koanf:"verify_tls"`  // Certificate verification toggle
	Timeout     time.Duration `koanf:"timeout"`     // Per-request timeout
	PageSize    int           `koanf:"page_size"`   // Pagination window for device queries
	MaxRetries  int           `koanf:"max_retries"` // Retries on 429 responses
	RateLimit   float64       `koanf:"rate_limit"`  // Requests per second to the controller
}

// DatabaseConfig holds DuckDB settings.
//
// Environment Variables:
//   - DUCKDB_PATH: Database file path (default: /data/aircensus.duckdb)
//   - DUCKDB_MAX_MEMORY: Memory limit for DuckDB (default: 2GB)
//   - DUCKDB_THREADS: Worker threads, 0 = runtime.NumCPU() (default: 0)
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// PollConfig holds fetch-cycle scheduling settings.
//
// Environment Variables:
//   - POLL_INTERVAL: Time between fetch cycles (default: 5m)
//   - POLL_ALIGN: Align cycles to wall-clock minutes ending in 1 or 6,
//     matching the controller's own aggregation boundary (default: false)
//   - POLL_PHASE_TIMEOUT: Budget for each pipeline phase; a full cycle is
//     bounded by twice this value (default: 2m)
type PollConfig struct {
	Interval     time.Duration `koanf:"interval"`
	Align        bool          `koanf:"align"`
	PhaseTimeout time.Duration `koanf:"phase_timeout"`
}

// DiagnosticsConfig holds settings for the read-only diagnostics surface.
//
// Environment Variables:
//   - DIAGNOSTICS_ENABLED: Expose diagnostic analyses (default: true)
//   - DIAGNOSTICS_ZERO_LOOKBACK: Window of readings examined for zero-count
//     transitions (default: 24h)
//   - DIAGNOSTICS_HEALTH_WINDOW: Number of prior readings in the rolling
//     average (default: 12, one hour of 5-minute cycles)
//   - DIAGNOSTICS_HEALTH_THRESHOLD: Fraction of the rolling average below
//     which the latest reading raises an alert (default: 0.5)
//   - DIAGNOSTICS_MIN_BASELINE: Rolling average below this is too quiet to
//     alert on (default: 10)
type DiagnosticsConfig struct {
	Enabled           bool          `koanf:"enabled"`
	ZeroCountLookback time.Duration `koanf:"zero_count_lookback"`
	HealthWindow      int           `koanf:"health_window"`
	HealthThreshold   float64       `koanf:"health_threshold"`
	MinBaseline       int           `koanf:"min_baseline"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT: Listen port (default: 2462)
//   - HTTP_HOST: Listen address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
//   - ENVIRONMENT: development or production (default: development)
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds pagination and response limits for the REST surface.
//
// Environment Variables:
//   - API_DEFAULT_PAGE_SIZE: Rows returned when no limit is given (default: 100)
//   - API_MAX_PAGE_SIZE: Upper bound on requested limits (default: 1000)
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds rate limiting and CORS settings.
//
// Environment Variables:
//   - RATE_LIMIT_REQUESTS: Requests per window per client IP (default: 100)
//   - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
//   - DISABLE_RATE_LIMIT: Turn off rate limiting entirely (default: false)
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: Include caller file:line in log entries (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from environment variables and an optional config
// file. Configuration is loaded in the following order (later sources override
// earlier ones):
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH)
//  3. Environment variables
func Load() (*Config, error) {
	return LoadWithKoanf()
}
