// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateController(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validatePoll(); err != nil {
		return err
	}

	if err := c.validateDiagnostics(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// Controller limit constants
const (
	controllerMinTimeout  = 5 * time.Second
	controllerMaxTimeout  = 10 * time.Minute
	controllerMaxPageSize = 500
	controllerMaxRetries  = 10
)

// validateController validates upstream controller configuration
func (c *Config) validateController() error {
	if err := c.validateControllerURLs(); err != nil {
		return err
	}
	if err := c.validateControllerCredentials(); err != nil {
		return err
	}
	return c.validateControllerLimits()
}

// validateControllerURLs validates the primary and fallback controller URLs
func (c *Config) validateControllerURLs() error {
	if c.Controller.URL == "" {
		return fmt.Errorf("CONTROLLER_URL is required")
	}
	if err := validateHTTPURL(c.Controller.URL, "CONTROLLER_URL"); err != nil {
		return fmt.Errorf("CONTROLLER_URL is invalid: %w", err)
	}
	if c.Controller.FallbackURL != "" {
		if err := validateHTTPURL(c.Controller.FallbackURL, "CONTROLLER_FALLBACK_URL"); err != nil {
			return fmt.Errorf("CONTROLLER_FALLBACK_URL is invalid: %w", err)
		}
	}
	return nil
}

// validateControllerCredentials validates the token-exchange credentials
func (c *Config) validateControllerCredentials() error {
	if c.Controller.Username == "" {
		return fmt.Errorf("CONTROLLER_USERNAME is required")
	}
	if c.Controller.Password == "" {
		return fmt.Errorf("CONTROLLER_PASSWORD is required")
	}
	return nil
}

// validateControllerLimits validates timeout, pagination and retry bounds
func (c *Config) validateControllerLimits() error {
	if c.Controller.Timeout < controllerMinTimeout || c.Controller.Timeout > controllerMaxTimeout {
		return fmt.Errorf("CONTROLLER_TIMEOUT must be between %v and %v", controllerMinTimeout, controllerMaxTimeout)
	}
	if c.Controller.PageSize < 1 || c.Controller.PageSize > controllerMaxPageSize {
		return fmt.Errorf("CONTROLLER_PAGE_SIZE must be between 1 and %d", controllerMaxPageSize)
	}
	if c.Controller.MaxRetries < 0 || c.Controller.MaxRetries > controllerMaxRetries {
		return fmt.Errorf("CONTROLLER_MAX_RETRIES must be between 0 and %d", controllerMaxRetries)
	}
	if c.Controller.RateLimit <= 0 {
		return fmt.Errorf("CONTROLLER_RATE_LIMIT must be positive")
	}
	return nil
}

// validateDatabase validates database configuration
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative (0 = all cores)")
	}
	return nil
}

// Poll limit constants
const (
	pollMinInterval     = time.Minute
	pollMaxInterval     = 24 * time.Hour
	pollMinPhaseTimeout = 5 * time.Second
	pollMaxPhaseTimeout = 30 * time.Minute
)

// validatePoll validates fetch-cycle scheduling configuration
func (c *Config) validatePoll() error {
	if c.Poll.Interval < pollMinInterval || c.Poll.Interval > pollMaxInterval {
		return fmt.Errorf("POLL_INTERVAL must be between %v and %v", pollMinInterval, pollMaxInterval)
	}
	if c.Poll.PhaseTimeout < pollMinPhaseTimeout || c.Poll.PhaseTimeout > pollMaxPhaseTimeout {
		return fmt.Errorf("POLL_PHASE_TIMEOUT must be between %v and %v", pollMinPhaseTimeout, pollMaxPhaseTimeout)
	}
	return nil
}

// Diagnostics limit constants
const (
	diagMinLookback     = time.Minute
	diagMaxLookback     = 7 * 24 * time.Hour
	diagMinHealthWindow = 2
	diagMaxHealthWindow = 100
)

// validateDiagnostics validates diagnostics configuration (only if enabled)
func (c *Config) validateDiagnostics() error {
	if !c.Diagnostics.Enabled {
		return nil
	}

	if c.Diagnostics.ZeroCountLookback < diagMinLookback || c.Diagnostics.ZeroCountLookback > diagMaxLookback {
		return fmt.Errorf("DIAGNOSTICS_ZERO_LOOKBACK must be between %v and %v", diagMinLookback, diagMaxLookback)
	}
	if c.Diagnostics.HealthWindow < diagMinHealthWindow || c.Diagnostics.HealthWindow > diagMaxHealthWindow {
		return fmt.Errorf("DIAGNOSTICS_HEALTH_WINDOW must be between %d and %d", diagMinHealthWindow, diagMaxHealthWindow)
	}
	if c.Diagnostics.HealthThreshold <= 0 || c.Diagnostics.HealthThreshold >= 1 {
		return fmt.Errorf("DIAGNOSTICS_HEALTH_THRESHOLD must be between 0 and 1 exclusive")
	}
	if c.Diagnostics.MinBaseline < 0 {
		return fmt.Errorf("DIAGNOSTICS_MIN_BASELINE must be non-negative")
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateSecurity validates rate limiting and pagination bounds
func (c *Config) validateSecurity() error {
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validatePageSizes()
}

// validateRateLimits validates rate limiting configuration bounds.
// Ensures rate limit values are within sensible ranges to prevent
// misconfiguration that could lead to DoS or ineffective protection.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validatePageSizes validates API pagination bounds
func (c *Config) validatePageSizes() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be at least API_DEFAULT_PAGE_SIZE")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
// Production mode is determined by the ENVIRONMENT environment variable.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
