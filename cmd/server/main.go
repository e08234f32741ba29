// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

// Package main is the entry point for the Aircensus server application.
//
// Aircensus is a self-hosted wireless telemetry platform that polls a campus
// network controller for access-point inventory and per-building client
// counts, stores the readings in DuckDB, and serves them through a REST API
// alongside diagnostic analyses (zero-count anomalies, health alerts).
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Database: Initialize DuckDB and the access-point / client-count schema
//  3. Controller Client: Token-authenticated HTTP client with circuit breaker
//  4. Pipeline: Fetch, normalize, and store cycle over both telemetry feeds
//  5. Scheduler: Periodic collection loop with manual trigger support
//  6. Diagnostics: In-memory analyses over stored readings and tracked errors
//  7. HTTP Server: REST API on chi with rate limiting and Prometheus metrics
//  8. Supervisor Tree: Suture v4 supervision of the collector and the server
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (see config.example.yaml)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// Required settings:
//   - CONTROLLER_URL: Base URL of the wireless controller
//   - CONTROLLER_USERNAME / CONTROLLER_PASSWORD: Token exchange credentials
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops the collection loop, waiting for an in-flight cycle to finish
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Closes the database
//
// # Example Usage
//
// Development against a lab controller:
//
//	export CONTROLLER_URL=https://dnac.lab.example.edu
//	export CONTROLLER_USERNAME=observer
//	export CONTROLLER_PASSWORD=observer-password
//	export CONTROLLER_VERIFY_TLS=false
//	./aircensus
//
// Production:
//
//	export CONTROLLER_URL=https://dnac.example.edu
//	export CONTROLLER_USERNAME=svc-aircensus
//	export CONTROLLER_PASSWORD=strong-password
//	export DUCKDB_PATH=/data/aircensus.db
//	./aircensus
//
// Docker:
//
//	docker run -d \
//	  -e CONTROLLER_URL=https://dnac.example.edu \
//	  -e CONTROLLER_USERNAME=svc-aircensus \
//	  -e CONTROLLER_PASSWORD=strong-password \
//	  -v aircensus-data:/data \
//	  -p 2462:2462 \
//	  ghcr.io/tomtom215/aircensus
//
// # Port 2462
//
// The default port 2462 references 2462 MHz, the center frequency of Wi-Fi
// channel 11 - the last non-overlapping channel in the 2.4 GHz band.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/aircensus/internal/api"
	"github.com/tomtom215/aircensus/internal/config"
	"github.com/tomtom215/aircensus/internal/database"
	"github.com/tomtom215/aircensus/internal/diagnostics"
	"github.com/tomtom215/aircensus/internal/errtrack"
	"github.com/tomtom215/aircensus/internal/logging"
	"github.com/tomtom215/aircensus/internal/pipeline"
	"github.com/tomtom215/aircensus/internal/scheduler"
	"github.com/tomtom215/aircensus/internal/supervisor"
	"github.com/tomtom215/aircensus/internal/supervisor/services"
	"github.com/tomtom215/aircensus/internal/telemetry"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Aircensus with supervisor tree")

	logging.Info().
		Str("controller_url", cfg.Controller.URL).
		Str("db_path", cfg.Database.Path).
		Dur("poll_interval", cfg.Poll.Interval).
		Bool("diagnostics", cfg.Diagnostics.Enabled).
		Msg("Configuration loaded")

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Error tracker feeds both the diagnostics API-health view and the
	// failure counts in cycle summaries
	tracker := errtrack.New()

	// Initialize controller client with circuit breaker for fault tolerance.
	// The breaker prevents cascading failures when the controller is
	// unavailable; fetch cycles fail fast instead of piling up timeouts.
	controllerClient := telemetry.NewCircuitBreakerClient(
		telemetry.NewControllerClient(&cfg.Controller, tracker),
		tracker,
	)
	if err := controllerClient.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Failed to connect to controller (will retry)")
	} else {
		logging.Info().Msg("Connected to controller successfully")
	}

	// Fetch-normalize-store pipeline over both telemetry feeds
	pipe := pipeline.New(controllerClient, db, tracker)

	// Scheduler owns the periodic loop; the API triggers share its
	// one-cycle-at-a-time guard
	sched := scheduler.New(pipe, &cfg.Poll)

	// Diagnostics engine computes analyses on demand from stored readings,
	// the pipeline's incomplete records, and the error tracker
	diag := diagnostics.New(db, pipe, tracker, &cfg.Diagnostics)
	if cfg.Diagnostics.Enabled {
		logging.Info().
			Dur("zero_lookback", cfg.Diagnostics.ZeroCountLookback).
			Int("health_window", cfg.Diagnostics.HealthWindow).
			Msg("Diagnostics engine enabled")
	} else {
		logging.Info().Msg("Diagnostics engine disabled (DIAGNOSTICS_ENABLED=false)")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
		logging.Warn().Msg("This should only be used for local development!")
	}

	handler := api.NewHandler(db, sched, diag, controllerClient, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	// Create supervisor tree
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Ingest layer: the periodic collection loop
	tree.AddIngestService(services.NewCollectorService(sched))
	logging.Info().Msg("Telemetry collector added to supervisor tree")

	// API layer: the HTTP server
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
