// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

/*
Package main is the entry point for the Aircensus server application.

Aircensus polls a campus wireless controller (Cisco Catalyst Center / DNA
Center style API) for access-point inventory and per-building client counts,
persists the readings in DuckDB, and serves them through a versioned REST
API with diagnostic analyses.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	RootSupervisor ("aircensus")
	├── IngestSupervisor ("ingest-layer")
	│   └── Telemetry Collector (periodic controller fetch loop)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router with middleware stack)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB with the access-point and client-count schema
 4. Controller client: token auth, retry/backoff, circuit breaker
 5. Pipeline: fetch-normalize-store cycle over both telemetry feeds
 6. Scheduler: periodic loop plus manual trigger support
 7. Diagnostics: on-demand analyses of stored readings
 8. Supervisor tree: Suture v4 process supervision
 9. HTTP server: chi router with rate limiting and Prometheus metrics

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=2462               # HTTP server port (Wi-Fi channel 11 reference)
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Controller (required)
	CONTROLLER_URL=https://dnac.example.edu
	CONTROLLER_USERNAME=svc-aircensus
	CONTROLLER_PASSWORD=<password>
	CONTROLLER_FALLBACK_URL=     # Optional alternate controller
	CONTROLLER_VERIFY_TLS=true

	# Collection
	POLL_INTERVAL=5m             # Cycle cadence
	POLL_ALIGN=false             # Align cycles to wall-clock :X1/:X6 minutes

	# Storage
	DUCKDB_PATH=./data/aircensus.db

	# Diagnostics
	DIAGNOSTICS_ENABLED=true

See config.example.yaml for the complete configuration reference.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops the collection loop, waiting for an in-flight cycle
 2. Stops accepting new HTTP connections
 3. Waits for in-flight requests (10s timeout)
 4. Closes the database
 5. Reports any services that failed to stop

# Usage Examples

Development against a lab controller:

	export CONTROLLER_URL=https://dnac.lab.example.edu
	export CONTROLLER_USERNAME=observer CONTROLLER_PASSWORD=xxx
	export CONTROLLER_VERIFY_TLS=false
	go run ./cmd/server

Production:

	export CONTROLLER_URL=https://dnac.example.edu
	export CONTROLLER_USERNAME=svc-aircensus CONTROLLER_PASSWORD=xxx
	export DUCKDB_PATH=/data/aircensus.db
	./aircensus

# API Surface

The API is served under /api/v1 and organized into categories:

  - Health: liveness, readiness, and aggregate dependency status
  - Sync: manual collection triggers and scheduler status
  - Telemetry: access-point inventory, client-count series, buildings
  - Diagnostics: zero-count anomalies, health alerts, combined report
  - Metrics: Prometheus exposition at /metrics

# See Also

  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
  - internal/pipeline: Fetch-normalize-store cycle
  - internal/diagnostics: Anomaly analyses
*/
package main
