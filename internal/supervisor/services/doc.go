// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

/*
Package services provides suture.Service wrappers for Aircensus components.

This package adapts existing application components to the suture v4 supervision
model, translating various lifecycle patterns (Start/Stop, ListenAndServe)
into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation (Start/Stop to Serve pattern)
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

Telemetry Collector (CollectorService):
  - Wraps scheduler.Scheduler with Start/Stop lifecycle
  - Coordinates the periodic controller fetch loop
  - Waits for an in-flight cycle to complete on shutdown

# Usage Example

Creating and registering services:

	import (
	    "net/http"
	    "time"

	    "github.com/tomtom215/aircensus/internal/supervisor"
	    "github.com/tomtom215/aircensus/internal/supervisor/services"
	)

	func setupSupervisor(server *http.Server, sched *scheduler.Scheduler) {
	    tree, _ := supervisor.NewSupervisorTree(logger, config)

	    // HTTP server with 10s shutdown timeout
	    httpSvc := services.NewHTTPServerService(server, 10*time.Second)
	    tree.AddAPIService(httpSvc)

	    // Collector loop
	    collectorSvc := services.NewCollectorService(sched)
	    tree.AddIngestService(collectorSvc)
	}

# Error Handling

Services distinguish between expected and unexpected termination:

  - Context canceled: return ctx.Err(), supervisor stops the service
  - Component failure: return the error, supervisor restarts with backoff
  - http.ErrServerClosed: treated as expected during graceful shutdown

# Testing

Each wrapper has a corresponding _test.go file with mock implementations
of the wrapped interface. The mocks use atomic counters so tests can
assert start/stop behavior without data races.
*/
package services
