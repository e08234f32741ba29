// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package services

import (
	"context"
	"fmt"
)

// CollectorLoop interface matches the scheduler's lifecycle methods.
//
// This interface abstracts the collector's Start/Stop pattern, allowing
// the CollectorService wrapper to adapt it to suture's Serve pattern
// without modifying the scheduler code.
//
// Satisfied by *scheduler.Scheduler:
//   - Start(ctx context.Context) error
//   - Stop() error
type CollectorLoop interface {
	Start(ctx context.Context) error
	Stop() error
}

// CollectorService wraps the telemetry collector loop as a supervised service.
//
// It adapts the Start/Stop lifecycle pattern to suture's Serve pattern:
//  1. Calls Start(ctx) to begin the periodic fetch loop
//  2. Waits for context cancellation
//  3. Calls Stop() for graceful shutdown
//
// The scheduler handles its own goroutine internally via WaitGroup,
// so this wrapper simply orchestrates the lifecycle transitions.
type CollectorService struct {
	loop CollectorLoop
	name string
}

// NewCollectorService creates a new collector service wrapper.
//
// Example usage:
//
//	sched := scheduler.New(pipe, &cfg.Poll)
//	svc := services.NewCollectorService(sched)
//	tree.AddIngestService(svc)
func NewCollectorService(loop CollectorLoop) *CollectorService {
	return &CollectorService{
		loop: loop,
		name: "telemetry-collector",
	}
}

// Serve implements suture.Service.
//
// This method:
//  1. Starts the collector (which spawns its loop goroutine)
//  2. Blocks until the context is canceled
//  3. Stops the collector (which waits for an in-flight cycle to finish)
//
// If Start() fails, the error is returned immediately, causing suture to
// restart the service according to its backoff policy.
func (s *CollectorService) Serve(ctx context.Context) error {
	// Start the loop - this spawns the ticker goroutine but returns immediately
	if err := s.loop.Start(ctx); err != nil {
		return fmt.Errorf("collector start failed: %w", err)
	}

	// Wait for shutdown signal
	<-ctx.Done()

	// Stop the loop - this blocks until the in-flight cycle completes
	if err := s.loop.Stop(); err != nil {
		return fmt.Errorf("collector stop failed: %w", err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *CollectorService) String() string {
	return s.name
}
