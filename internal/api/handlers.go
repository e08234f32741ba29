// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/aircensus/internal/config"
	"github.com/tomtom215/aircensus/internal/database"
	"github.com/tomtom215/aircensus/internal/models"
	"github.com/tomtom215/aircensus/internal/scheduler"
)

// PipelineTrigger drives the collection pipeline on demand and reports
// its state. Implemented by scheduler.Scheduler.
type PipelineTrigger interface {
	TriggerCycle(ctx context.Context) (models.PipelineSummary, error)
	TriggerAccessPointPhase(ctx context.Context) (models.PipelineSummary, error)
	TriggerClientCountPhase(ctx context.Context) (models.PipelineSummary, error)
	Status() scheduler.Status
}

// DiagnosticsProvider is the analysis surface behind /api/v1/diagnostics.
// Implemented by diagnostics.Engine.
type DiagnosticsProvider interface {
	ZeroCounts(ctx context.Context) ([]models.ZeroCountAnomaly, error)
	HealthAlerts(ctx context.Context) ([]models.HealthAlert, error)
	Report(ctx context.Context) (*models.DiagnosticReport, error)
	IncompleteDevices() ([]models.IncompleteRecord, error)
	APIHealth() (*models.APIHealthSummary, error)
}

// UpstreamPinger reports reachability of the wireless controller.
// Implemented by telemetry.Client implementations.
type UpstreamPinger interface {
	Ping(ctx context.Context) error
}

// Handler holds HTTP handler dependencies.
type Handler struct {
	db        *database.DB
	pipeline  PipelineTrigger
	diag      DiagnosticsProvider
	upstream  UpstreamPinger
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler. Any dependency may be nil; the
// endpoints that need it respond 503 instead of panicking.
func NewHandler(db *database.DB, pipeline PipelineTrigger, diag DiagnosticsProvider, upstream UpstreamPinger, cfg *config.Config) *Handler {
	return &Handler{
		db:        db,
		pipeline:  pipeline,
		diag:      diag,
		upstream:  upstream,
		config:    cfg,
		startTime: time.Now(),
	}
}

// requireDB writes a 503 response and returns false when the repository
// is not configured.
func (h *Handler) requireDB(rw *ResponseWriter) bool {
	if h.db == nil {
		rw.ServiceUnavailable("Database not available")
		return false
	}
	return true
}

// requirePipeline writes a 503 response and returns false when the
// scheduler is not configured.
func (h *Handler) requirePipeline(rw *ResponseWriter) bool {
	if h.pipeline == nil {
		rw.ServiceUnavailable("Collection pipeline not available")
		return false
	}
	return true
}

// requireDiagnostics writes a 503 response and returns false when the
// diagnostics engine is not configured.
func (h *Handler) requireDiagnostics(rw *ResponseWriter) bool {
	if h.diag == nil {
		rw.ServiceUnavailable("Diagnostics not available")
		return false
	}
	return true
}

// uptime reports how long this handler has been serving.
func (h *Handler) uptime() time.Duration {
	return time.Since(h.startTime)
}

// respond builds a ResponseWriter for the request.
func respond(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return NewResponseWriter(w, r)
}
