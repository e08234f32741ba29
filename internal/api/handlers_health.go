// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/aircensus/internal/logging"
	"github.com/tomtom215/aircensus/internal/models"
)

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns health status including database connectivity, wireless controller connectivity, last collection cycle, and uptime
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)

	// nil means not connected
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil
	controllerConnected := h.upstream != nil && h.upstream.Ping(r.Context()) == nil

	status := "healthy"
	if !dbConnected || !controllerConnected {
		status = "degraded"
	}

	var lastCycle *time.Time
	if h.pipeline != nil {
		lastCycle = h.pipeline.Status().LastRun
	}

	rw.Success(models.HealthStatus{
		Status:              status,
		Version:             "1.0.0",
		DatabaseConnected:   dbConnected,
		ControllerConnected: controllerConnected,
		LastCycleTime:       lastCycle,
		Uptime:              h.uptime().Seconds(),
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies. Used for Kubernetes liveness probes.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)

	rw.Success(map[string]interface{}{
		"alive":  true,
		"uptime": h.uptime().Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only when the service can actually serve: storage must be
// reachable. Controller reachability is reported but does not gate
// readiness, since reads work from stored data while the upstream is down.
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK when the database is reachable, 503 otherwise. Controller connectivity is informational.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse "Service is ready"
// @Failure 503 {object} APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)

	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil
	controllerConnected := h.upstream != nil && h.upstream.Ping(r.Context()) == nil
	ready := dbConnected

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	rw.writeJSON(statusCode, APIResponse{
		Success: ready,
		Data: map[string]interface{}{
			"database_connected":   dbConnected,
			"controller_connected": controllerConnected,
			"ready_to_serve":       ready,
			"uptime":               h.uptime().Seconds(),
		},
		Meta: &APIMeta{
			RequestID: logging.RequestIDFromContext(r.Context()),
			Timestamp: time.Now().UTC(),
		},
	})
}
