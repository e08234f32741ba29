// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/aircensus/internal/logging"
	"github.com/tomtom215/aircensus/internal/models"
	"github.com/tomtom215/aircensus/internal/scheduler"
)

// SyncTrigger handles manual full-cycle trigger requests
//
// @Summary Trigger a full collection cycle
// @Description Runs both pipeline phases (access points, then client counts) immediately and returns the cycle summary. Returns 409 when a cycle is already running.
// @Tags Sync
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=models.PipelineSummary} "Cycle completed"
// @Failure 409 {object} APIResponse "A cycle is already in progress"
// @Router /sync [post]
func (h *Handler) SyncTrigger(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	if !h.requirePipeline(rw) {
		return
	}

	h.runTrigger(rw, r, "full_cycle", h.pipeline.TriggerCycle)
}

// SyncAccessPoints handles device-phase trigger requests
//
// @Summary Trigger the access-point phase only
// @Description Fetches and stores the device inventory without touching client counts. Returns 409 when a cycle is already running.
// @Tags Sync
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=models.PipelineSummary} "Phase completed"
// @Failure 409 {object} APIResponse "A cycle is already in progress"
// @Router /sync/access-points [post]
func (h *Handler) SyncAccessPoints(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	if !h.requirePipeline(rw) {
		return
	}

	h.runTrigger(rw, r, "access_point_phase", h.pipeline.TriggerAccessPointPhase)
}

// SyncClientCounts handles count-phase trigger requests
//
// @Summary Trigger the client-count phase only
// @Description Fetches and appends per-building client counts without refreshing the device inventory. Returns 409 when a cycle is already running.
// @Tags Sync
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=models.PipelineSummary} "Phase completed"
// @Failure 409 {object} APIResponse "A cycle is already in progress"
// @Router /sync/client-counts [post]
func (h *Handler) SyncClientCounts(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	if !h.requirePipeline(rw) {
		return
	}

	h.runTrigger(rw, r, "client_count_phase", h.pipeline.TriggerClientCountPhase)
}

// SyncStatus reports the scheduler state and the last cycle outcome
//
// @Summary Get collection cycle status
// @Description Returns whether a cycle is currently running plus the timestamp and summary of the most recent run.
// @Tags Sync
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=scheduler.Status} "Status retrieved successfully"
// @Router /sync/status [get]
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	if !h.requirePipeline(rw) {
		return
	}

	rw.Success(h.pipeline.Status())
}

// runTrigger is the shared body of the three trigger endpoints. The guard
// against concurrent cycles lives in the scheduler; this maps its verdict
// onto HTTP.
func (h *Handler) runTrigger(rw *ResponseWriter, r *http.Request, phase string, trigger func(context.Context) (models.PipelineSummary, error)) {
	logging.Ctx(r.Context()).Info().
		Str("phase", phase).
		Msg("Manual collection trigger received")

	summary, err := trigger(r.Context())
	if err != nil {
		if errors.Is(err, scheduler.ErrCycleInProgress) {
			rw.Conflict("A collection cycle is already running")
			return
		}
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("phase", phase).
			Msg("Manual collection trigger failed")
		rw.InternalError("Collection trigger failed")
		return
	}

	rw.Success(summary)
}
