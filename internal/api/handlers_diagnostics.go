// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/aircensus/internal/diagnostics"
	"github.com/tomtom215/aircensus/internal/logging"
)

// DiagnosticsZeroCounts handles zero-count anomaly requests
//
// @Summary List zero-count anomalies
// @Description Returns buildings whose latest reading is zero after a non-zero prior reading, sorted by building. Requires diagnostics to be enabled.
// @Tags Diagnostics
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.ZeroCountAnomaly} "Anomalies retrieved successfully"
// @Failure 403 {object} APIResponse "Diagnostics are not enabled"
// @Router /diagnostics/zero-counts [get]
func (h *Handler) DiagnosticsZeroCounts(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	if !h.requireDiagnostics(rw) {
		return
	}

	findings, err := h.diag.ZeroCounts(r.Context())
	if err != nil {
		h.diagnosticsError(rw, r, err)
		return
	}
	rw.Success(findings)
}

// DiagnosticsHealthAlerts handles health alert requests
//
// @Summary List device health alerts
// @Description Returns buildings whose latest reading dropped sharply below their rolling average, sorted by building. Requires diagnostics to be enabled.
// @Tags Diagnostics
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.HealthAlert} "Alerts retrieved successfully"
// @Failure 403 {object} APIResponse "Diagnostics are not enabled"
// @Router /diagnostics/health-alerts [get]
func (h *Handler) DiagnosticsHealthAlerts(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	if !h.requireDiagnostics(rw) {
		return
	}

	alerts, err := h.diag.HealthAlerts(r.Context())
	if err != nil {
		h.diagnosticsError(rw, r, err)
		return
	}
	rw.Success(alerts)
}

// DiagnosticsReport handles combined report requests
//
// @Summary Get the combined diagnostic report
// @Description Returns zero-count anomalies and health alerts computed from a single pass over the recent series, with summary totals. Requires diagnostics to be enabled.
// @Tags Diagnostics
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=models.DiagnosticReport} "Report generated successfully"
// @Failure 403 {object} APIResponse "Diagnostics are not enabled"
// @Router /diagnostics/report [get]
func (h *Handler) DiagnosticsReport(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	if !h.requireDiagnostics(rw) {
		return
	}

	report, err := h.diag.Report(r.Context())
	if err != nil {
		h.diagnosticsError(rw, r, err)
		return
	}
	rw.Success(report)
}

// DiagnosticsIncompleteDevices handles incomplete-record requests
//
// @Summary List records skipped as incomplete
// @Description Returns the upstream records the most recent cycle skipped because required fields were missing. Requires diagnostics to be enabled.
// @Tags Diagnostics
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.IncompleteRecord} "Records retrieved successfully"
// @Failure 403 {object} APIResponse "Diagnostics are not enabled"
// @Router /diagnostics/incomplete-devices [get]
func (h *Handler) DiagnosticsIncompleteDevices(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	if !h.requireDiagnostics(rw) {
		return
	}

	records, err := h.diag.IncompleteDevices()
	if err != nil {
		h.diagnosticsError(rw, r, err)
		return
	}
	rw.Success(records)
}

// DiagnosticsAPIHealth handles upstream error summary requests
//
// @Summary Summarize upstream fetch errors
// @Description Returns totals and the most recent fetch errors recorded against the wireless controller. Requires diagnostics to be enabled.
// @Tags Diagnostics
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=models.APIHealthSummary} "Summary retrieved successfully"
// @Failure 403 {object} APIResponse "Diagnostics are not enabled"
// @Router /diagnostics/api-health [get]
func (h *Handler) DiagnosticsAPIHealth(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	if !h.requireDiagnostics(rw) {
		return
	}

	summary, err := h.diag.APIHealth()
	if err != nil {
		h.diagnosticsError(rw, r, err)
		return
	}
	rw.Success(summary)
}

// diagnosticsError maps engine errors onto HTTP. A disabled engine is a
// policy refusal (403), not a server fault.
func (h *Handler) diagnosticsError(rw *ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, diagnostics.ErrDiagnosticsDisabled) {
		rw.Forbidden("Diagnostics are not enabled")
		return
	}

	logging.Ctx(r.Context()).Error().Err(err).Msg("Diagnostics request failed")
	rw.DatabaseError(err)
}
