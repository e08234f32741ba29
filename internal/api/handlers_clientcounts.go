// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package api

import (
	"net/http"

	"github.com/tomtom215/aircensus/internal/logging"
	"github.com/tomtom215/aircensus/internal/models"
)

// ClientCounts handles client-count series queries
//
// @Summary Query client-count readings
// @Description Returns stored client-count readings, newest first, optionally filtered by building, floor, and observation time range. Time bounds are RFC3339; start is inclusive, end exclusive.
// @Tags Series
// @Accept json
// @Produce json
// @Param building query string false "Exact building name filter"
// @Param floor query string false "Exact floor filter"
// @Param start query string false "Inclusive lower bound on observed_at (RFC3339)"
// @Param end query string false "Exclusive upper bound on observed_at (RFC3339)"
// @Param limit query int false "Rows returned (default 100, max 1000)"
// @Success 200 {object} APIResponse{data=[]models.ClientCountReading} "Readings retrieved successfully"
// @Failure 400 {object} APIResponse "Invalid query parameters"
// @Router /client-counts [get]
func (h *Handler) ClientCounts(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	if !h.requireDB(rw) {
		return
	}

	req := ClientCountsRequest{
		Building: r.URL.Query().Get("building"),
		Floor:    r.URL.Query().Get("floor"),
		Start:    r.URL.Query().Get("start"),
		End:      r.URL.Query().Get("end"),
		Limit:    h.pageSize(getIntParam(r, "limit", 0)),
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	filter := models.ClientCountFilter{
		Building: req.Building,
		Floor:    req.Floor,
		Start:    parseTimeParam(req.Start),
		End:      parseTimeParam(req.End),
		Limit:    req.Limit,
	}

	ctx := r.Context()
	readings, err := h.db.QueryClientCounts(ctx, filter)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Client count query failed")
		rw.DatabaseError(err)
		return
	}

	total, err := h.db.CountClientCounts(ctx, filter)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Client count total failed")
		rw.DatabaseError(err)
		return
	}

	rw.SuccessWithPagination(readings, &PaginationMeta{
		Total:   int64(total),
		Count:   len(readings),
		Limit:   req.Limit,
		HasMore: len(readings) < total,
	})
}
