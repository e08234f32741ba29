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

// AccessPoints handles device inventory queries
//
// @Summary List access points
// @Description Returns the stored access-point inventory, optionally filtered by building, floor, and operational status. Results are paginated and ordered by name.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param building query string false "Exact building name filter"
// @Param floor query string false "Exact floor filter"
// @Param status query string false "Operational status filter" Enums(up, down, unknown)
// @Param limit query int false "Rows per page (default 100, max 1000)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} APIResponse{data=[]models.AccessPoint} "Access points retrieved successfully"
// @Failure 400 {object} APIResponse "Invalid query parameters"
// @Router /access-points [get]
func (h *Handler) AccessPoints(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	if !h.requireDB(rw) {
		return
	}

	req := AccessPointsRequest{
		Building: r.URL.Query().Get("building"),
		Floor:    r.URL.Query().Get("floor"),
		Status:   r.URL.Query().Get("status"),
		Limit:    h.pageSize(getIntParam(r, "limit", 0)),
		Offset:   getIntParam(r, "offset", 0),
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	filter := models.AccessPointFilter{
		Building: req.Building,
		Floor:    req.Floor,
		Status:   req.Status,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}

	ctx := r.Context()
	points, err := h.db.QueryAccessPoints(ctx, filter)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Access point query failed")
		rw.DatabaseError(err)
		return
	}

	total, err := h.db.CountAccessPoints(ctx, filter)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Access point count failed")
		rw.DatabaseError(err)
		return
	}

	rw.SuccessWithPagination(points, &PaginationMeta{
		Total:   int64(total),
		Count:   len(points),
		Offset:  req.Offset,
		Limit:   req.Limit,
		HasMore: req.Offset+len(points) < total,
	})
}

// Buildings handles building catalog requests
//
// @Summary List known buildings
// @Description Returns the distinct building names present in the client-count series, sorted alphabetically.
// @Tags Inventory
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=[]string} "Buildings retrieved successfully"
// @Router /buildings [get]
func (h *Handler) Buildings(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	if !h.requireDB(rw) {
		return
	}

	buildings, err := h.db.ListBuildings(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Building list query failed")
		rw.DatabaseError(err)
		return
	}

	if buildings == nil {
		buildings = []string{}
	}
	rw.Success(buildings)
}
