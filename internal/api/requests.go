// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/aircensus/internal/validation"
)

// AccessPointsRequest carries the validated query parameters for
// GET /api/v1/access-points.
//
// Fields:
//   - Building: exact building name filter
//   - Floor: exact floor filter
//   - Status: operational status filter (up, down, unknown)
//   - Limit: rows per page (1-1000, default from config)
//   - Offset: rows to skip
type AccessPointsRequest struct {
	Building string `validate:"omitempty,max=120"`
	Floor    string `validate:"omitempty,max=120"`
	Status   string `validate:"omitempty,oneof=up down unknown"`
	Limit    int    `validate:"min=1,max=1000"`
	Offset   int    `validate:"min=0,max=1000000"`
}

// ClientCountsRequest carries the validated query parameters for
// GET /api/v1/client-counts.
//
// Fields:
//   - Building: exact building name filter
//   - Floor: exact floor filter
//   - Start: inclusive lower bound on observed_at (RFC3339)
//   - End: exclusive upper bound on observed_at (RFC3339)
//   - Limit: rows returned, newest first (1-1000, default from config)
type ClientCountsRequest struct {
	Building string `validate:"omitempty,max=120"`
	Floor    string `validate:"omitempty,max=120"`
	Start    string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	End      string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Limit    int    `validate:"min=1,max=1000"`
}

// validateRequest validates a request struct with go-playground/validator.
// Returns nil when validation passes.
func validateRequest(v interface{}) *APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// parseTimeParam parses an already-validated RFC3339 query parameter.
// Returns nil for the empty string.
func parseTimeParam(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}

// pageSize resolves the requested limit against the configured default and
// ceiling. Zero or negative requests fall back to the default; oversized
// requests are clamped rather than rejected.
func (h *Handler) pageSize(requested int) int {
	defaultSize, maxSize := 100, 1000
	if h.config != nil {
		if h.config.API.DefaultPageSize > 0 {
			defaultSize = h.config.API.DefaultPageSize
		}
		if h.config.API.MaxPageSize > 0 {
			maxSize = h.config.API.MaxPageSize
		}
	}

	if requested <= 0 {
		return defaultSize
	}
	if requested > maxSize {
		return maxSize
	}
	return requested
}
