// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library in a thread-safe
// singleton with user-friendly error messages, and converts field errors into
// the VALIDATION_ERROR shape the API returns.
//
// # Quick Start
//
//	type ClientCountsRequest struct {
//	    Building string `validate:"omitempty,max=120"`
//	    Start    string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
//	    End      string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
//	    Limit    int    `validate:"min=1,max=1000"`
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    req := ClientCountsRequest{...}
//	    if verr := validation.ValidateStruct(&req); verr != nil {
//	        apiErr := verr.ToAPIError()
//	        // respond 400 with apiErr.Code / apiErr.Message / apiErr.Details
//	        return
//	    }
//	    // proceed with valid request
//	}
//
// # Tags Used by the API
//
//   - required: field must not be empty
//   - min=n / max=n: length bounds for strings, value bounds for numbers
//   - datetime=<layout>: string must parse with the given layout (the API
//     uses the RFC3339 layout for series time bounds)
//   - oneof=up down unknown: the access-point status filter
//
// # API Error Integration
//
// ToAPIError produces errors matching the application format:
//
//	// Single field error
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Status must be one of: up down unknown",
//	    "details": {"field": "Status", "tag": "oneof", "value": "offline"}
//	}
//
//	// Multiple field errors
//	{
//	    "code": "VALIDATION_ERROR",
//	    "message": "Limit: must be at least 1; Offset: must be at least 0",
//	    "details": {
//	        "fields": [
//	            {"field": "Limit", "tag": "min", "message": "..."},
//	            {"field": "Offset", "tag": "min", "message": "..."}
//	        ]
//	    }
//	}
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use.
// It caches struct reflection info, so the first validation of a type pays
// for reflection and the rest are cheap.
//
// # See Also
//
//   - internal/api: request structs validated with this package
//   - github.com/go-playground/validator/v10: underlying library
package validation
