// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

// Package models defines data structures used throughout the Aircensus
// application: access points, client-count readings, upstream wire shapes,
// pipeline summaries, and diagnostic findings.
package models

import "time"

// Operational status values for an access point.
// Upstream reachability strings are folded into these three by the normalizer.
const (
	StatusUp      = "up"
	StatusDown    = "down"
	StatusUnknown = "unknown"
)

// AccessPoint is one wireless access point as stored in the access_points
// table.
//
// The device name is the natural key: re-fetching the same device updates the
// stored row in place, never duplicates it. Building, floor, and room are
// derived from the upstream location string and any of them may be absent
// when the hierarchy does not resolve that deep.
type AccessPoint struct {
	// Name is the globally unique device name (natural key).
	Name string `json:"name"`

	// Status is one of StatusUp, StatusDown, StatusUnknown.
	Status string `json:"status"`

	// ClientCount is the current associated-client count. Never negative.
	ClientCount int `json:"client_count"`

	// MACAddress is the radio MAC as reported upstream, if present.
	MACAddress *string `json:"mac_address,omitempty"`

	// Model is the hardware model string, if present.
	Model *string `json:"model,omitempty"`

	// IPAddress is the management IP, if present.
	IPAddress *string `json:"ip_address,omitempty"`

	// Location hierarchy parsed from the raw location string.
	Building *string `json:"building,omitempty"`
	Floor    *string `json:"floor,omitempty"`
	Room     *string `json:"room,omitempty"`

	// LastUpdated is when the pipeline last wrote this device.
	LastUpdated time.Time `json:"last_updated"`
}

// AccessPointFilter restricts QueryAccessPoints results. All predicates are
// optional and conjunctive; zero values mean "no restriction".
type AccessPointFilter struct {
	Building string
	Floor    string
	Status   string

	// Limit caps the result size (0 = repository default). Negative values
	// are a programming error and rejected by the repository.
	Limit  int
	Offset int
}
