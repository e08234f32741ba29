// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package models

import "time"

// HealthStatus is the payload of GET /api/v1/health.
//
// Status is "healthy" when storage and the wireless controller are both
// reachable, "degraded" otherwise. A degraded service still serves reads
// from whatever data it has.
type HealthStatus struct {
	Status              string     `json:"status"`
	Version             string     `json:"version"`
	DatabaseConnected   bool       `json:"database_connected"`
	ControllerConnected bool       `json:"controller_connected"`
	LastCycleTime       *time.Time `json:"last_cycle_time,omitempty"`
	Uptime              float64    `json:"uptime"`
}
