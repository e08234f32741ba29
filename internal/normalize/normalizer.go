// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

// Package normalize converts raw controller payloads into the internal
// entity shapes. Raw records arrive loosely typed and frequently
// incomplete; this package is the single boundary where they are
// validated, so nothing unvalidated reaches the database layer.
//
// Each conversion returns either a normalized entity or an
// IncompleteRecord describing the missing field. Incomplete records are
// not errors: the pipeline keeps them for the diagnostics surface
// instead of dropping them or failing the cycle.
package normalize

import (
	"strings"
	"time"

	"github.com/tomtom215/aircensus/internal/models"
)

// Source labels attached to incomplete records so diagnostics can tell
// which fetch phase produced them.
const (
	SourceDevice  = "device"
	SourceReading = "reading"
)

// Device converts a raw device record into an AccessPoint. A record
// missing its name or reachability status, or whose location cannot be
// resolved from any location field or the hostname, comes back as an
// IncompleteRecord instead. Exactly one of the two results is non-nil.
func Device(raw models.RawDevice, now time.Time) (*models.AccessPoint, *models.IncompleteRecord) {
	name := strings.TrimSpace(raw.Name)
	label := name
	if label == "" {
		if label = strings.TrimSpace(raw.MACAddress); label == "" {
			label = "unknown device"
		}
	}

	if name == "" {
		return nil, incomplete(SourceDevice, label, "missing name", now)
	}

	status, ok := deviceStatus(raw.ReachabilityHealth)
	if !ok {
		return nil, incomplete(SourceDevice, label, "missing status", now)
	}

	loc, resolved := deviceLocation(raw)
	if !resolved {
		if building, floor, ok := ParseHostname(name); ok {
			loc = Location{Building: building, Floor: floor}
			resolved = true
		}
	}
	if !resolved {
		return nil, incomplete(SourceDevice, label, "unresolvable location", now)
	}

	count := 0
	if raw.ClientCount != nil && *raw.ClientCount > 0 {
		count = *raw.ClientCount
	}

	ap := &models.AccessPoint{
		Name:        name,
		Status:      status,
		ClientCount: count,
		MACAddress:  optional(raw.MACAddress),
		Model:       optional(raw.Model),
		IPAddress:   optional(raw.IPAddress),
		Building:    &loc.Building,
		Floor:       &loc.Floor,
		LastUpdated: now,
	}
	if loc.Room != "" {
		ap.Room = &loc.Room
	}
	return ap, nil
}

// RelevantSite reports whether a site-health row is building or floor
// scoped. The controller's site-health collection mixes campus and area
// aggregates in with the buildings; an aggregate row repeats the counts
// of the buildings beneath it and is skipped before normalization.
func RelevantSite(raw models.RawSiteCount) bool {
	switch strings.ToLower(strings.TrimSpace(raw.SiteType)) {
	case "building", "floor":
		return true
	case "":
		// Controller versions that omit the type still carry a parseable
		// hierarchy on building and floor rows.
		_, ok := ParseLocation(raw.SiteHierarchy)
		return ok
	default:
		return false
	}
}

// Count converts a raw site count into a ClientCountReading. The
// reading requires a client count and a resolvable building; a zero
// count is valid data (an empty building), only a missing or negative
// count is incomplete. Exactly one of the two results is non-nil.
func Count(raw models.RawSiteCount, observed time.Time) (*models.ClientCountReading, *models.IncompleteRecord) {
	label := strings.TrimSpace(raw.SiteName)
	if label == "" {
		if segments := splitSegments(raw.SiteHierarchy); len(segments) > 0 {
			label = segments[len(segments)-1]
		} else {
			label = "unknown site"
		}
	}

	if raw.NumberOfWirelessClients == nil {
		return nil, incomplete(SourceReading, label, "missing client count", observed)
	}
	if *raw.NumberOfWirelessClients < 0 {
		return nil, incomplete(SourceReading, label, "negative client count", observed)
	}

	loc, ok := siteLocation(raw)
	if !ok {
		return nil, incomplete(SourceReading, label, "missing building", observed)
	}

	reading := &models.ClientCountReading{
		Building:   loc.Building,
		Count:      *raw.NumberOfWirelessClients,
		ObservedAt: observed,
	}
	if loc.Floor != "" {
		reading.Floor = &loc.Floor
	}
	if loc.Room != "" {
		reading.Room = &loc.Room
	}
	return reading, nil
}

// deviceStatus folds the controller's reachability health into the
// internal status enum. An empty value means the field was absent and
// the record is incomplete; unrecognized non-empty values are kept as
// unknown rather than discarded.
func deviceStatus(health string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(health)) {
	case "":
		return "", false
	case "UP":
		return models.StatusUp, true
	case "DOWN":
		return models.StatusDown, true
	default:
		return models.StatusUnknown, true
	}
}

// deviceLocation tries each location field on the device in preference
// order until one parses. The SNMP location's factory default and the
// literal "null" some controllers report are treated as absent.
func deviceLocation(raw models.RawDevice) (Location, bool) {
	candidates := make([]string, 0, 3)
	if raw.Location != "" {
		candidates = append(candidates, raw.Location)
	}
	if snmp := strings.TrimSpace(raw.SNMPLocation); snmp != "" && !strings.EqualFold(snmp, "default location") {
		candidates = append(candidates, snmp)
	}
	if name := strings.TrimSpace(raw.LocationName); name != "" && !strings.EqualFold(name, "null") {
		candidates = append(candidates, name)
	}

	for _, candidate := range candidates {
		if loc, ok := ParseLocation(candidate); ok {
			return loc, true
		}
	}
	return Location{}, false
}

// siteLocation resolves the building (and floor, when the site is a
// floor) for a site count. Building-type sites name the building
// directly; floor sites carry a hierarchy deep enough for positional
// extraction.
func siteLocation(raw models.RawSiteCount) (Location, bool) {
	if loc, ok := ParseLocation(raw.SiteHierarchy); ok && !strings.EqualFold(raw.SiteType, "building") {
		return loc, true
	}
	if name := strings.TrimSpace(raw.SiteName); name != "" {
		return Location{Building: name}, true
	}
	if segments := splitSegments(raw.SiteHierarchy); len(segments) > 0 {
		return Location{Building: segments[len(segments)-1]}, true
	}
	return Location{}, false
}

func incomplete(source, label, reason string, ts time.Time) *models.IncompleteRecord {
	return &models.IncompleteRecord{
		Source:    source,
		Label:     label,
		Reason:    reason,
		Timestamp: ts,
	}
}

// optional trims s and returns nil for empty strings so absent
// upstream fields stay NULL in storage.
func optional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
