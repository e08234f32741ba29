// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package normalize

import "strings"

// Location is a building/floor/room triple extracted from a raw
// hierarchy string. Room is optional and empty when absent.
type Location struct {
	Building string
	Floor    string
	Room     string
}

// ParseLocation extracts building, floor and optional room from a
// slash-delimited hierarchy string as reported by the controller.
//
// Observed formats, all of which must resolve:
//
//	Global/Keele Campus/BuildingA/Floor 1
//	Global/Keele Campus/BuildingG/Floor 1/Room 101
//	Keele/Stong/2nd Floor/Room 204
//	BuildingJ/Floor 2
//
// Segments are trimmed and empty segments dropped, so stray leading or
// trailing slashes do not change the result. A leading "Global" segment
// is organizational noise and is discarded before positional
// extraction. After that, three or more segments mean the first names
// the campus, so the building is the second; exactly two mean the
// string starts at the building. Anything shorter does not resolve.
func ParseLocation(raw string) (Location, bool) {
	segments := splitSegments(raw)
	if len(segments) > 0 && strings.EqualFold(segments[0], "Global") {
		segments = segments[1:]
	}

	switch {
	case len(segments) >= 3:
		loc := Location{Building: segments[1], Floor: segments[2]}
		if len(segments) > 3 {
			loc.Room = segments[3]
		}
		return loc, true
	case len(segments) == 2:
		return Location{Building: segments[0], Floor: segments[1]}, true
	default:
		return Location{}, false
	}
}

// splitSegments splits raw on "/" and returns the trimmed non-empty
// segments.
func splitSegments(raw string) []string {
	parts := strings.Split(raw, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}
