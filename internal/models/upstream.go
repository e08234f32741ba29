// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package models

// Raw wire shapes returned by the upstream controller. These are decoded
// verbatim and validated only at the normalizer boundary; nothing past the
// normalizer ever sees them.

// RawDevice is one entry from the device-health collection.
//
// Optional numeric fields are pointers so a missing field is distinguishable
// from a zero value. Location carries the primary slash-delimited hierarchy;
// SNMPLocation and LocationName are fallback sources tried in that order by
// the normalizer.
type RawDevice struct {
	Name               string `json:"name"`
	MACAddress         string `json:"macAddress"`
	Model              string `json:"model"`
	IPAddress          string `json:"ipAddress"`
	ReachabilityHealth string `json:"reachabilityHealth"`
	ClientCount        *int   `json:"clientCount"`
	Location           string `json:"location"`
	SNMPLocation       string `json:"snmpLocation"`
	LocationName       string `json:"locationName"`
}

// RawSiteCount is one entry from the site-health collection.
//
// SiteHierarchy is the slash-delimited site path when the controller reports
// one; SiteName is the site's own label and serves as the building fallback
// for building-type sites whose hierarchy does not parse.
type RawSiteCount struct {
	SiteName                string `json:"siteName"`
	SiteType                string `json:"siteType"`
	SiteHierarchy           string `json:"siteHierarchyName"`
	ParentSiteName          string `json:"parentSiteName"`
	NumberOfWirelessClients *int   `json:"numberOfWirelessClients"`
}

// The envelope types mirror the controller's response wrappers. Defined here
// so the client and its tests share one shape.

// DeviceHealthEnvelope wraps a device-health page.
type DeviceHealthEnvelope struct {
	Response []RawDevice `json:"response"`
}

// SiteHealthEnvelope wraps the site-health collection.
type SiteHealthEnvelope struct {
	Response []RawSiteCount `json:"response"`
}

// AuthTokenEnvelope wraps the token endpoint response.
type AuthTokenEnvelope struct {
	Token string `json:"Token"`
}
