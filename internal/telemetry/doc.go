// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

/*
Package telemetry fetches access point and client count data from the
upstream network management controller.

The controller (a Cisco Catalyst Center / DNA Center style API) exposes two
collections this package consumes: device-health, which carries per-AP
reachability, location, and client counts, and site-health, which carries
aggregated wireless client counts per site. Both are returned as raw wire
shapes (models.RawDevice, models.RawSiteCount); all validation happens
later, at the normalize package boundary.

Key Components:

  - Client: the fetch interface consumed by the pipeline
  - ControllerClient: HTTP client with pagination, rate limiting, and
    endpoint failover
  - AuthManager: credential exchange and session token caching
  - CircuitBreakerClient: automatic failure detection and recovery

Authentication:

The controller issues session tokens against basic credentials. Tokens are
cached and refreshed five minutes before expiry, so steady-state fetching
performs one credential exchange per token lifetime. A data request that
comes back 401 gets exactly one retry behind a forced refresh; a refresh
floor of thirty seconds keeps that path from stampeding the token endpoint
when the controller is misbehaving.

Failure Classification:

Every failure leaving this package is classified transient or terminal.
Transient failures (timeouts, 5xx responses, expired tokens, an open
circuit breaker) are expected to clear on their own and receive one retry
with fresh credentials. Terminal failures (other 4xx responses, refused
credentials, payloads that do not decode) are returned immediately.
Fetches that exhaust the primary and fallback controllers are recorded in
the error tracker, where the diagnostics API health summary reads them.

Usage Example:

	tracker := errtrack.New()
	client := telemetry.NewCircuitBreakerClient(
	    telemetry.NewControllerClient(&cfg.Controller, tracker),
	    tracker,
	)

	devices, err := client.FetchAccessPoints(ctx)
	if err != nil {
	    // classification available via telemetry.IsTransient / IsTerminal
	}

Thread Safety:

All exported types are safe for concurrent use. Token state is guarded by
the auth manager's mutex; everything else is immutable after construction.
*/
package telemetry
