// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package telemetry

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/aircensus/internal/config"
	"github.com/tomtom215/aircensus/internal/errtrack"
	"github.com/tomtom215/aircensus/internal/logging"
	"github.com/tomtom215/aircensus/internal/metrics"
	"github.com/tomtom215/aircensus/internal/models"
)

// Controller API paths. The device collection carries per-AP health and
// location; the site collection carries aggregated wireless client counts.
const (
	deviceHealthPath = "/dna/intent/api/v1/device-health"
	siteHealthPath   = "/dna/intent/api/v1/site-health"
)

const (
	// firstPageOffset is where the controller's paging starts. Its offsets
	// are 1-based, not 0-based.
	firstPageOffset = 1

	// siteHealthPageCap is the controller's hard limit on site-health page
	// size; larger limits are silently truncated upstream.
	siteHealthPageCap = 50

	defaultPageSize       = 100
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = 1 * time.Second
	defaultRequestTimeout = 60 * time.Second
	defaultRateLimit      = 10 // requests per second
)

// maxErrorBodySize limits the maximum amount of response body read for error reporting
const maxErrorBodySize = 64 * 1024 // 64KB

// Client defines the upstream fetch operations consumed by the pipeline.
//
// Implemented by ControllerClient for production use, by
// CircuitBreakerClient as its protective wrapper, and by mock
// implementations for testing.
//
// All methods follow a consistent pattern:
//   - Accept context.Context as first parameter for cancellation/timeout support
//   - Return finite in-memory slices; data volumes are one campus worth of
//     devices per call, so no streaming is needed
//   - Classify failures as transient or terminal (see errors.go)
//
// Thread Safety: all methods are safe for concurrent use.
type Client interface {
	FetchAccessPoints(ctx context.Context) ([]models.RawDevice, error)
	FetchClientCounts(ctx context.Context) ([]models.RawSiteCount, error)
	Ping(ctx context.Context) error
}

// endpoint pairs a controller base URL with the auth manager holding its
// session token.
type endpoint struct {
	baseURL string
	auth    *AuthManager
}

// ControllerClient talks to the management controller's REST API.
//
// Features:
//   - Primary plus optional fallback controller, tried in order
//   - Outbound rate limiting so a fetch cycle cannot trip the
//     controller's own request throttling
//   - Automatic retry on HTTP 429 with exponential backoff and
//     Retry-After support
//   - One fresh-credential retry for transient failures (timeouts, 5xx,
//     expired tokens)
//   - Failures that exhaust every endpoint are recorded in the error
//     tracker with their classification
//
// Thread Safety: safe for concurrent use. Each request creates its own
// HTTP request; token state is guarded by the auth managers.
type ControllerClient struct {
	endpoints      []*endpoint
	client         *http.Client
	tracker        *errtrack.Tracker
	siteID         string
	pageSize       int
	maxRetries     int           // Maximum retries for rate limiting
	retryBaseDelay time.Duration // Base delay for exponential backoff
	limiter        *rate.Limiter
}

var _ Client = (*ControllerClient)(nil)

// NewControllerClient creates a controller client from configuration. The
// tracker must be non-nil; exhausted fetches are recorded there for the
// API health summary.
func NewControllerClient(cfg *config.ControllerConfig, tracker *errtrack.Tracker) *ControllerClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	httpClient := &http.Client{Timeout: timeout}
	if !cfg.VerifyTLS {
		// Campus controllers routinely run self-signed certificates; the
		// operator opts out of verification via verify_tls.
		httpClient.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // explicit operator opt-in
		}
	}

	endpoints := make([]*endpoint, 0, 2)
	for _, base := range []string{cfg.URL, cfg.FallbackURL} {
		base = strings.TrimRight(strings.TrimSpace(base), "/")
		if base == "" {
			continue
		}
		endpoints = append(endpoints, &endpoint{
			baseURL: base,
			auth:    NewAuthManager(base, cfg.Username, cfg.Password, httpClient),
		})
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}
	burst := int(rateLimit)
	if burst < 1 {
		burst = 1
	}

	return &ControllerClient{
		endpoints:      endpoints,
		client:         httpClient,
		tracker:        tracker,
		siteID:         cfg.SiteID,
		pageSize:       pageSize,
		maxRetries:     maxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
		limiter:        rate.NewLimiter(rate.Limit(rateLimit), burst),
	}
}

// FetchAccessPoints retrieves every wireless access point known to the
// controller by walking the paginated device collection. Sightings are
// deduplicated by MAC address with the latest one winning: the controller
// repeats devices across page boundaries when the collection shifts
// mid-walk.
func (c *ControllerClient) FetchAccessPoints(ctx context.Context) ([]models.RawDevice, error) {
	devices, err := tryEndpoints(ctx, c, "device fetch", c.fetchDevicePages)
	if err != nil {
		return nil, err
	}
	return dedupeByMAC(devices), nil
}

// FetchClientCounts retrieves per-site wireless client counts. Zero
// counts are returned as data, not filtered: diagnostics needs to see a
// building's transition to zero, so an empty building must still produce
// a reading.
func (c *ControllerClient) FetchClientCounts(ctx context.Context) ([]models.RawSiteCount, error) {
	return tryEndpoints(ctx, c, "site count fetch", c.fetchSitePages)
}

// Ping verifies connectivity by requesting a single device record from
// any configured endpoint. Probe failures are returned to the caller but
// never recorded in the tracker; health checks should not count against
// the upstream failure record.
func (c *ControllerClient) Ping(ctx context.Context) error {
	if len(c.endpoints) == 0 {
		return NewTerminalError("no controller endpoints configured", nil)
	}

	query := url.Values{}
	query.Set("deviceRole", "AP")
	query.Set("limit", "1")
	query.Set("offset", strconv.Itoa(firstPageOffset))
	if c.siteID != "" {
		query.Set("siteId", c.siteID)
	}

	var lastErr error
	for _, ep := range c.endpoints {
		var envelope models.DeviceHealthEnvelope
		if err := c.getJSON(ctx, ep, deviceHealthPath, query, &envelope); err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		return nil
	}
	return lastErr
}

// tryEndpoints runs fn against each configured endpoint in order until
// one succeeds. On total failure the last endpoint's error, already
// classified, is recorded in the tracker and returned.
func tryEndpoints[T any](ctx context.Context, c *ControllerClient, op string, fn func(context.Context, *endpoint) (T, error)) (T, error) {
	var zero T
	if len(c.endpoints) == 0 {
		err := NewTerminalError("no controller endpoints configured", nil)
		c.trackFailure(op, err)
		return zero, err
	}

	var lastErr error
	for i, ep := range c.endpoints {
		out, err := fn(ctx, ep)
		if err == nil {
			if i > 0 {
				logging.Info().Str("operation", op).Str("endpoint", ep.baseURL).Msg("Fallback controller served request")
			}
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			// Cancellation is the caller going away, not an upstream
			// fault; stop without failing over.
			break
		}
		if i < len(c.endpoints)-1 {
			logging.Warn().Err(err).Str("operation", op).Str("endpoint", ep.baseURL).Msg("Controller request failed, trying alternate")
		}
	}
	c.trackFailure(op, lastErr)
	return zero, lastErr
}

// trackFailure records a fetch that exhausted every endpoint.
func (c *ControllerClient) trackFailure(op string, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	kind := Kind(err)
	c.tracker.Record(kind, op+": "+err.Error())
	metrics.RecordTrackedError(kind)
	metrics.ControllerErrors.WithLabelValues(kind).Inc()
	logging.Error().Err(err).Str("operation", op).Str("kind", kind).Msg("Controller fetch failed")
}

// fetchDevicePages walks the device-health collection one page at a time.
// A short page ends the walk.
func (c *ControllerClient) fetchDevicePages(ctx context.Context, ep *endpoint) ([]models.RawDevice, error) {
	var devices []models.RawDevice
	for offset := firstPageOffset; ; offset += c.pageSize {
		query := url.Values{}
		query.Set("deviceRole", "AP")
		query.Set("limit", strconv.Itoa(c.pageSize))
		query.Set("offset", strconv.Itoa(offset))
		if c.siteID != "" {
			query.Set("siteId", c.siteID)
		}

		var envelope models.DeviceHealthEnvelope
		if err := c.getJSON(ctx, ep, deviceHealthPath, query, &envelope); err != nil {
			return nil, err
		}
		devices = append(devices, envelope.Response...)
		if len(envelope.Response) < c.pageSize {
			return devices, nil
		}
	}
}

// fetchSitePages walks the site-health collection, paging at the
// controller's cap when the configured page size exceeds it.
func (c *ControllerClient) fetchSitePages(ctx context.Context, ep *endpoint) ([]models.RawSiteCount, error) {
	pageSize := c.pageSize
	if pageSize > siteHealthPageCap {
		pageSize = siteHealthPageCap
	}

	var sites []models.RawSiteCount
	for offset := firstPageOffset; ; offset += pageSize {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(pageSize))
		query.Set("offset", strconv.Itoa(offset))
		if c.siteID != "" {
			query.Set("siteId", c.siteID)
		}

		var envelope models.SiteHealthEnvelope
		if err := c.getJSON(ctx, ep, siteHealthPath, query, &envelope); err != nil {
			return nil, err
		}
		sites = append(sites, envelope.Response...)
		if len(envelope.Response) < pageSize {
			return sites, nil
		}
	}
}

// getJSON performs a GET against one endpoint and decodes the body into
// result. A body that does not decode is a terminal failure.
func (c *ControllerClient) getJSON(ctx context.Context, ep *endpoint, path string, query url.Values, result interface{}) error {
	resp, err := c.doRequestWithRetry(ctx, ep, path, query)
	if err != nil {
		return err
	}
	defer closeBody(resp)

	if err := decodeJSONResponse(resp, result); err != nil {
		return NewTerminalError(fmt.Sprintf("malformed %s response", path), err)
	}
	return nil
}

// doRequestWithRetry performs an HTTP request with rate limit handling
// and transient-failure recovery. HTTP 429 responses are retried with
// exponential backoff (honoring Retry-After); timeouts, 5xx responses,
// and rejected tokens get one retry behind a forced credential refresh.
// The context is used for cancellation during backoff waits.
func (c *ControllerClient) doRequestWithRetry(ctx context.Context, ep *endpoint, path string, query url.Values) (*http.Response, error) {
	refreshed := false

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Check context before attempting request
		if ctx.Err() != nil {
			return nil, NewTransientError("request cancelled", ctx.Err())
		}

		// Pace outbound requests so a page walk cannot trip the
		// controller's own throttling.
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, NewTransientError("outbound rate limiter", err)
		}

		token, err := ep.auth.Token(ctx)
		if err != nil {
			return nil, err // already classified by the auth manager
		}

		resp, err := c.send(ctx, ep, path, query, token)
		if err != nil {
			// Transport faults (refused, reset, timed out) are transient
			// and get the one fresh-credential retry that class is
			// allowed.
			if !refreshed {
				refreshed = true
				if _, rerr := ep.auth.ForceRefresh(ctx); rerr == nil {
					metrics.ControllerRetries.WithLabelValues("transient").Inc()
					continue
				}
			}
			return nil, NewTransientError(path+" request failed", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp, nil

		case resp.StatusCode == http.StatusUnauthorized:
			closeBody(resp)
			if !refreshed {
				refreshed = true
				if _, rerr := ep.auth.ForceRefresh(ctx); rerr != nil {
					return nil, rerr
				}
				metrics.ControllerRetries.WithLabelValues("auth_expired").Inc()
				continue
			}
			return nil, NewTransientError(path, ErrAuthRejected)

		case resp.StatusCode == http.StatusTooManyRequests:
			closeBody(resp)
			if attempt == c.maxRetries {
				return nil, NewTransientError(fmt.Sprintf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries), nil)
			}

			// Calculate exponential backoff delay: 1s, 2s, 4s, ...
			delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))

			// Check for Retry-After header (RFC 6585)
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, perr := time.ParseDuration(retryAfter + "s"); perr == nil {
					delay = seconds
				}
			}

			metrics.ControllerRetries.WithLabelValues("rate_limited").Inc()
			logging.Warn().Str("path", path).Dur("delay", delay).Int("attempt", attempt+1).Msg("Controller rate limit hit, backing off")

			// Use cancellable wait instead of time.Sleep
			select {
			case <-time.After(delay):
				// Continue to next attempt
			case <-ctx.Done():
				return nil, NewTransientError("request cancelled during backoff", ctx.Err())
			}

		case resp.StatusCode >= 500:
			closeBody(resp)
			if !refreshed {
				// Controllers surface 5xx while their token store
				// restarts; a fresh token is the cheapest first response.
				refreshed = true
				if _, rerr := ep.auth.ForceRefresh(ctx); rerr == nil {
					metrics.ControllerRetries.WithLabelValues("transient").Inc()
					continue
				}
			}
			return nil, NewTransientError(fmt.Sprintf("%s returned status %d", path, resp.StatusCode), nil)

		default:
			body := readBodyForError(resp.Body)
			closeBody(resp)
			return nil, NewTerminalError(fmt.Sprintf("%s returned status %d: %s", path, resp.StatusCode, string(body)), nil)
		}
	}

	return nil, NewTransientError(fmt.Sprintf("request not served within %d attempts", c.maxRetries+1), nil)
}

// send issues a single authenticated GET and records its metrics.
func (c *ControllerClient) send(ctx context.Context, ep *endpoint, path string, query url.Values, token string) (*http.Response, error) {
	reqURL := ep.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-auth-token", token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordControllerRequest(path, "error", time.Since(start))
		return nil, err
	}
	metrics.RecordControllerRequest(path, strconv.Itoa(resp.StatusCode), time.Since(start))
	return resp, nil
}

// dedupeByMAC collapses repeated sightings of one device, keeping the
// latest sighting in the first-seen position. Devices without a MAC are
// kept as-is; they cannot be told apart.
func dedupeByMAC(devices []models.RawDevice) []models.RawDevice {
	if len(devices) == 0 {
		return devices
	}

	seen := make(map[string]int, len(devices))
	out := make([]models.RawDevice, 0, len(devices))
	for _, device := range devices {
		mac := strings.ToLower(strings.TrimSpace(device.MACAddress))
		if mac == "" {
			out = append(out, device)
			continue
		}
		if i, ok := seen[mac]; ok {
			out[i] = device
			continue
		}
		seen[mac] = len(out)
		out = append(out, device)
	}
	return out
}

// readBodyForError reads the response body for error reporting (max 64KB)
func readBodyForError(r io.Reader) []byte {
	// Limit reading to prevent memory issues with large responses
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	// If we hit the limit, indicate truncation
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// decodeJSONResponse decodes HTTP response body into the provided result struct
func decodeJSONResponse(resp *http.Response, result interface{}) error {
	decoder := json.NewDecoder(resp.Body)
	return decoder.Decode(result)
}

// closeBody closes a response body when the error has nothing actionable
// in it.
func closeBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_ = resp.Body.Close() // Explicitly ignore error - nothing to do at close time
}
