// Aircensus - Wireless Access Point Telemetry and Diagnostics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aircensus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/aircensus/internal/config"
	"github.com/tomtom215/aircensus/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so our own middleware works with r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router around the given handler. Middleware settings
// (CORS origins, rate limits) come from the security section of cfg.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	var mw *ChiMiddleware
	if cfg != nil {
		mw = NewChiMiddlewareFromSecurity(
			cfg.Security.CORSOrigins,
			cfg.Security.RateLimitReqs,
			cfg.Security.RateLimitWindow,
			cfg.Security.RateLimitDisabled,
		)
	} else {
		mw = NewChiMiddleware(nil)
	}

	return &Router{
		handler:       handler,
		chiMiddleware: mw,
	}
}

// Setup configures all HTTP routes using the Chi router.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order. CORS must be
	// global so OPTIONS preflight requests reach it.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Health endpoints. Permissive rate limiting so orchestrator probes
	// and monitoring tools are never throttled.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// Collection triggers. Strict rate limiting: each trigger runs a full
	// fetch against the wireless controller.
	r.Route("/api/v1/sync", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitSync())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Post("/", router.handler.SyncTrigger)
		r.Post("/access-points", router.handler.SyncAccessPoints)
		r.Post("/client-counts", router.handler.SyncClientCounts)
		r.Get("/status", router.handler.SyncStatus)
	})

	// Data reads: inventory, series, and the building catalog.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitQuery())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))

		r.Get("/access-points", router.handler.AccessPoints)
		r.Get("/client-counts", router.handler.ClientCounts)
		r.Get("/buildings", router.handler.Buildings)
	})

	// Diagnostics. Each request scans the recent series, so these share
	// the query budget rather than the permissive health one.
	r.Route("/api/v1/diagnostics", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitDiagnostics())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/zero-counts", router.handler.DiagnosticsZeroCounts)
		r.Get("/health-alerts", router.handler.DiagnosticsHealthAlerts)
		r.Get("/report", router.handler.DiagnosticsReport)
		r.Get("/incomplete-devices", router.handler.DiagnosticsIncompleteDevices)
		r.Get("/api-health", router.handler.DiagnosticsAPIHealth)
	})

	// Observability
	r.Handle("/metrics", promhttp.Handler())

	return r
}
