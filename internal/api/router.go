// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/joy/internal/auth"
	"github.com/tomtom215/joy/internal/authz"
	"github.com/tomtom215/joy/internal/middleware"
)

// RouterDeps wires the handler to the security middleware.
type RouterDeps struct {
	Handler *Handler
	Chi     *ChiMiddleware
	Auth    *auth.Middleware
	Authz   *authz.Middleware
}

// NewRouter builds the chi router.
//
// Middleware order: request id, panic recovery, metrics and CORS for every
// route. The audit group adds rate limiting, request provenance,
// authentication and authorization.
func NewRouter(deps RouterDeps) http.Handler {
	h := deps.Handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(deps.Chi.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/audit", func(r chi.Router) {
		r.Use(deps.Chi.RateLimit())
		r.Use(middleware.Provenance)
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.Authz.AuthorizeRequest)

		r.Get("/logs", h.ListLogs)
		r.Get("/logs/{id}", h.GetLog)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/report", h.Report)
		r.Get("/stats", h.Stats)
		r.With(middleware.Compression).Get("/export", h.Export)
		r.Post("/cleanup", h.Cleanup)
		r.Get("/meta", h.Meta)
	})

	return r
}
