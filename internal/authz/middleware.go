// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package authz

import (
	"net/http"

	"github.com/tomtom215/joy/internal/auth"
	"github.com/tomtom215/joy/internal/logging"
	"github.com/tomtom215/joy/internal/metrics"
)

// Middleware enforces the policy for the request path and method.
type Middleware struct {
	enforcer *Enforcer
	onError  auth.ErrorWriter
}

// NewMiddleware creates authorization middleware. onError renders denials;
// nil falls back to http.Error.
func NewMiddleware(enforcer *Enforcer, onError auth.ErrorWriter) *Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, status int, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{enforcer: enforcer, onError: onError}
}

// AuthorizeRequest maps the HTTP method to an action and authorizes it
// against the request path.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := auth.GetAuthSubject(r.Context())
		if subject == nil {
			m.onError(w, r, http.StatusForbidden, "Forbidden: no authentication context")
			return
		}

		action := methodToAction(r.Method)
		allowed, err := m.enforcer.EnforceWithRoles(subject.ID, subject.Roles, r.URL.Path, action)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			m.onError(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}

		if !allowed {
			metrics.AuthzDecisions.WithLabelValues(action, "denied").Inc()
			logging.Ctx(r.Context()).Warn().
				Str("subject", subject.ID).
				Str("path", r.URL.Path).
				Str("action", action).
				Msg("Authorization denied")
			m.onError(w, r, http.StatusForbidden, "Forbidden: insufficient permissions")
			return
		}

		metrics.AuthzDecisions.WithLabelValues(action, "allowed").Inc()
		next.ServeHTTP(w, r)
	})
}

// methodToAction maps HTTP methods to Casbin actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return "read"
	default:
		return "write"
	}
}
