// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/joy/internal/logging"
	"github.com/tomtom215/joy/internal/metrics"
)

// ErrorWriter renders an authentication failure.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, status int, message string)

// Middleware authenticates requests.
type Middleware struct {
	jwt     *JWTManager
	mode    AuthMode
	onError ErrorWriter
}

// NewMiddleware creates the authentication middleware. jwtManager may be nil
// only in AuthModeNone.
func NewMiddleware(jwtManager *JWTManager, mode AuthMode, onError ErrorWriter) *Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, status int, message string) {
			http.Error(w, message, status)
		}
	}
	return &Middleware{jwt: jwtManager, mode: mode, onError: onError}
}

// Authenticate is middleware that enforces authentication.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.mode == AuthModeNone {
			next.ServeHTTP(w, r.WithContext(ContextWithSubject(r.Context(), DevSubject())))
			return
		}

		token, err := extractToken(r)
		if err != nil {
			metrics.AuthFailures.WithLabelValues("missing_token").Inc()
			m.onError(w, r, http.StatusUnauthorized, "Unauthorized: "+err.Error())
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			reason := "invalid_token"
			if errors.Is(err, ErrExpiredCredentials) {
				reason = "expired_token"
			}
			metrics.AuthFailures.WithLabelValues(reason).Inc()
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Token validation failed")
			m.onError(w, r, http.StatusUnauthorized, "Unauthorized: invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithSubject(r.Context(), claims.Subject())))
	})
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the "token" cookie.
func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		cookie, err := r.Cookie("token")
		if err != nil || cookie.Value == "" {
			return "", ErrNoCredentials
		}
		return cookie.Value, nil
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("invalid authorization header")
	}
	return strings.TrimSpace(token), nil
}
