// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package middleware

import (
	"net/http"

	"github.com/tomtom215/joy/internal/audit"
)

// Provenance records the caller's IP address and user agent in the request
// context for the audit writer.
func Provenance(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := audit.ContextWithRequestInfo(r.Context(), audit.RequestInfoFromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
