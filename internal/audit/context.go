// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package audit

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// RequestInfo is the HTTP provenance of an event. Empty fields are stored as null.
type RequestInfo struct {
	IPAddress string
	UserAgent string
}

type ctxKey int

const (
	principalKey ctxKey = iota
	requestInfoKey
)

// ContextWithPrincipal attaches the resolved principal to ctx.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal stored by ContextWithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok && p != nil
}

// ContextWithRequestInfo attaches request provenance to ctx.
func ContextWithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey, info)
}

// RequestInfoFromContext returns the provenance stored by ContextWithRequestInfo.
func RequestInfoFromContext(ctx context.Context) (RequestInfo, bool) {
	info, ok := ctx.Value(requestInfoKey).(RequestInfo)
	return info, ok
}

// RequestInfoFromRequest extracts client IP and user agent. X-Forwarded-For
// (first hop) and X-Real-IP take precedence over RemoteAddr.
func RequestInfoFromRequest(r *http.Request) RequestInfo {
	return RequestInfo{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
