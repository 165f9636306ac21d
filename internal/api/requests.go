// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/joy/internal/audit"
)

// reservedParams are consumed by the handlers and never treated as filters.
var reservedParams = map[string]struct{}{
	"page":     {},
	"per_page": {},
	"format":   {},
	"limit":    {},
}

// filterParams collects the first value of every non-reserved query parameter.
func filterParams(r *http.Request) map[string]string {
	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if _, reserved := reservedParams[key]; reserved || len(values) == 0 {
			continue
		}
		params[key] = values[0]
	}
	return params
}

// intParam parses an optional positive integer parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &audit.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return n, nil
}

// workspaceParam returns the workspace_id parameter or nil.
func workspaceParam(r *http.Request) *string {
	v := strings.TrimSpace(r.URL.Query().Get("workspace_id"))
	if v == "" {
		return nil
	}
	return &v
}
