// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/joy/internal/audit"
)

// ListLogs handles GET /api/v1/audit/logs.
//
// Filters: actor_id, actor_type, subject_type, subject_id, action, severity,
// min_severity, workspace_id, client_id, tag, search, from, to, days.
// Paging: page (1-based), per_page (capped at the configured maximum).
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page, err := intParam(r, "page", 1)
	if err != nil {
		rw.AuditError(err)
		return
	}
	perPage, err := intParam(r, "per_page", h.cfg.PageSize)
	if err != nil {
		rw.AuditError(err)
		return
	}
	perPage = min(perPage, h.cfg.MaxPageSize)

	q, err := h.query().Apply(filterParams(r))
	if err != nil {
		rw.AuditError(err)
		return
	}

	result, err := q.Paginate(r.Context(), page, perPage)
	if err != nil {
		rw.AuditError(err)
		return
	}

	rw.SuccessWithPagination(audit.ProjectAll(result.Records), &PaginationMeta{
		Total:    result.Total,
		Count:    len(result.Records),
		Page:     result.Page,
		PerPage:  result.PageSize,
		LastPage: result.LastPage,
		HasMore:  result.Page < result.LastPage,
	})
}

// GetLog handles GET /api/v1/audit/logs/{id}.
func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		rw.AuditError(&audit.ValidationError{Field: "id", Message: "must be a positive integer"})
		return
	}

	rec, err := h.writer.Store().Get(r.Context(), id)
	if err != nil {
		rw.AuditError(err)
		return
	}
	rw.Success(audit.ProjectDetail(rec))
}
