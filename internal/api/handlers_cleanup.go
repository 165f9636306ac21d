// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/joy/internal/auth"
	"github.com/tomtom215/joy/internal/logging"
	"github.com/tomtom215/joy/internal/validation"
)

const maxCleanupBody = 4 << 10

// CleanupRequest is the body of POST /cleanup. An absent days defaults to
// the configured retention window; an explicit value is always validated.
type CleanupRequest struct {
	Days *int `json:"days" validate:"omitempty,min=30"`
}

// CleanupResponse reports a finished cleanup.
type CleanupResponse struct {
	Deleted  int64     `json:"deleted"`
	DaysKept int       `json:"days_kept"`
	Cutoff   time.Time `json:"cutoff"`
	Warning  string    `json:"warning,omitempty"`
}

// Cleanup handles POST /api/v1/audit/cleanup.
func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CleanupRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCleanupBody))
	if err != nil {
		rw.BadRequest("Failed to read request body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			rw.BadRequest("Request body must be a JSON object")
			return
		}
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.AuditError(verr)
		return
	}
	days := h.cfg.RetentionDays
	if req.Days != nil {
		days = *req.Days
	}

	triggeredBy := "api"
	if s := auth.GetAuthSubject(r.Context()); s != nil {
		triggeredBy = "api:" + s.ID
	}

	ctx := r.Context()
	if h.cfg.CleanupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.CleanupTimeout)
		defer cancel()
	}

	res, err := h.retention.Run(ctx, days, triggeredBy)
	if err != nil && res.Deleted == 0 {
		rw.AuditError(err)
		return
	}

	if res.Deleted > 0 && h.cache != nil {
		h.cache.Clear()
	}

	resp := CleanupResponse{Deleted: res.Deleted, DaysKept: days, Cutoff: res.Cutoff}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int64("deleted", res.Deleted).Msg("Cleanup succeeded but was not audited")
		resp.Warning = "records were deleted but the cleanup could not be audited"
	}
	rw.Success(resp)
}
