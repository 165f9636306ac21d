// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/joy/internal/export"
	"github.com/tomtom215/joy/internal/logging"
)

// Export response headers. Rows and truncation are only known once the body
// has been streamed, so they are sent as trailers.
const (
	HeaderExportTotal     = "X-Export-Total"
	HeaderExportLimit     = "X-Export-Limit"
	HeaderExportRows      = "X-Export-Rows"
	HeaderExportTruncated = "X-Export-Truncated"
)

// Export handles GET /api/v1/audit/export?format=csv plus any list filter.
// The body is streamed newest first and stops at the row cap.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	name := strings.TrimSpace(r.URL.Query().Get("format"))
	if name == "" {
		name = "csv"
	}
	format, err := h.exports.Lookup(name)
	if err != nil {
		rw.AuditError(err)
		return
	}
	limit, err := intParam(r, "limit", h.cfg.ExportMaxRows)
	if err != nil {
		rw.AuditError(err)
		return
	}

	q, err := h.query().Apply(filterParams(r))
	if err != nil {
		rw.AuditError(err)
		return
	}

	ctx := r.Context()
	if h.cfg.ExportTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.ExportTimeout)
		defer cancel()
	}

	total, err := q.Clone().Count(ctx)
	if err != nil {
		rw.AuditError(err)
		return
	}

	filename := fmt.Sprintf("audit-logs-%s.%s", time.Now().UTC().Format("20060102-150405"), format.Extension())
	header := w.Header()
	header.Set("Content-Type", format.ContentType())
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	header.Set(HeaderExportTotal, strconv.FormatInt(total, 10))
	header.Set(HeaderExportLimit, strconv.Itoa(h.exports.Limit(limit)))
	header.Set("Trailer", HeaderExportRows+", "+HeaderExportTruncated)
	w.WriteHeader(http.StatusOK)

	res, err := h.exports.Export(ctx, export.Request{Query: q, Format: format.Name(), MaxRows: limit}, w)
	if res != nil {
		header.Set(HeaderExportRows, strconv.Itoa(res.Rows))
		header.Set(HeaderExportTruncated, strconv.FormatBool(res.Truncated))
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("format", format.Name()).Msg("Export aborted mid-stream")
		return
	}
	if res.Truncated {
		logging.Ctx(r.Context()).Warn().
			Int("rows", res.Rows).
			Int64("matched", total).
			Str("format", res.Format).
			Msg("Export truncated at row cap")
	}
}
