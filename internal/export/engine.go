// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package export

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/logging"
	"github.com/tomtom215/joy/internal/metrics"
)

// DefaultMaxRows caps an export when neither the engine nor the request set
// a limit.
const DefaultMaxRows = 10000

const batchSize = 500

// errCapReached stops the walk once one row beyond the cap was seen.
var errCapReached = errors.New("export row cap reached")

// Request selects what to export.
type Request struct {
	Query  *audit.Query
	Format string
	// MaxRows lowers the engine's cap for this request. Zero keeps it.
	MaxRows int
}

// Result describes a finished export.
type Result struct {
	Format    string `json:"format"`
	Rows      int    `json:"rows"`
	Truncated bool   `json:"truncated"`
}

// Engine runs exports.
type Engine struct {
	formats *Registry
	writer  *audit.Writer
	maxRows int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxRows sets the engine-wide row cap.
func WithMaxRows(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRows = n
		}
	}
}

// WithRegistry replaces the default format registry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.formats = r }
}

// NewEngine returns an Engine. When writer is non-nil every export is
// recorded as an audit_export event.
func NewEngine(writer *audit.Writer, opts ...Option) *Engine {
	e := &Engine{
		formats: DefaultRegistry(),
		writer:  writer,
		maxRows: DefaultMaxRows,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Formats returns the engine's format registry.
func (e *Engine) Formats() *Registry {
	return e.formats
}

// Lookup resolves a format name before any output is produced.
func (e *Engine) Lookup(name string) (Format, error) {
	return e.formats.Lookup(name)
}

// Limit returns the row cap applied to a request asking for requested rows.
// Zero keeps the engine cap.
func (e *Engine) Limit(requested int) int {
	if requested > 0 && requested < e.maxRows {
		return requested
	}
	return e.maxRows
}

// Export writes the records matched by req.Query to w, newest first. At most
// the row cap is written; Result.Truncated reports whether more matched.
func (e *Engine) Export(ctx context.Context, req Request, w io.Writer) (*Result, error) {
	format, err := e.formats.Lookup(req.Format)
	if err != nil {
		return nil, err
	}
	if req.Query == nil {
		return nil, &audit.ValidationError{Field: "query", Message: "is required"}
	}
	if req.MaxRows < 0 {
		return nil, &audit.ValidationError{Field: "max_rows", Message: "must not be negative"}
	}

	limit := e.Limit(req.MaxRows)

	rw := format.NewWriter(w)
	if err := rw.Open(ctx); err != nil {
		return nil, fmt.Errorf("opening %s export: %w", format.Name(), err)
	}

	res := &Result{Format: format.Name()}
	walkErr := req.Query.Clone().Each(ctx, min(batchSize, limit+1), func(r audit.Record) error {
		if res.Rows == limit {
			res.Truncated = true
			return errCapReached
		}
		if err := rw.Write(ctx, &r); err != nil {
			return fmt.Errorf("writing record %d: %w", r.ID, err)
		}
		res.Rows++
		return nil
	})

	closeErr := rw.Close(ctx)
	if walkErr != nil && !errors.Is(walkErr, errCapReached) {
		return res, walkErr
	}
	if closeErr != nil {
		return res, fmt.Errorf("closing %s export: %w", format.Name(), closeErr)
	}

	metrics.RecordExport(res.Format, res.Rows, res.Truncated)
	e.recordExport(ctx, req.Query, res)
	return res, nil
}

func (e *Engine) recordExport(ctx context.Context, q *audit.Query, res *Result) {
	if e.writer == nil {
		return
	}
	f := q.Filter()
	newValues := audit.Values{
		"format":    res.Format,
		"rows":      res.Rows,
		"truncated": res.Truncated,
	}
	if f.WorkspaceID != "" {
		newValues["workspace_id"] = f.WorkspaceID
	}
	if f.From != nil {
		newValues["from"] = f.From.UTC()
	}
	if f.To != nil {
		newValues["to"] = f.To.UTC()
	}

	rec, err := e.writer.Record(ctx, audit.Entry{
		Action:    audit.ActionAuditExport,
		Severity:  audit.SeverityInfo,
		Tags:      []string{audit.TagExport},
		NewValues: newValues,
	})
	if audit.BestEffort(ctx, rec, err) != nil {
		logging.Ctx(ctx).Debug().Int("rows", res.Rows).Str("format", res.Format).Msg("Audit export recorded")
	}
}
