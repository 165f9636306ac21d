// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package export

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/tomtom215/joy/internal/audit"
)

// JSONL writes one audit.DetailProjection per line.
type JSONL struct{}

func (JSONL) Name() string        { return "jsonl" }
func (JSONL) ContentType() string { return "application/x-ndjson" }
func (JSONL) Extension() string   { return "jsonl" }

func (JSONL) NewWriter(w io.Writer) RowWriter {
	return &jsonlWriter{w: bufio.NewWriter(w)}
}

type jsonlWriter struct {
	w *bufio.Writer
}

func (j *jsonlWriter) Open(context.Context) error { return nil }

func (j *jsonlWriter) Write(_ context.Context, r *audit.Record) error {
	data, err := json.Marshal(audit.ProjectDetail(r))
	if err != nil {
		return fmt.Errorf("marshaling record %d: %w", r.ID, err)
	}
	if _, err := j.w.Write(data); err != nil {
		return fmt.Errorf("writing record %d: %w", r.ID, err)
	}
	return j.w.WriteByte('\n')
}

func (j *jsonlWriter) Close(context.Context) error {
	return j.w.Flush()
}
