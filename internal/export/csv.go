// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/joy/internal/audit"
)

var csvHeader = []string{
	"id", "created_at", "action", "severity", "actor_type", "actor_id",
	"subject_type", "subject_id", "workspace_id", "client_id", "tags",
	"ip_address", "user_agent", "old_values", "new_values",
}

// CSV writes one row per record with a header line.
type CSV struct{}

func (CSV) Name() string        { return "csv" }
func (CSV) ContentType() string { return "text/csv; charset=utf-8" }
func (CSV) Extension() string   { return "csv" }

func (CSV) NewWriter(w io.Writer) RowWriter {
	return &csvWriter{w: csv.NewWriter(w)}
}

type csvWriter struct {
	w *csv.Writer
}

func (c *csvWriter) Open(context.Context) error {
	return c.w.Write(csvHeader)
}

func (c *csvWriter) Write(_ context.Context, r *audit.Record) error {
	oldValues, err := json.Marshal(r.OldValues)
	if err != nil {
		return fmt.Errorf("encoding old_values of record %d: %w", r.ID, err)
	}
	newValues, err := json.Marshal(r.NewValues)
	if err != nil {
		return fmt.Errorf("encoding new_values of record %d: %w", r.ID, err)
	}

	var subjectType, subjectID string
	if r.Subject != nil {
		subjectType, subjectID = r.Subject.Type, r.Subject.ID
	}

	row := []string{
		strconv.FormatInt(r.ID, 10),
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
		r.Action,
		string(r.Severity),
		string(r.ActorType),
		deref(r.ActorID),
		subjectType,
		subjectID,
		deref(r.WorkspaceID),
		deref(r.ClientID),
		strings.Join(r.Tags, ";"),
		deref(r.IPAddress),
		deref(r.UserAgent),
		string(oldValues),
		string(newValues),
	}
	for i := range row {
		row[i] = neutralizeFormula(row[i])
	}
	return c.w.Write(row)
}

func (c *csvWriter) Close(context.Context) error {
	c.w.Flush()
	return c.w.Error()
}

// neutralizeFormula prefixes cells that spreadsheets would evaluate.
func neutralizeFormula(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
