// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/joy/internal/audit"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func seedStore(t *testing.T, n int) (*audit.MemoryStore, *audit.Writer) {
	t.Helper()

	store := audit.NewMemoryStore()
	w := audit.NewWriter(store, audit.WriterConfig{})
	for i := 0; i < n; i++ {
		at := testNow.Add(-time.Duration(i) * time.Minute)
		w.SetClock(func() time.Time { return at })
		_, err := w.Record(context.Background(), audit.Entry{
			Action:      "Content Item Updated",
			Actor:       audit.UserActor("u1"),
			Subject:     &audit.Subject{Type: "ContentItem", ID: "42"},
			OldValues:   audit.Values{"status": "draft"},
			NewValues:   audit.Values{"status": "approved"},
			WorkspaceID: "w1",
			Tags:        []string{"content"},
		})
		if err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	w.SetClock(func() time.Time { return testNow })
	return store, w
}

func TestExport_CSV(t *testing.T) {
	t.Parallel()

	store, w := seedStore(t, 3)
	e := NewEngine(w)

	var buf bytes.Buffer
	res, err := e.Export(context.Background(), Request{Query: audit.NewQuery(store), Format: "csv"}, &buf)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if res.Rows != 3 || res.Truncated {
		t.Errorf("result = %+v", res)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header plus 3", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "1" || rows[3][0] != "3" {
		t.Errorf("rows should be newest first: ids %s..%s", rows[1][0], rows[3][0])
	}
	if rows[1][13] != `{"status":"draft"}` {
		t.Errorf("old_values cell = %q", rows[1][13])
	}
}

func TestExport_JSONL(t *testing.T) {
	t.Parallel()

	store, w := seedStore(t, 5)
	var buf bytes.Buffer
	res, err := NewEngine(w).Export(context.Background(), Request{Query: audit.NewQuery(store), Format: "JSONL"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if res.Format != "jsonl" || res.Rows != 5 {
		t.Errorf("result = %+v", res)
	}

	sc := bufio.NewScanner(&buf)
	lines := 0
	for sc.Scan() {
		var p audit.DetailProjection
		if err := json.Unmarshal(sc.Bytes(), &p); err != nil {
			t.Fatalf("line %d: %v", lines, err)
		}
		if p.Action != "Content Item Updated" || p.NewValues["status"] != "approved" {
			t.Errorf("line %d = %+v", lines, p)
		}
		lines++
	}
	if lines != 5 {
		t.Errorf("got %d lines, want 5", lines)
	}
}

func TestExport_Truncation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		seeded        int
		engineMax     int
		requestMax    int
		wantRows      int
		wantTruncated bool
	}{
		{"under cap", 5, 10, 0, 5, false},
		{"exactly at cap", 10, 10, 0, 10, false},
		{"over cap", 25, 10, 0, 10, true},
		{"request lowers cap", 25, 100, 7, 7, true},
		{"request cannot raise cap", 25, 10, 50, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store, w := seedStore(t, tt.seeded)
			e := NewEngine(w, WithMaxRows(tt.engineMax))

			var buf bytes.Buffer
			res, err := e.Export(context.Background(), Request{
				Query:   audit.NewQuery(store),
				Format:  "jsonl",
				MaxRows: tt.requestMax,
			}, &buf)
			if err != nil {
				t.Fatal(err)
			}
			if res.Rows != tt.wantRows || res.Truncated != tt.wantTruncated {
				t.Errorf("result = %+v, want rows=%d truncated=%v", res, tt.wantRows, tt.wantTruncated)
			}
			if got := strings.Count(buf.String(), "\n"); got != tt.wantRows {
				t.Errorf("wrote %d lines, want %d", got, tt.wantRows)
			}
		})
	}
}

func TestEngine_Limit(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil, WithMaxRows(100))
	tests := []struct {
		requested int
		want      int
	}{
		{0, 100},
		{-5, 100},
		{1, 1},
		{99, 99},
		{100, 100},
		{500, 100},
	}
	for _, tt := range tests {
		if got := e.Limit(tt.requested); got != tt.want {
			t.Errorf("Limit(%d) = %d, want %d", tt.requested, got, tt.want)
		}
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	t.Parallel()

	store, w := seedStore(t, 2)
	var buf bytes.Buffer
	_, err := NewEngine(w).Export(context.Background(), Request{Query: audit.NewQuery(store), Format: "xml"}, &buf)

	var verr *audit.ValidationError
	if !errors.As(err, &verr) || verr.Field != "format" {
		t.Fatalf("error = %v, want format ValidationError", err)
	}
	if buf.Len() != 0 {
		t.Error("nothing may be written for an unknown format")
	}
	if store.Len() != 2 {
		t.Error("a rejected export must not be audited")
	}
}

func TestExport_RecordsAuditEvent(t *testing.T) {
	t.Parallel()

	store, w := seedStore(t, 3)
	ctx := audit.ContextWithPrincipal(context.Background(), audit.UserActor("admin"))
	q := audit.NewQuery(store).ByWorkspace("w1")

	var buf bytes.Buffer
	if _, err := NewEngine(w).Export(ctx, Request{Query: q, Format: "cef"}, &buf); err != nil {
		t.Fatal(err)
	}

	ev, err := audit.NewQuery(store).ByAction(audit.ActionAuditExport).First(context.Background())
	if err != nil {
		t.Fatalf("export event missing: %v", err)
	}
	if !ev.HasTag(audit.TagExport) {
		t.Errorf("tags = %v", ev.Tags)
	}
	if ev.NewValues["rows"] != 3 || ev.NewValues["format"] != "cef" || ev.NewValues["workspace_id"] != "w1" {
		t.Errorf("new_values = %v", ev.NewValues)
	}
	if ev.ActorID == nil || *ev.ActorID != "admin" {
		t.Errorf("actor = %v", ev.ActorID)
	}
}

func TestExport_EmptyRange(t *testing.T) {
	t.Parallel()

	store, w := seedStore(t, 3)
	q := audit.NewQuery(store).Between(testNow, testNow.Add(-time.Hour))

	var buf bytes.Buffer
	res, err := NewEngine(w).Export(context.Background(), Request{Query: q, Format: "csv"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if res.Rows != 0 || res.Truncated {
		t.Errorf("result = %+v", res)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected only the CSV header, got %q", buf.String())
	}
}

func TestExport_Canceled(t *testing.T) {
	t.Parallel()

	store, w := seedStore(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := NewEngine(w).Export(ctx, Request{Query: audit.NewQuery(store), Format: "csv"}, &buf)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
