// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package cli

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestPrintTable(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintTable(&buf,
		Section{Title: "By action", Headers: []string{"action", "count"}, Rows: [][]string{
			{"User Created", "3"},
			{"Login\nFailed", "1"},
			{strings.Repeat("x", 80), "1"},
		}},
		Section{Title: "Empty", Headers: []string{"a"}},
	)

	out := buf.String()
	for _, want := range []string{"By action", "ACTION", "COUNT", "User Created", "Login Failed", "…", "(none)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, strings.Repeat("x", 60)) {
		t.Error("long cell was not truncated")
	}
}

func TestPrintKV(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintKV(&buf, "Deleted", "12", "Days kept", "90")
	out := buf.String()
	if !strings.Contains(out, "Deleted:") || !strings.Contains(out, "90") {
		t.Errorf("output = %q", out)
	}

	buf.Reset()
	PrintKV(&buf, "odd")
	if buf.Len() != 0 {
		t.Errorf("odd pair count printed %q", buf.String())
	}
}

func TestPrintJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := PrintJSON(&buf, map[string]int{"deleted": 3}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"deleted": 3`) {
		t.Errorf("output = %q", buf.String())
	}
}

func TestCountRows(t *testing.T) {
	t.Parallel()
	got := CountRows(map[string]int64{"b": 2, "a": 2, "c": 5})
	want := [][]string{{"c", "5"}, {"a", "2"}, {"b", "2"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CountRows() = %v, want %v", got, want)
	}
}

func TestFormatters(t *testing.T) {
	t.Parallel()
	empty := ""
	id := "42"
	tests := []struct {
		got, want string
	}{
		{SafeString(nil), "-"},
		{SafeString(&empty), "-"},
		{SafeString(&id), "42"},
		{FormatTime(time.Time{}), "-"},
		{FormatTime(time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)), "2026-03-01 12:30:00"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
