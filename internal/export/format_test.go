// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package export

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/joy/internal/audit"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	if got := strings.Join(r.Names(), ","); got != "cef,csv,jsonl" {
		t.Errorf("Names() = %q", got)
	}
	for _, name := range []string{"csv", "CSV", " jsonl ", "cef"} {
		if _, err := r.Lookup(name); err != nil {
			t.Errorf("Lookup(%q) failed: %v", name, err)
		}
	}
	if _, err := r.Lookup("pdf"); !audit.IsValidation(err) {
		t.Errorf("Lookup(pdf) = %v, want ValidationError", err)
	}
}

func TestNeutralizeFormula(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                 "",
		"plain":            "plain",
		"=HYPERLINK(\"x\")": "'=HYPERLINK(\"x\")",
		"+1":               "'+1",
		"-2":               "'-2",
		"@SUM(A1)":         "'@SUM(A1)",
	}
	for in, want := range tests {
		if got := neutralizeFormula(in); got != want {
			t.Errorf("neutralizeFormula(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCEF(t *testing.T) {
	t.Parallel()

	actor := "7"
	ip := "192.0.2.10"
	r := &audit.Record{
		ID:        12,
		Action:    "Login|Failed",
		Severity:  audit.SeverityCritical,
		ActorID:   &actor,
		ActorType: audit.ActorUser,
		IPAddress: &ip,
		Tags:      []string{"auth", "security"},
		Subject:   &audit.Subject{Type: "User", ID: "7"},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	line := FormatCEF(r)
	wantPrefix := `CEF:0|Joy|Audit|1.0|Login\|Failed|Login\|Failed|10|`
	if !strings.HasPrefix(line, wantPrefix) {
		t.Fatalf("header = %q, want prefix %q", line, wantPrefix)
	}
	for _, part := range []string{
		"rt=1767323045000",
		"externalId=12",
		"suser=7",
		"src=192.0.2.10",
		"cs4=auth,security",
		"cs5=User#7",
	} {
		if !strings.Contains(line, part) {
			t.Errorf("line %q missing %q", line, part)
		}
	}
	if strings.Contains(line, "cs2=") {
		t.Error("empty extensions must be omitted")
	}
}

func TestCEFExtensionEscaping(t *testing.T) {
	t.Parallel()

	if got := cefExtension(`a=b\c` + "\n"); got != `a\=b\\c\n` {
		t.Errorf("cefExtension = %q", got)
	}
}
