// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package audit

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncatePayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		limit   int
		wantCut bool
	}{
		{"short", "hello", 100, false},
		{"exact", strings.Repeat("x", 20), 20, false},
		{"over", strings.Repeat("x", 21), 20, true},
		{"multibyte boundary", strings.Repeat("é", 30), 25, true},
		{"default limit", strings.Repeat("y", MaxPayloadBytes+1), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, cut := TruncatePayload(tt.in, tt.limit)
			if cut != tt.wantCut {
				t.Fatalf("cut = %v, want %v", cut, tt.wantCut)
			}
			limit := tt.limit
			if limit <= 0 {
				limit = MaxPayloadBytes
			}
			if len(got) > limit {
				t.Errorf("len = %d exceeds %d", len(got), limit)
			}
			if !utf8.ValidString(got) {
				t.Error("result is not valid UTF-8")
			}
			if cut && !strings.HasSuffix(got, TruncationMarker) {
				t.Error("missing truncation marker")
			}
		})
	}
}
