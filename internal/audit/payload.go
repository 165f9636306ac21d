// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package audit

import (
	"unicode/utf8"

	"github.com/goccy/go-json"
)

const (
	// MaxPayloadBytes caps request_data and response_data.
	MaxPayloadBytes = 65535

	// TruncationMarker terminates a payload that was cut to fit.
	TruncationMarker = "...[truncated]"
)

// TruncatePayload shortens s so that it fits in limit bytes including the
// marker. The cut lands on a rune boundary. The second result reports whether
// s was shortened.
func TruncatePayload(s string, limit int) (string, bool) {
	if limit <= 0 {
		limit = MaxPayloadBytes
	}
	if len(s) <= limit {
		return s, false
	}
	end := limit - len(TruncationMarker)
	if end < 0 {
		end = 0
	}
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end] + TruncationMarker, true
}

// encodePayload renders a request/response snapshot as text. Strings and
// byte slices are taken verbatim; anything else is JSON encoded.
func encodePayload(v any) (string, error) {
	switch p := v.(type) {
	case nil:
		return "", nil
	case string:
		return p, nil
	case []byte:
		return string(p), nil
	case json.RawMessage:
		return string(p), nil
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
