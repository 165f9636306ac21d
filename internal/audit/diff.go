// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package audit

import (
	"bytes"
	"reflect"
	"slices"

	"github.com/goccy/go-json"
)

// DefaultIgnoredFields are housekeeping columns that never make a change
// loggable on their own.
var DefaultIgnoredFields = []string{"created_at", "updated_at", "deleted_at"}

// Diff returns the changed attributes between before and after, skipping
// DefaultIgnoredFields. Both results contain exactly the changed keys; a key
// missing on one side is reported with a nil value on that side.
func Diff(before, after map[string]any) (oldValues, newValues Values) {
	return DiffIgnoring(before, after, DefaultIgnoredFields)
}

// DiffIgnoring is Diff with a caller-chosen ignore list.
func DiffIgnoring(before, after map[string]any, ignored []string) (oldValues, newValues Values) {
	oldValues, newValues = Values{}, Values{}

	for k, av := range after {
		if slices.Contains(ignored, k) {
			continue
		}
		bv, ok := before[k]
		if ok && equalValues(bv, av) {
			continue
		}
		oldValues[k] = bv
		newValues[k] = av
	}
	for k, bv := range before {
		if slices.Contains(ignored, k) {
			continue
		}
		if _, ok := after[k]; !ok {
			oldValues[k] = bv
			newValues[k] = nil
		}
	}
	return oldValues, newValues
}

// equalValues compares by JSON form so that 1, int64(1) and 1.0 are equal,
// matching how values read back from storage.
func equalValues(a, b any) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(ja, jb)
}
