// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package api

import (
	"net/http"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/retention"
)

// SubjectType is one entry of the subject filter.
type SubjectType struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// MetaResponse lists the vocabularies of the filter UI.
type MetaResponse struct {
	Severities    []audit.Severity  `json:"severities"`
	ActorTypes    []audit.ActorType `json:"actor_types"`
	SubjectTypes  []SubjectType     `json:"subject_types"`
	ExportFormats []string          `json:"export_formats"`
	Retention     RetentionMeta     `json:"retention"`
}

// RetentionMeta describes the retention policy.
type RetentionMeta struct {
	MinDays        int `json:"min_days"`
	ConfiguredDays int `json:"configured_days"`
}

// Meta handles GET /api/v1/audit/meta.
func (h *Handler) Meta(w http.ResponseWriter, r *http.Request) {
	types := h.subjects.Types()
	subjects := make([]SubjectType, len(types))
	for i, t := range types {
		subjects[i] = SubjectType{Type: t, Name: h.subjects.Name(t)}
	}

	NewResponseWriter(w, r).Success(MetaResponse{
		Severities:    audit.Severities(),
		ActorTypes:    audit.ActorTypes(),
		SubjectTypes:  subjects,
		ExportFormats: h.exports.Formats().Names(),
		Retention: RetentionMeta{
			MinDays:        retention.MinRetentionDays,
			ConfiguredDays: h.cfg.RetentionDays,
		},
	})
}
