// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package audit

import "time"

// Projection is the JSON shape of a record served to the API and UI.
type Projection struct {
	ID          int64     `json:"id"`
	Action      string    `json:"action"`
	SubjectType *string   `json:"subject_type"`
	SubjectID   *string   `json:"subject_id"`
	OldValues   Values    `json:"old_values"`
	NewValues   Values    `json:"new_values"`
	WorkspaceID *string   `json:"workspace_id"`
	ClientID    *string   `json:"client_id"`
	ActorID     *string   `json:"actor_id"`
	ActorType   ActorType `json:"actor_type"`
	Severity    Severity  `json:"severity"`
	Tags        []string  `json:"tags"`
	IPAddress   *string   `json:"ip_address"`
	UserAgent   *string   `json:"user_agent"`
	CreatedAt   time.Time `json:"created_at"`
}

// DetailProjection adds the request/response snapshots, served only by the
// single-record endpoint.
type DetailProjection struct {
	Projection
	RequestData  *string `json:"request_data"`
	ResponseData *string `json:"response_data"`
}

// Project converts r to its JSON projection. Value maps and tags are never
// null in the output.
func Project(r *Record) Projection {
	p := Projection{
		ID:          r.ID,
		Action:      r.Action,
		OldValues:   r.OldValues,
		NewValues:   r.NewValues,
		WorkspaceID: r.WorkspaceID,
		ClientID:    r.ClientID,
		ActorID:     r.ActorID,
		ActorType:   r.ActorType,
		Severity:    r.Severity,
		Tags:        r.Tags,
		IPAddress:   r.IPAddress,
		UserAgent:   r.UserAgent,
		CreatedAt:   r.CreatedAt,
	}
	if r.Subject != nil {
		p.SubjectType = &r.Subject.Type
		p.SubjectID = &r.Subject.ID
	}
	if p.OldValues == nil {
		p.OldValues = Values{}
	}
	if p.NewValues == nil {
		p.NewValues = Values{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}

// ProjectDetail converts r including payload snapshots.
func ProjectDetail(r *Record) DetailProjection {
	return DetailProjection{
		Projection:   Project(r),
		RequestData:  r.RequestData,
		ResponseData: r.ResponseData,
	}
}

// ProjectAll converts a slice of records.
func ProjectAll(records []Record) []Projection {
	out := make([]Projection, len(records))
	for i := range records {
		out[i] = Project(&records[i])
	}
	return out
}
