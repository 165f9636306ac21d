// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package audit

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Severity is the ordered urgency of a record.
type Severity string

// Severity values, in increasing order of urgency.
const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityInfo:     0,
	SeverityWarning:  1,
	SeverityError:    2,
	SeverityCritical: 3,
}

// Severities returns all severities from least to most urgent.
func Severities() []Severity {
	return []Severity{SeverityInfo, SeverityWarning, SeverityError, SeverityCritical}
}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// Rank returns the position of s in the urgency order, or -1 if unknown.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether s is as urgent as other or more.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank() && s.Valid()
}

// ParseSeverity parses a severity name, case-insensitively.
func ParseSeverity(v string) (Severity, error) {
	s := Severity(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", &ValidationError{Field: "severity", Message: fmt.Sprintf("unknown severity %q", v)}
	}
	return s, nil
}

// ActorType distinguishes who caused an event.
type ActorType string

// Actor types.
const (
	ActorUser      ActorType = "user"
	ActorMagicLink ActorType = "magic_link"
	ActorSystem    ActorType = "system"
)

// ActorTypes returns every known actor type.
func ActorTypes() []ActorType {
	return []ActorType{ActorUser, ActorMagicLink, ActorSystem}
}

// Valid reports whether t is a known actor type.
func (t ActorType) Valid() bool {
	switch t {
	case ActorUser, ActorMagicLink, ActorSystem:
		return true
	}
	return false
}

// Principal is an already-resolved actor supplied by the auth/session layer.
// The writer records it as-is.
type Principal interface {
	AuditActorID() string
	AuditActorType() ActorType
}

// Actor is the plain Principal implementation.
type Actor struct {
	ID   string
	Type ActorType
}

// AuditActorID implements Principal.
func (a Actor) AuditActorID() string { return a.ID }

// AuditActorType implements Principal.
func (a Actor) AuditActorType() ActorType { return a.Type }

// UserActor returns a staff user principal.
func UserActor(id string) Actor { return Actor{ID: id, Type: ActorUser} }

// MagicLinkActor returns a principal for a client holding a magic link token.
func MagicLinkActor(linkID string) Actor { return Actor{ID: linkID, Type: ActorMagicLink} }

// Subject is the polymorphic reference to the domain entity an event is about.
// Type is a discriminator such as "User" or "ContentItem"; ID is opaque.
type Subject struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// String renders "Type#ID".
func (s Subject) String() string { return s.Type + "#" + s.ID }

// Values maps field names to values. A record always carries non-nil Values.
type Values map[string]any

// Clone returns a shallow copy, or an empty map for nil.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Record is one immutable audit log entry.
type Record struct {
	ID           int64
	Action       string
	Subject      *Subject
	OldValues    Values
	NewValues    Values
	ActorID      *string
	ActorType    ActorType
	WorkspaceID  *string
	ClientID     *string
	Severity     Severity
	Tags         []string
	RequestData  *string
	ResponseData *string
	IPAddress    *string
	UserAgent    *string
	CreatedAt    time.Time
}

// HasTag reports whether the record carries tag.
func (r *Record) HasTag(tag string) bool {
	_, found := slices.BinarySearch(r.Tags, tag)
	return found
}

// IsSecurityEvent reports whether the record belongs to the security view:
// tagged "security" or of severity error or critical.
func (r *Record) IsSecurityEvent() bool {
	return r.HasTag(TagSecurity) || r.Severity.AtLeast(SeverityError)
}

// Well-known tags.
const (
	TagSecurity      = "security"
	TagMagicLink     = "magic_link"
	TagAdmin         = "admin"
	TagExport        = "export"
	TagCleanup       = "cleanup"
	TagSystemCleanup = "system_cleanup"
)

// normalizeTags trims, drops empties, de-duplicates and sorts.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Filter is the conjunction of predicates understood by a Store.
// Zero-valued fields do not constrain the result.
type Filter struct {
	ActorID     string
	ActorTypes  []ActorType
	SubjectType string
	SubjectID   string
	Actions     []string
	Severities  []Severity
	WorkspaceID string
	ClientID    string
	Tag         string
	Search      string
	From        *time.Time
	To          *time.Time
	Cursor      *Cursor
	Limit       int
	Offset      int
}

// Empty reports whether the time window cannot match anything.
func (f *Filter) Empty() bool {
	return f.From != nil && f.To != nil && f.From.After(*f.To)
}

// Matches evaluates f against r, ignoring Limit and Offset.
func (f *Filter) Matches(r *Record) bool {
	if f.Empty() {
		return false
	}
	if f.ActorID != "" && (r.ActorID == nil || *r.ActorID != f.ActorID) {
		return false
	}
	if len(f.ActorTypes) > 0 && !slices.Contains(f.ActorTypes, r.ActorType) {
		return false
	}
	if f.SubjectType != "" && (r.Subject == nil || r.Subject.Type != f.SubjectType) {
		return false
	}
	if f.SubjectID != "" && (r.Subject == nil || r.Subject.ID != f.SubjectID) {
		return false
	}
	if len(f.Actions) > 0 && !slices.Contains(f.Actions, r.Action) {
		return false
	}
	if len(f.Severities) > 0 && !slices.Contains(f.Severities, r.Severity) {
		return false
	}
	if f.WorkspaceID != "" && (r.WorkspaceID == nil || *r.WorkspaceID != f.WorkspaceID) {
		return false
	}
	if f.ClientID != "" && (r.ClientID == nil || *r.ClientID != f.ClientID) {
		return false
	}
	if f.Tag != "" && !r.HasTag(f.Tag) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(r.Action), strings.ToLower(f.Search)) {
		return false
	}
	if f.From != nil && r.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && r.CreatedAt.After(*f.To) {
		return false
	}
	if f.Cursor != nil && !Less(&Record{CreatedAt: f.Cursor.CreatedAt, ID: f.Cursor.ID}, r) {
		return false
	}
	return true
}

// Store persists records. Implementations must be safe for concurrent use and
// return records ordered by (CreatedAt desc, ID desc).
type Store interface {
	// Append stores rec and assigns its ID.
	Append(ctx context.Context, rec *Record) error

	// Get returns ErrNotFound when no record has the id.
	Get(ctx context.Context, id int64) (*Record, error)

	Find(ctx context.Context, filter Filter) ([]Record, error)
	Count(ctx context.Context, filter Filter) (int64, error)

	// DeleteBefore removes every record created strictly before cutoff.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Less reports whether a sorts before b in log order (newest first).
func Less(a, b *Record) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
