// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package audit

import "context"

// Fixed actions written by Joy itself.
const (
	ActionAuditCleanup      = "audit_cleanup"
	ActionAuditExport       = "audit_export"
	ActionMagicLinkAccessed = "Magic Link Accessed"
)

// Lifecycle verbs appended to the subject type, as in "User Created".
const (
	VerbCreated  = "Created"
	VerbUpdated  = "Updated"
	VerbDeleted  = "Deleted"
	VerbRestored = "Restored"
)

// ModelAction names a lifecycle action, e.g. ModelAction("User", VerbCreated)
// is "User Created".
func ModelAction(subjectType, verb string) string {
	return subjectType + " " + verb
}

// EntryOption adjusts an Entry built by one of the Log* helpers.
type EntryOption func(*Entry)

// WithWorkspace scopes the record to a workspace.
func WithWorkspace(id string) EntryOption {
	return func(e *Entry) { e.WorkspaceID = id }
}

// WithClient scopes the record to a client.
func WithClient(id string) EntryOption {
	return func(e *Entry) { e.ClientID = id }
}

// WithTags adds tags.
func WithTags(tags ...string) EntryOption {
	return func(e *Entry) { e.Tags = append(e.Tags, tags...) }
}

// WithSeverity overrides the helper's default severity.
func WithSeverity(s Severity) EntryOption {
	return func(e *Entry) { e.Severity = s }
}

// WithActor sets the principal explicitly.
func WithActor(p Principal) EntryOption {
	return func(e *Entry) { e.Actor = p }
}

// WithRequest sets request provenance explicitly.
func WithRequest(info RequestInfo) EntryOption {
	return func(e *Entry) { e.Request = &info }
}

// WithPayloads attaches request and response snapshots.
func WithPayloads(request, response any) EntryOption {
	return func(e *Entry) {
		e.RequestData = request
		e.ResponseData = response
	}
}

func (w *Writer) record(ctx context.Context, e Entry, opts []EntryOption) (*Record, error) {
	for _, opt := range opts {
		opt(&e)
	}
	return w.Record(ctx, e)
}

// LogModelCreated records "<Type> Created" with the new attributes.
func (w *Writer) LogModelCreated(ctx context.Context, subject Subject, attrs map[string]any, opts ...EntryOption) (*Record, error) {
	_, newValues := Diff(nil, attrs)
	return w.record(ctx, Entry{
		Action:    ModelAction(subject.Type, VerbCreated),
		Subject:   &subject,
		NewValues: newValues,
	}, opts)
}

// LogModelUpdated records "<Type> Updated" with only the changed attributes.
// When nothing but housekeeping columns changed it writes nothing and
// returns (nil, nil).
func (w *Writer) LogModelUpdated(ctx context.Context, subject Subject, before, after map[string]any, opts ...EntryOption) (*Record, error) {
	oldValues, newValues := Diff(before, after)
	if len(oldValues) == 0 && len(newValues) == 0 {
		return nil, nil
	}
	return w.record(ctx, Entry{
		Action:    ModelAction(subject.Type, VerbUpdated),
		Subject:   &subject,
		OldValues: oldValues,
		NewValues: newValues,
	}, opts)
}

// LogModelDeleted records "<Type> Deleted" with the last known attributes.
func (w *Writer) LogModelDeleted(ctx context.Context, subject Subject, attrs map[string]any, opts ...EntryOption) (*Record, error) {
	oldValues, _ := Diff(attrs, nil)
	return w.record(ctx, Entry{
		Action:    ModelAction(subject.Type, VerbDeleted),
		Severity:  SeverityWarning,
		Subject:   &subject,
		OldValues: oldValues,
	}, opts)
}

// LogModelRestored records "<Type> Restored" for a soft-deleted entity.
func (w *Writer) LogModelRestored(ctx context.Context, subject Subject, attrs map[string]any, opts ...EntryOption) (*Record, error) {
	_, newValues := Diff(nil, attrs)
	return w.record(ctx, Entry{
		Action:    ModelAction(subject.Type, VerbRestored),
		Subject:   &subject,
		NewValues: newValues,
	}, opts)
}

// LogUserAction records an arbitrary action by the current principal.
func (w *Writer) LogUserAction(ctx context.Context, action string, details Values, opts ...EntryOption) (*Record, error) {
	return w.record(ctx, Entry{Action: action, NewValues: details}, opts)
}

// LogMagicLinkAccessed records a client opening a magic link. The actor is
// the link itself.
func (w *Writer) LogMagicLinkAccessed(ctx context.Context, linkID string, subject *Subject, opts ...EntryOption) (*Record, error) {
	return w.record(ctx, Entry{
		Action:    ActionMagicLinkAccessed,
		Actor:     MagicLinkActor(linkID),
		Subject:   subject,
		Tags:      []string{TagMagicLink},
		NewValues: Values{"magic_link_id": linkID},
	}, opts)
}

// LogSecurityEvent records a security-relevant event tagged "security".
// Severity defaults to warning.
func (w *Writer) LogSecurityEvent(ctx context.Context, action string, severity Severity, details Values, opts ...EntryOption) (*Record, error) {
	if severity == "" {
		severity = SeverityWarning
	}
	return w.record(ctx, Entry{
		Action:    action,
		Severity:  severity,
		Tags:      []string{TagSecurity},
		NewValues: details,
	}, opts)
}

// LogAdminAction records an administrative operation tagged "admin".
func (w *Writer) LogAdminAction(ctx context.Context, action string, details Values, opts ...EntryOption) (*Record, error) {
	return w.record(ctx, Entry{
		Action:    action,
		Tags:      []string{TagAdmin},
		NewValues: details,
	}, opts)
}
