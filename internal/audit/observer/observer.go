// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

// Package observer turns domain model lifecycle hooks into audit records.
//
// Repositories call the Observer after a create, update, delete or restore has
// been committed. Writes are best-effort: a failing audit store is logged and
// never fails the domain operation.
package observer

import (
	"context"
	"slices"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/logging"
)

// Tracked is a domain model whose lifecycle is audited.
type Tracked interface {
	AuditSubject() audit.Subject
	AuditAttributes() map[string]any
}

// Scoped models belong to a workspace and optionally a client.
type Scoped interface {
	AuditWorkspaceID() string
	AuditClientID() string
}

// Redacted models name attributes that must never reach the log, such as
// password hashes or magic link tokens.
type Redacted interface {
	AuditHidden() []string
}

// Observer records lifecycle events through an injected writer.
type Observer struct {
	writer *audit.Writer
}

// New creates an Observer.
func New(w *audit.Writer) *Observer {
	return &Observer{writer: w}
}

// Created records "<Type> Created".
func (o *Observer) Created(ctx context.Context, m Tracked) *audit.Record {
	rec, err := o.writer.LogModelCreated(ctx, m.AuditSubject(), attributes(m), scope(m)...)
	return audit.BestEffort(ctx, rec, err)
}

// Updated records "<Type> Updated" with the attributes that differ from
// before. Saves that changed nothing, or only housekeeping timestamps, write
// nothing.
func (o *Observer) Updated(ctx context.Context, before map[string]any, m Tracked) *audit.Record {
	after := attributes(m)
	before = redact(before, hidden(m))

	oldValues, newValues := audit.Diff(before, after)
	if len(oldValues) == 0 && len(newValues) == 0 {
		logging.Ctx(ctx).Debug().Str("subject", m.AuditSubject().String()).Msg("Skipping audit for no-op save")
		return nil
	}

	rec, err := o.writer.LogModelUpdated(ctx, m.AuditSubject(), before, after, scope(m)...)
	return audit.BestEffort(ctx, rec, err)
}

// Deleted records "<Type> Deleted" with the last known attributes.
func (o *Observer) Deleted(ctx context.Context, m Tracked) *audit.Record {
	rec, err := o.writer.LogModelDeleted(ctx, m.AuditSubject(), attributes(m), scope(m)...)
	return audit.BestEffort(ctx, rec, err)
}

// Restored records "<Type> Restored".
func (o *Observer) Restored(ctx context.Context, m Tracked) *audit.Record {
	rec, err := o.writer.LogModelRestored(ctx, m.AuditSubject(), attributes(m), scope(m)...)
	return audit.BestEffort(ctx, rec, err)
}

func attributes(m Tracked) map[string]any {
	return redact(m.AuditAttributes(), hidden(m))
}

func hidden(m Tracked) []string {
	if r, ok := m.(Redacted); ok {
		return r.AuditHidden()
	}
	return nil
}

func redact(attrs map[string]any, hide []string) map[string]any {
	if len(hide) == 0 {
		return attrs
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if !slices.Contains(hide, k) {
			out[k] = v
		}
	}
	return out
}

func scope(m Tracked) []audit.EntryOption {
	s, ok := m.(Scoped)
	if !ok {
		return nil
	}
	return []audit.EntryOption{audit.WithWorkspace(s.AuditWorkspaceID()), audit.WithClient(s.AuditClientID())}
}
