// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/joy/internal/audit"
)

// Operation names.
const (
	OpAuditLogs         = "audit_logs"
	OpExpiredMagicLinks = "expired_magic_links"
	OpFailedSyncs       = "failed_syncs"
)

// Result is the outcome of one operation run.
type Result struct {
	OperationName string `json:"operation_name"`
	DeletedCount  int64  `json:"deleted_count"`
}

// Operation is one kind of retained resource that can be purged by age.
// The set is closed: AuditLogs, ExpiredMagicLinks and FailedSyncs.
type Operation interface {
	Name() string
	Execute(ctx context.Context, days int) (Result, error)

	sealed()
}

// TokenPurger deletes magic links that expired before cutoff.
type TokenPurger interface {
	PurgeExpiredMagicLinks(ctx context.Context, cutoff time.Time) (int64, error)
}

// SyncFailurePurger deletes unresolved sync failures recorded before cutoff.
type SyncFailurePurger interface {
	PurgeFailedSyncs(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditLogs purges the audit log through an Engine.
type AuditLogs struct {
	engine      *Engine
	triggeredBy string
}

// NewAuditLogs returns the audit log operation. triggeredBy is recorded on
// every cleanup event it produces.
func NewAuditLogs(engine *Engine, triggeredBy string) *AuditLogs {
	return &AuditLogs{engine: engine, triggeredBy: triggeredBy}
}

func (*AuditLogs) Name() string { return OpAuditLogs }

func (a *AuditLogs) Execute(ctx context.Context, days int) (Result, error) {
	n, err := a.engine.Cleanup(ctx, days, a.triggeredBy)
	return Result{OperationName: OpAuditLogs, DeletedCount: n}, err
}

func (*AuditLogs) sealed() {}

// ExpiredMagicLinks removes magic links that expired more than days ago.
type ExpiredMagicLinks struct {
	purger TokenPurger
	now    func() time.Time
}

// NewExpiredMagicLinks returns the magic link operation.
func NewExpiredMagicLinks(p TokenPurger) *ExpiredMagicLinks {
	return &ExpiredMagicLinks{purger: p, now: time.Now}
}

func (*ExpiredMagicLinks) Name() string { return OpExpiredMagicLinks }

func (m *ExpiredMagicLinks) Execute(ctx context.Context, days int) (Result, error) {
	res := Result{OperationName: OpExpiredMagicLinks}
	if err := validateWindow(days); err != nil {
		return res, err
	}
	n, err := m.purger.PurgeExpiredMagicLinks(ctx, m.now().UTC().AddDate(0, 0, -days))
	if err != nil {
		return res, &audit.StorageError{Op: "purge magic links", Err: err}
	}
	res.DeletedCount = n
	return res, nil
}

func (*ExpiredMagicLinks) sealed() {}

// FailedSyncs removes unresolved sync failures older than days.
type FailedSyncs struct {
	purger SyncFailurePurger
	now    func() time.Time
}

// NewFailedSyncs returns the sync failure operation.
func NewFailedSyncs(p SyncFailurePurger) *FailedSyncs {
	return &FailedSyncs{purger: p, now: time.Now}
}

func (*FailedSyncs) Name() string { return OpFailedSyncs }

func (f *FailedSyncs) Execute(ctx context.Context, days int) (Result, error) {
	res := Result{OperationName: OpFailedSyncs}
	if err := validateWindow(days); err != nil {
		return res, err
	}
	n, err := f.purger.PurgeFailedSyncs(ctx, f.now().UTC().AddDate(0, 0, -days))
	if err != nil {
		return res, &audit.StorageError{Op: "purge failed syncs", Err: err}
	}
	res.DeletedCount = n
	return res, nil
}

func (*FailedSyncs) sealed() {}

// validateWindow applies to the non-audit operations, which have no
// compliance floor beyond a positive window.
func validateWindow(days int) error {
	if days < 1 {
		return &audit.ValidationError{Field: "days", Message: fmt.Sprintf("days must be at least 1, got %d", days)}
	}
	return nil
}
