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
	"github.com/tomtom215/joy/internal/logging"
)

const (
	// MinRetentionDays is the compliance floor for audit log cleanup.
	MinRetentionDays = 30

	// DefaultRetentionDays is used by the CLI when --days is not given.
	DefaultRetentionDays = 90
)

// Engine deletes aged audit records and audits each run.
type Engine struct {
	writer *audit.Writer
	now    func() time.Time
}

// NewEngine returns an Engine that deletes from the writer's store and
// records cleanup runs through the writer.
func NewEngine(writer *audit.Writer) *Engine {
	return &Engine{writer: writer, now: time.Now}
}

// SetClock replaces the time source. Tests only.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// ValidateDays rejects windows below the compliance floor.
func ValidateDays(days int) error {
	if days < MinRetentionDays {
		return &audit.ValidationError{
			Field:   "days",
			Message: fmt.Sprintf("retention must be at least %d days, got %d", MinRetentionDays, days),
		}
	}
	return nil
}

// Cutoff returns the instant before which records are deleted for days.
func (e *Engine) Cutoff(days int) time.Time {
	return e.now().UTC().AddDate(0, 0, -days)
}

// RunResult describes one cleanup run.
type RunResult struct {
	Cutoff  time.Time
	Deleted int64
}

// Cleanup deletes every audit record created before now minus days and
// returns the number deleted. The run itself is recorded as an audit_cleanup
// event carrying days_kept, records_deleted and triggered_by.
//
// When the deletion succeeds but the cleanup event cannot be written, the
// count is returned together with the storage error.
func (e *Engine) Cleanup(ctx context.Context, days int, triggeredBy string) (int64, error) {
	res, err := e.Run(ctx, days, triggeredBy)
	return res.Deleted, err
}

// Run is Cleanup that also reports the cutoff it deleted against.
func (e *Engine) Run(ctx context.Context, days int, triggeredBy string) (RunResult, error) {
	if err := ValidateDays(days); err != nil {
		return RunResult{}, err
	}

	res := RunResult{Cutoff: e.Cutoff(days)}
	deleted, err := e.writer.Store().DeleteBefore(ctx, res.Cutoff)
	if err != nil {
		return res, &audit.StorageError{Op: "delete", Err: err}
	}
	res.Deleted = deleted

	logging.Ctx(ctx).Info().
		Int("days_kept", days).
		Int64("records_deleted", deleted).
		Str("triggered_by", triggeredBy).
		Time("cutoff", res.Cutoff).
		Msg("Audit log cleanup completed")

	_, err = e.writer.Record(ctx, audit.Entry{
		Action:   audit.ActionAuditCleanup,
		Severity: audit.SeverityInfo,
		Tags:     []string{audit.TagSystemCleanup, audit.TagCleanup},
		NewValues: audit.Values{
			"days_kept":       days,
			"records_deleted": deleted,
			"triggered_by":    triggeredBy,
		},
	})
	if err != nil {
		return res, fmt.Errorf("cleanup deleted %d records but could not be audited: %w", deleted, err)
	}
	return res, nil
}
