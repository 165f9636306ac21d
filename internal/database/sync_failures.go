// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/joy/internal/database/query"
	"github.com/tomtom215/joy/internal/metrics"
)

// SyncFailure is a failed outbound Trello sync attempt.
type SyncFailure struct {
	ID            int64
	ContentItemID string
	Error         string
	Attempts      int
	Resolved      bool
	CreatedAt     time.Time
}

func (db *DB) createSyncFailuresTable(ctx context.Context) error {
	schema := `
		CREATE SEQUENCE IF NOT EXISTS trello_sync_failures_id_seq START 1;

		CREATE TABLE IF NOT EXISTS trello_sync_failures (
			id BIGINT PRIMARY KEY DEFAULT nextval('trello_sync_failures_id_seq'),
			content_item_id TEXT NOT NULL,
			error TEXT NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 1,
			resolved BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_trello_sync_failures_created_at ON trello_sync_failures(created_at)
	`
	if err := execSchema(ctx, db, "trello_sync_failures", schema); err != nil {
		return fmt.Errorf("failed to create trello_sync_failures table: %w", err)
	}
	return nil
}

// InsertSyncFailure stores f and sets its ID. A zero CreatedAt is set to now.
func (db *DB) InsertSyncFailure(ctx context.Context, f *SyncFailure) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	if f.Attempts <= 0 {
		f.Attempts = 1
	}

	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO trello_sync_failures (content_item_id, error, attempts, resolved, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		f.ContentItemID, f.Error, f.Attempts, f.Resolved, f.CreatedAt.UTC(),
	).Scan(&f.ID)
	metrics.RecordDBQuery("insert", "trello_sync_failures", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert sync failure: %w", err)
	}
	return nil
}

// CountSyncFailures returns the number of stored failures.
func (db *DB) CountSyncFailures(ctx context.Context) (int64, error) {
	return db.count(ctx, "trello_sync_failures")
}

// PurgeFailedSyncs deletes unresolved failures recorded before cutoff.
// Resolved rows are kept as the sync history.
func (db *DB) PurgeFailedSyncs(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	where, args := query.NewWhereBuilder().
		AddClause("resolved = false").
		AddBefore("created_at", cutoff).
		BuildWithPrefix()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, "DELETE FROM trello_sync_failures "+where, args...)
	metrics.RecordDBQuery("delete", "trello_sync_failures", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to purge failed syncs: %w", err)
	}
	return res.RowsAffected()
}
