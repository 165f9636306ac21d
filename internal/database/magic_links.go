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

// MagicLink is a client approval token.
type MagicLink struct {
	ID          int64
	Token       string
	WorkspaceID string
	ClientID    string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

func (db *DB) createMagicLinksTable(ctx context.Context) error {
	schema := `
		CREATE SEQUENCE IF NOT EXISTS magic_links_id_seq START 1;

		CREATE TABLE IF NOT EXISTS magic_links (
			id BIGINT PRIMARY KEY DEFAULT nextval('magic_links_id_seq'),
			token TEXT NOT NULL UNIQUE,
			workspace_id TEXT NOT NULL,
			client_id TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_magic_links_expires_at ON magic_links(expires_at)
	`
	if err := execSchema(ctx, db, "magic_links", schema); err != nil {
		return fmt.Errorf("failed to create magic_links table: %w", err)
	}
	return nil
}

// InsertMagicLink stores link and sets its ID. A zero CreatedAt is set to now.
func (db *DB) InsertMagicLink(ctx context.Context, link *MagicLink) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}

	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO magic_links (token, workspace_id, client_id, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		link.Token, link.WorkspaceID, link.ClientID, link.ExpiresAt.UTC(), link.CreatedAt.UTC(),
	).Scan(&link.ID)
	metrics.RecordDBQuery("insert", "magic_links", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert magic link: %w", err)
	}
	return nil
}

// CountMagicLinks returns the number of stored links.
func (db *DB) CountMagicLinks(ctx context.Context) (int64, error) {
	return db.count(ctx, "magic_links")
}

// PurgeExpiredMagicLinks deletes links whose expiry lies before cutoff.
func (db *DB) PurgeExpiredMagicLinks(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	where, args := query.NewWhereBuilder().AddBefore("expires_at", cutoff).BuildWithPrefix()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, "DELETE FROM magic_links "+where, args...)
	metrics.RecordDBQuery("delete", "magic_links", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired magic links: %w", err)
	}
	return res.RowsAffected()
}

func (db *DB) count(ctx context.Context, table string) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var n int64
	start := time.Now()
	// table is one of this package's constants, never user input
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
	metrics.RecordDBQuery("count", table, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
