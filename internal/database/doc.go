// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

/*
Package database owns Joy's DuckDB connection and the tables the retention
engine purges besides the audit log itself.

Tables:
  - audit_logs: created by audit.DuckDBStore, exposed through DB.AuditStore
  - magic_links: client approval tokens; PurgeExpiredMagicLinks removes
    links that expired before a cutoff
  - trello_sync_failures: failed outbound sync attempts; PurgeFailedSyncs
    removes unresolved failures recorded before a cutoff

Every query runs with a deadline. Callers without one get a 30 second
default (see ensureContext).

Use ":memory:" as the path for tests and ephemeral runs.
*/
package database
