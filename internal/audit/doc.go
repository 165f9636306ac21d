// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

// Package audit is Joy's append-only audit log.
//
// A Record captures one model lifecycle change or security-relevant action.
// Records are immutable: nothing updates them, and only the retention engine
// (internal/retention) deletes them.
//
// # Writing
//
// Collaborators hold an injected *Writer and call Record or one of the thin
// helpers:
//
//	w := audit.NewWriter(store, audit.WriterConfig{})
//	_, err := w.LogModelUpdated(ctx, audit.Subject{Type: "User", ID: "42"}, before, after)
//
// The actor comes from the Principal attached to ctx by the auth layer, and the
// IP address and user agent from the RequestInfo attached by the HTTP
// middleware. Missing context is recorded as null and never fails the write.
// Only validation and storage errors are returned; domain code that must not
// fail because of auditing wraps the call in BestEffort.
//
// # Reading
//
// Query accumulates predicates and terminates with Get, Paginate, Count or
// Each. Results are always ordered by created_at then id, both descending,
// which gives a stable total order for pagination.
//
// # Storage
//
// MemoryStore backs tests and dry runs; DuckDBStore persists to the
// audit_logs table.
package audit
