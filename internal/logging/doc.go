// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

// Package logging provides the process-wide zerolog logger used by every Joy
// component.
//
// The logger is configured once from main via Init and accessed through the
// level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("action", "audit_cleanup").Int64("deleted", n).Msg("Cleanup finished")
//
// Request-scoped fields (request_id, correlation_id) are attached by Ctx:
//
//	logging.Ctx(ctx).Warn().Err(err).Msg("Audit write failed")
//
// Libraries that expect a *slog.Logger (sutureslog) are bridged by SlogHandler.
//
// Audit records are NOT written through this package. Operational logs and the
// audit trail are separate streams; see internal/audit.
package logging
