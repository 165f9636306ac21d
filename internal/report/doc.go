// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

// Package report aggregates the audit log into compliance reports and
// dashboard statistics. It reads the log only through audit.Query.
package report
