// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

// Package query builds parameterized SQL WHERE clauses for the DuckDB stores.
//
// WhereBuilder collects conditions and their positional arguments, skipping
// filters whose value is empty:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("workspace_id", filter.WorkspaceID)
//	query.AddIn(wb, "severity", filter.Severities)
//	wb.AddTimeRange("created_at", filter.From, filter.To)
//	where, args := wb.BuildWithPrefix()
//	// WHERE workspace_id = ? AND severity IN (?,?) AND created_at >= ?
//
// Column names are always supplied by the caller's code, never by request
// input. Values only ever travel as arguments.
package query
