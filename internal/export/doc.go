// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

/*
Package export streams filtered audit records to CSV, JSON Lines or CEF.

Formats are looked up by name in a Registry. Each format hands out a
RowWriter with an Open/Write/Close lifecycle, so new formats plug in without
touching the Engine.

Engine.Export walks the query with a cursor and stops after MaxRows records
(10,000 by default). When more records matched, Result.Truncated is set and
HTTP callers surface it as the X-Export-Truncated header. Every export is
recorded in the audit log as an audit_export event tagged export.
*/
package export
