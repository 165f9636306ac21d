// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

/*
Package api serves the audit log admin HTTP API.

Routes (all under /api/v1/audit, authenticated and authorized):

	GET  /logs          paginated list; filters as query parameters
	GET  /logs/{id}     one record including request/response snapshots
	GET  /dashboard     stats, latest records and recent security events
	GET  /report        activity report (?days=30&workspace_id=)
	GET  /stats         severity and action totals for a window
	GET  /export        streamed export (?format=csv|jsonl|cef plus filters)
	POST /cleanup       retention cleanup (admin only; {"days": 90})
	GET  /meta          vocabularies for filter UIs

Unauthenticated: GET /healthz and GET /metrics.

Every JSON response uses the same envelope:

	{"success": true,  "data": ..., "meta": {...}}
	{"success": false, "error": {"code": "VALIDATION_FAILED", "message": "..."}, "meta": {...}}

Validation errors map to 422, unknown records to 404, store failures to 500.
*/
package api
