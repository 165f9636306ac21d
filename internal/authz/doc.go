// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

// Package authz authorizes admin API calls with a Casbin RBAC policy.
//
// The embedded model matches request paths with keyMatch2 and maps HTTP
// methods to the actions read and write. The embedded policy grants viewers
// read access to /api/v1/audit/* and admins everything, so only admins can
// trigger a retention cleanup. A policy file can replace the embedded one.
//
// Decisions are cached for a short TTL per (subject, object, action).
package authz
