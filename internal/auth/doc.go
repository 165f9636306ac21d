// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

/*
Package auth resolves the caller of the admin API into an audit principal.

Joy's session layer issues HS256 JWTs for staff users and magic link holders.
The middleware validates the bearer token (or the "token" cookie), builds a
Subject from its claims and stores it in the request context twice: once for
authorization decisions (GetAuthSubject) and once as the audit.Principal that
the audit writer attributes records to.

Modes:

  - jwt: a valid token is required on every protected route
  - none: every request runs as a local development admin; rejected by
    config validation in production
*/
package auth
