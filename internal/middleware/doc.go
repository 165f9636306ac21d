// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

/*
Package middleware provides chi-compatible HTTP middleware shared by Joy's
admin API.

  - RequestID: honours or generates X-Request-ID and seeds the logging context
  - Provenance: stores the caller's IP and user agent as audit.RequestInfo so
    every record written during the request carries them
  - PrometheusMetrics: request count and latency by chi route pattern
  - Compression: gzip for large responses such as audit exports

Order matters: RequestID first so that later middleware logs with the id,
Provenance before any handler that writes audit records.
*/
package middleware
