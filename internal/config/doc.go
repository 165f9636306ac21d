// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

/*
Package config loads and validates Joy's audit service configuration.

Configuration is layered with Koanf v2, highest priority last:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/joy/config.yaml)
 3. Environment variables (see envTransformFunc for the mapping)

# Sections

  - database: DuckDB file path and pool sizing
  - server: HTTP listener and timeouts
  - audit: retention, cleanup schedule, paging, export caps, payload limit
  - security: JWT secret, CORS origins, rate limiting
  - alert: NATS fan-out of high-severity audit records
  - logging: zerolog level and format

# Retention Floor

Audit records are kept for at least MinRetentionDays (30). Validate rejects a
configuration with a lower audit.retention_days, and the retention engine
enforces the same floor for manual runs.

# Example

	export DUCKDB_PATH=/data/joy.duckdb
	export AUDIT_RETENTION_DAYS=180
	export AUDIT_CLEANUP_SCHEDULE="0 3 * * *"
	export JWT_SECRET=$(openssl rand -base64 32)
	./joy-server
*/
package config
