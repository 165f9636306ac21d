// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

/*
Command server runs Joy's audit service: the audit log API, the scheduled
retention cleanup and the optional NATS alert feed.

# Supervisor tree

	RootSupervisor ("joy")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── retention-cron
	├── MessagingSupervisor ("messaging-layer")
	│   └── alert-notifier
	└── APISupervisor ("api-layer")
	    └── http-server

Initialization order:

 1. Configuration (koanf: defaults, config.yaml, environment)
 2. Logging (zerolog)
 3. Database (DuckDB, audit_logs plus the magic link and sync failure tables)
 4. Audit writer, with the alert notifier attached when enabled
 5. Report, export and retention engines
 6. Authentication (JWT or none) and Casbin authorization
 7. Supervisor tree and HTTP server

# Configuration

	# Server
	HTTP_PORT=8080
	LOG_LEVEL=info                 # trace, debug, info, warn, error
	LOG_FORMAT=json                # json or console

	# Authentication
	AUTH_MODE=jwt                  # jwt or none
	JWT_SECRET=<32+ chars>

	# Retention
	AUDIT_RETENTION_DAYS=90        # minimum 30
	AUDIT_CLEANUP_SCHEDULE=@daily  # cron expression or descriptor
	AUDIT_CLEANUP_ENABLED=true
	AUDIT_REPORT_CACHE_TTL=30s     # 0 disables the report cache

	# Alerts
	ALERT_ENABLED=false
	NATS_URL=nats://127.0.0.1:4222
	ALERT_MIN_SEVERITY=error

A config.yaml (or CONFIG_PATH) is watched; editing logging.level there takes
effect without a restart.

# Signals

SIGINT and SIGTERM cancel the tree. The HTTP server drains in-flight requests
for HTTP_SHUTDOWN_TIMEOUT, the cron waits for a running cleanup, and the
database is checkpointed and closed last.
*/
package main
