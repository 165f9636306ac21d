// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

/*
Package retention deletes audit records and other retained rows once they age
out, subject to a compliance floor.

Engine.Cleanup is the audit log entry point. It rejects windows below
MinRetentionDays before touching the store, deletes every record created
strictly before now minus the window, and then records its own run as an
"audit_cleanup" event.

The same contract is shared by a closed set of operations:

  - AuditLogs: the audit log itself, through Engine
  - ExpiredMagicLinks: client approval tokens, through a TokenPurger
  - FailedSyncs: unresolved Trello sync failures, through a SyncFailurePurger

A Scheduler runs a list of Jobs (operation plus window) and aggregates their
results. CronService drives a Scheduler from a cron expression under the
supervisor tree.

Running any operation twice with no new qualifying rows deletes nothing and
is not an error.
*/
package retention
