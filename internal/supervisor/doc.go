// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

/*
Package supervisor runs Joy's long-lived services under a suture v4 tree.

# Layout

	RootSupervisor ("joy")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── retention.CronService (if AUDIT_CLEANUP_ENABLED)
	├── MessagingSupervisor ("messaging-layer")
	│   └── CloserService "alert-notifier" (if ALERTS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed cleanup run or a lost NATS connection is restarted inside its own
layer and never takes the API down with it.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMaintenanceService(cronService)
	tree.AddAPIService(services.NewHTTPServerService(server, 15*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

# Return values

A service returning nil has finished and is not restarted. Any other error is
a crash and triggers a restart with suture's decaying failure counter; after
FailureThreshold failures within the decay window the layer backs off for
FailureBackoff.

DuckDB is not supervised. It is an embedded library opened once in main and
closed after the tree stops.
*/
package supervisor
