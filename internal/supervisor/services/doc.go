// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

// Package services adapts Joy's long-running components to suture.Service.
//
//   - HTTPServerService: the API server, shut down gracefully on cancel
//   - CloserService: holds a resource open for the process lifetime and
//     closes it on cancel (the alert notifier and its NATS connection)
package services
