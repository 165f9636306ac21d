// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

// Package metrics declares the Prometheus collectors exported on /metrics.
//
// Collectors are package-level and registered with the default registry via
// promauto. Callers use the Record* helpers rather than touching label values
// directly so label sets stay consistent.
package metrics
