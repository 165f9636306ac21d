// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Audit write path
	AuditRecordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_audit_records_written_total",
			Help: "Audit records appended, by severity",
		},
		[]string{"severity"},
	)

	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "joy_audit_write_failures_total",
			Help: "Audit appends that failed in the store",
		},
	)

	AuditEnrichmentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_audit_enrichment_failures_total",
			Help: "Non-fatal enrichment problems during audit writes",
		},
		[]string{"field"},
	)

	AuditPayloadTruncations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_audit_payload_truncations_total",
			Help: "Request or response snapshots truncated to the size cap",
		},
		[]string{"field"},
	)

	// Store
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "joy_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB statements in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_duckdb_query_errors_total",
			Help: "DuckDB statements that returned an error",
		},
		[]string{"operation", "table"},
	)

	// Retention
	CleanupDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_cleanup_deleted_total",
			Help: "Rows deleted by cleanup operations",
		},
		[]string{"operation"},
	)

	CleanupRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_cleanup_runs_total",
			Help: "Cleanup operation executions by outcome",
		},
		[]string{"operation", "status"},
	)

	CleanupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "joy_cleanup_duration_seconds",
			Help:    "Duration of cleanup operations",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"operation"},
	)

	CleanupLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "joy_cleanup_last_success_timestamp_seconds",
			Help: "Unix time of the last successful cleanup per operation",
		},
		[]string{"operation"},
	)

	// Export
	ExportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_export_rows_total",
			Help: "Rows written by audit exports, by format",
		},
		[]string{"format"},
	)

	ExportTruncations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_export_truncations_total",
			Help: "Exports cut at the row cap",
		},
		[]string{"format"},
	)

	// Alerts
	AlertsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_alerts_published_total",
			Help: "Audit alerts handed to the message broker, by outcome",
		},
		[]string{"status"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "joy_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	ReportCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_report_cache_lookups_total",
			Help: "Report cache lookups by kind and result (hit, miss)",
		},
		[]string{"kind", "result"},
	)

	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_api_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "joy_api_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_api_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	// Auth
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_auth_failures_total",
			Help: "Rejected authentication attempts by reason",
		},
		[]string{"reason"},
	)

	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "joy_authz_decisions_total",
			Help: "Authorization decisions by action and result",
		},
		[]string{"action", "result"},
	)
)

// RecordCacheLookup counts one report cache lookup.
func RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ReportCacheLookups.WithLabelValues(kind, result).Inc()
}

// RecordDBQuery observes one DuckDB statement.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordCleanup observes one cleanup operation run.
func RecordCleanup(operation string, deleted int64, duration time.Duration, err error) {
	CleanupDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		CleanupRuns.WithLabelValues(operation, "error").Inc()
		return
	}
	CleanupRuns.WithLabelValues(operation, "success").Inc()
	CleanupDeleted.WithLabelValues(operation).Add(float64(deleted))
	CleanupLastSuccess.WithLabelValues(operation).SetToCurrentTime()
}

// RecordExport observes one finished export.
func RecordExport(format string, rows int, truncated bool) {
	ExportRows.WithLabelValues(format).Add(float64(rows))
	if truncated {
		ExportTruncations.WithLabelValues(format).Inc()
	}
}

// RecordAPIRequest observes one HTTP request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
