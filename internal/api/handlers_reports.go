// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/cache"
	"github.com/tomtom215/joy/internal/metrics"
	"github.com/tomtom215/joy/internal/report"
)

const (
	defaultReportDays = 30
	dashboardRecent   = 10
	dashboardSecurity = 5
	dashboardDays     = 7
)

// DashboardResponse is the payload of GET /dashboard.
type DashboardResponse struct {
	Stats          *report.Stats      `json:"stats"`
	Recent         []audit.Projection `json:"recent"`
	SecurityEvents []audit.Projection `json:"security_events"`
}

// StatsResponse is the payload of GET /stats.
type StatsResponse struct {
	Days             int                      `json:"days"`
	Total            int64                    `json:"total"`
	TotalsBySeverity map[audit.Severity]int64 `json:"totals_by_severity"`
	TotalsByAction   map[string]int64         `json:"totals_by_action"`
}

// Dashboard handles GET /api/v1/audit/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	ctx := r.Context()
	workspace := workspaceParam(r)

	stats, err := h.dashboardStats(ctx, workspace)
	if err != nil {
		rw.AuditError(err)
		return
	}

	recentQ := h.query()
	if workspace != nil {
		recentQ.ByWorkspace(*workspace)
	}
	recent, err := recentQ.Clone().Limit(ctx, dashboardRecent)
	if err != nil {
		rw.AuditError(err)
		return
	}

	security, err := recentQ.Clone().MinSeverity(audit.SeverityError).Recent(dashboardDays).Limit(ctx, dashboardSecurity)
	if err != nil {
		rw.AuditError(err)
		return
	}
	tagged, err := recentQ.Clone().WithTag(audit.TagSecurity).Recent(dashboardDays).Limit(ctx, dashboardSecurity)
	if err != nil {
		rw.AuditError(err)
		return
	}

	rw.Success(DashboardResponse{
		Stats:          stats,
		Recent:         audit.ProjectAll(recent),
		SecurityEvents: audit.ProjectAll(mergeNewest(security, tagged, dashboardSecurity)),
	})
}

// Report handles GET /api/v1/audit/report?days=30&workspace_id=.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	days, err := intParam(r, "days", defaultReportDays)
	if err != nil {
		rw.AuditError(err)
		return
	}

	rep, err := h.generateReport(r.Context(), workspaceParam(r), days)
	if err != nil {
		rw.AuditError(err)
		return
	}
	rw.Success(rep)
}

// Stats handles GET /api/v1/audit/stats?days=30&workspace_id=.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	days, err := intParam(r, "days", defaultReportDays)
	if err != nil {
		rw.AuditError(err)
		return
	}

	rep, err := h.generateReport(r.Context(), workspaceParam(r), days)
	if err != nil {
		rw.AuditError(err)
		return
	}
	rw.Success(StatsResponse{
		Days:             days,
		Total:            rep.TotalEvents,
		TotalsBySeverity: rep.TotalsBySeverity,
		TotalsByAction:   rep.TotalsByAction,
	})
}

// generateReport returns a cached report for (workspace, days) when one is
// still fresh.
func (h *Handler) generateReport(ctx context.Context, workspace *string, days int) (*report.Report, error) {
	key := cache.GenerateKey("report", reportKey(workspace, days))
	if h.cache != nil {
		v, ok := h.cache.Get(key)
		metrics.RecordCacheLookup("report", ok)
		if ok {
			return v.(*report.Report), nil
		}
	}
	rep, err := h.reports.Generate(ctx, workspace, days)
	if err != nil {
		return nil, err
	}
	h.cacheStore(key, rep)
	return rep, nil
}

func (h *Handler) dashboardStats(ctx context.Context, workspace *string) (*report.Stats, error) {
	key := cache.GenerateKey("stats", reportKey(workspace, 0))
	if h.cache != nil {
		v, ok := h.cache.Get(key)
		metrics.RecordCacheLookup("stats", ok)
		if ok {
			return v.(*report.Stats), nil
		}
	}
	stats, err := h.reports.Stats(ctx, workspace)
	if err != nil {
		return nil, err
	}
	h.cacheStore(key, stats)
	return stats, nil
}

// cacheStore adds v after dropping expired entries.
func (h *Handler) cacheStore(key string, v interface{}) {
	if h.cache == nil {
		return
	}
	h.cache.Sweep()
	h.cache.Set(key, v)
}

func reportKey(workspace *string, days int) map[string]interface{} {
	params := map[string]interface{}{"days": days}
	if workspace != nil {
		params["workspace_id"] = *workspace
	}
	return params
}

// mergeNewest merges two log-ordered slices, dropping duplicates, and keeps
// the first limit records.
func mergeNewest(a, b []audit.Record, limit int) []audit.Record {
	out := make([]audit.Record, 0, min(len(a)+len(b), limit))
	seen := make(map[int64]struct{}, len(a)+len(b))
	i, j := 0, 0
	for len(out) < limit && (i < len(a) || j < len(b)) {
		var next audit.Record
		switch {
		case j >= len(b) || (i < len(a) && audit.Less(&a[i], &b[j])):
			next = a[i]
			i++
		default:
			next = b[j]
			j++
		}
		if _, dup := seen[next.ID]; dup {
			continue
		}
		seen[next.ID] = struct{}{}
		out = append(out, next)
	}
	return out
}
