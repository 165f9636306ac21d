// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package api

import (
	"context"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/cache"
	"github.com/tomtom215/joy/internal/config"
	"github.com/tomtom215/joy/internal/export"
	"github.com/tomtom215/joy/internal/report"
	"github.com/tomtom215/joy/internal/retention"
)

// HealthChecker reports whether the backing database is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Handler serves the audit endpoints.
type Handler struct {
	writer    *audit.Writer
	reports   *report.Generator
	exports   *export.Engine
	retention *retention.Engine
	subjects  *report.SubjectRegistry
	health    HealthChecker
	cache     *cache.Cache
	cfg       config.AuditConfig
}

// HandlerDeps are the collaborators of a Handler. Health may be nil. A nil
// Cache disables report caching.
type HandlerDeps struct {
	Writer    *audit.Writer
	Reports   *report.Generator
	Exports   *export.Engine
	Retention *retention.Engine
	Subjects  *report.SubjectRegistry
	Health    HealthChecker
	Cache     *cache.Cache
	Config    config.AuditConfig
}

// NewHandler creates a Handler.
func NewHandler(deps HandlerDeps) *Handler {
	if deps.Subjects == nil {
		deps.Subjects = report.NewSubjectRegistry()
	}
	if deps.Config.PageSize <= 0 {
		deps.Config.PageSize = audit.DefaultPageSize
	}
	if deps.Config.MaxPageSize < deps.Config.PageSize {
		deps.Config.MaxPageSize = deps.Config.PageSize
	}
	if deps.Config.RetentionDays <= 0 {
		deps.Config.RetentionDays = retention.DefaultRetentionDays
	}
	return &Handler{
		writer:    deps.Writer,
		reports:   deps.Reports,
		exports:   deps.Exports,
		retention: deps.Retention,
		subjects:  deps.Subjects,
		health:    deps.Health,
		cache:     deps.Cache,
		cfg:       deps.Config,
	}
}

func (h *Handler) query() *audit.Query {
	return audit.NewQuery(h.writer.Store()).WithPageSize(h.cfg.PageSize)
}
