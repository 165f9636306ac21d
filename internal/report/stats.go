// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package report

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/joy/internal/audit"
)

// Stats is the dashboard summary.
type Stats struct {
	Total          int64                    `json:"total"`
	Last24Hours    int64                    `json:"last_24_hours"`
	Last7Days      int64                    `json:"last_7_days"`
	SecurityEvents int64                    `json:"security_events_7_days"`
	BySeverity     map[audit.Severity]int64 `json:"by_severity"`
	Oldest         *time.Time               `json:"oldest"`
	Newest         *time.Time               `json:"newest"`
}

// Stats computes dashboard counters, optionally for one workspace.
func (g *Generator) Stats(ctx context.Context, workspaceID *string) (*Stats, error) {
	now := g.now().UTC()
	base := func() *audit.Query {
		q := audit.NewQuery(g.store).WithClock(func() time.Time { return now })
		if workspaceID != nil {
			q.ByWorkspace(*workspaceID)
		}
		return q
	}

	s := &Stats{BySeverity: map[audit.Severity]int64{}}
	var err error

	if s.Total, err = base().Count(ctx); err != nil {
		return nil, err
	}
	if s.Last24Hours, err = base().Since(now.Add(-24 * time.Hour)).Count(ctx); err != nil {
		return nil, err
	}
	if s.Last7Days, err = base().Recent(7).Count(ctx); err != nil {
		return nil, err
	}

	tagged, err := base().Recent(7).WithTag(audit.TagSecurity).Count(ctx)
	if err != nil {
		return nil, err
	}
	// Untagged error and critical records also count as security events.
	severe, err := base().Recent(7).MinSeverity(audit.SeverityError).Count(ctx)
	if err != nil {
		return nil, err
	}
	both, err := base().Recent(7).WithTag(audit.TagSecurity).MinSeverity(audit.SeverityError).Count(ctx)
	if err != nil {
		return nil, err
	}
	s.SecurityEvents = tagged + severe - both

	for _, sev := range audit.Severities() {
		n, err := base().BySeverity(sev).Count(ctx)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			s.BySeverity[sev] = n
		}
	}

	if s.Total == 0 {
		return s, nil
	}

	newest, err := base().First(ctx)
	if err != nil && !errors.Is(err, audit.ErrNotFound) {
		return nil, err
	}
	if newest != nil {
		s.Newest = &newest.CreatedAt
	}

	// The log is ordered newest first, so the oldest record is the last
	// one-row page.
	page, err := base().Paginate(ctx, int(s.Total), 1)
	if err != nil {
		return nil, err
	}
	if len(page.Records) > 0 {
		s.Oldest = &page.Records[0].CreatedAt
	}
	return s, nil
}
