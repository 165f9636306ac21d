// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/joy/internal/audit"
)

const (
	// DefaultTopActors caps Report.TopActors.
	DefaultTopActors = 10

	// DefaultSecurityEvents caps Report.SecurityEvents.
	DefaultSecurityEvents = 100

	// MaxDays bounds the report window.
	MaxDays = 3650

	dayLayout = "2006-01-02"
	scanBatch = 500
)

// ActorCount is one row of the top actors table.
type ActorCount struct {
	ActorID   string          `json:"actor_id"`
	ActorType audit.ActorType `json:"actor_type"`
	Count     int64           `json:"count"`
	FirstSeen time.Time       `json:"first_seen"`
}

// Report summarizes the audit log over a window.
type Report struct {
	WindowStart      time.Time                `json:"window_start"`
	WindowEnd        time.Time                `json:"window_end"`
	WorkspaceID      *string                  `json:"workspace_id"`
	TotalEvents      int64                    `json:"total_events"`
	TotalsByAction   map[string]int64         `json:"totals_by_action"`
	TotalsBySeverity map[audit.Severity]int64 `json:"totals_by_severity"`
	TotalsBySubject  map[string]int64         `json:"totals_by_subject"`
	TotalsByDay      map[string]int64         `json:"totals_by_day"`
	TotalsByHour     map[int]int64            `json:"totals_by_hour"`
	TopActors        []ActorCount             `json:"top_actors"`
	SecurityEvents   []audit.Projection       `json:"security_events"`
}

// Generator builds reports from an audit store.
type Generator struct {
	store          audit.Store
	subjects       *SubjectRegistry
	location       *time.Location
	now            func() time.Time
	topActors      int
	securityEvents int
}

// Option configures a Generator.
type Option func(*Generator)

// WithLocation buckets days and hours in loc instead of UTC.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.location = loc
		}
	}
}

// WithSubjects names subject types in TotalsBySubject through r.
func WithSubjects(r *SubjectRegistry) Option {
	return func(g *Generator) { g.subjects = r }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator returns a Generator reading store.
func NewGenerator(store audit.Store, opts ...Option) *Generator {
	g := &Generator{
		store:          store,
		subjects:       NewSubjectRegistry(),
		location:       time.UTC,
		now:            time.Now,
		topActors:      DefaultTopActors,
		securityEvents: DefaultSecurityEvents,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate reports on the last days days, optionally restricted to one
// workspace.
func (g *Generator) Generate(ctx context.Context, workspaceID *string, days int) (*Report, error) {
	if days < 1 || days > MaxDays {
		return nil, &audit.ValidationError{
			Field:   "days",
			Message: fmt.Sprintf("must be between 1 and %d, got %d", MaxDays, days),
		}
	}

	end := g.now().UTC()
	start := end.AddDate(0, 0, -days)

	q := audit.NewQuery(g.store).Between(start, end)
	if workspaceID != nil {
		q.ByWorkspace(*workspaceID)
	}

	rep := &Report{
		WindowStart:      start,
		WindowEnd:        end,
		WorkspaceID:      workspaceID,
		TotalsByAction:   map[string]int64{},
		TotalsBySeverity: map[audit.Severity]int64{},
		TotalsBySubject:  map[string]int64{},
		TotalsByDay:      map[string]int64{},
		TotalsByHour:     map[int]int64{},
		TopActors:        []ActorCount{},
		SecurityEvents:   []audit.Projection{},
	}
	actors := map[string]*ActorCount{}

	err := q.Each(ctx, scanBatch, func(r audit.Record) error {
		rep.TotalEvents++
		rep.TotalsByAction[r.Action]++
		rep.TotalsBySeverity[r.Severity]++
		if r.Subject != nil {
			rep.TotalsBySubject[g.subjects.Name(r.Subject.Type)]++
		}

		local := r.CreatedAt.In(g.location)
		rep.TotalsByDay[local.Format(dayLayout)]++
		rep.TotalsByHour[local.Hour()]++

		if r.ActorID != nil {
			key := string(r.ActorType) + ":" + *r.ActorID
			a, ok := actors[key]
			if !ok {
				a = &ActorCount{ActorID: *r.ActorID, ActorType: r.ActorType, FirstSeen: r.CreatedAt}
				actors[key] = a
			}
			a.Count++
			// Records arrive newest first.
			if r.CreatedAt.Before(a.FirstSeen) {
				a.FirstSeen = r.CreatedAt
			}
		}

		if r.IsSecurityEvent() && len(rep.SecurityEvents) < g.securityEvents {
			rep.SecurityEvents = append(rep.SecurityEvents, audit.Project(&r))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rep.TopActors = rankActors(actors, g.topActors)
	return rep, nil
}

// rankActors orders by count desc, then earliest first-seen, then id.
func rankActors(actors map[string]*ActorCount, limit int) []ActorCount {
	out := make([]ActorCount, 0, len(actors))
	for _, a := range actors {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if !out[i].FirstSeen.Equal(out[j].FirstSeen) {
			return out[i].FirstSeen.Before(out[j].FirstSeen)
		}
		return out[i].ActorID < out[j].ActorID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
