// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package audit

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 50

// Cursor identifies a position in log order. A filter with a cursor matches
// only records that sort strictly after it (older, or same time and lower id).
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

// CursorOf returns the position of rec.
func CursorOf(rec *Record) *Cursor {
	return &Cursor{CreatedAt: rec.CreatedAt, ID: rec.ID}
}

// Query accumulates predicates over a Store. Predicates combine with AND.
// Results are ordered by created_at descending, then id descending.
//
//	recs, err := audit.NewQuery(store).ByAction("User Created").Recent(7).Get(ctx)
type Query struct {
	store    Store
	filter   Filter
	pageSize int
	now      func() time.Time
}

// NewQuery starts an unconstrained query.
func NewQuery(store Store) *Query {
	return &Query{
		store:    store,
		pageSize: DefaultPageSize,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Clone returns an independent copy of q.
func (q *Query) Clone() *Query {
	c := *q
	c.filter.ActorTypes = append([]ActorType(nil), q.filter.ActorTypes...)
	c.filter.Actions = append([]string(nil), q.filter.Actions...)
	c.filter.Severities = append([]Severity(nil), q.filter.Severities...)
	return &c
}

// Filter returns the accumulated filter.
func (q *Query) Filter() Filter { return q.filter }

// WithPageSize sets the default page size used by Paginate.
func (q *Query) WithPageSize(n int) *Query {
	if n > 0 {
		q.pageSize = n
	}
	return q
}

// WithClock replaces the time source used by Recent.
func (q *Query) WithClock(now func() time.Time) *Query {
	q.now = now
	return q
}

// ByActor matches the acting principal id.
func (q *Query) ByActor(id string) *Query {
	q.filter.ActorID = id
	return q
}

// ByActorType matches any of the given actor types.
func (q *Query) ByActorType(types ...ActorType) *Query {
	q.filter.ActorTypes = append(q.filter.ActorTypes, types...)
	return q
}

// BySubject matches one entity. An empty id matches every entity of the type.
func (q *Query) BySubject(subjectType, id string) *Query {
	q.filter.SubjectType = subjectType
	q.filter.SubjectID = id
	return q
}

// ByAction matches any of the given actions exactly.
func (q *Query) ByAction(actions ...string) *Query {
	q.filter.Actions = append(q.filter.Actions, actions...)
	return q
}

// BySeverity matches any of the given severities.
func (q *Query) BySeverity(severities ...Severity) *Query {
	q.filter.Severities = append(q.filter.Severities, severities...)
	return q
}

// MinSeverity matches severity s and everything more urgent.
func (q *Query) MinSeverity(s Severity) *Query {
	for _, candidate := range Severities() {
		if candidate.AtLeast(s) {
			q.filter.Severities = append(q.filter.Severities, candidate)
		}
	}
	return q
}

// ByWorkspace scopes to one workspace.
func (q *Query) ByWorkspace(id string) *Query {
	q.filter.WorkspaceID = id
	return q
}

// ByClient scopes to one client.
func (q *Query) ByClient(id string) *Query {
	q.filter.ClientID = id
	return q
}

// WithTag matches records carrying tag.
func (q *Query) WithTag(tag string) *Query {
	q.filter.Tag = tag
	return q
}

// Search matches a case-insensitive substring of the action.
func (q *Query) Search(text string) *Query {
	q.filter.Search = strings.TrimSpace(text)
	return q
}

// Between matches created_at in [from, to]. from after to yields no rows.
func (q *Query) Between(from, to time.Time) *Query {
	q.filter.From = &from
	q.filter.To = &to
	return q
}

// Since matches created_at >= from.
func (q *Query) Since(from time.Time) *Query {
	q.filter.From = &from
	return q
}

// Until matches created_at <= to.
func (q *Query) Until(to time.Time) *Query {
	q.filter.To = &to
	return q
}

// Recent matches the last days days, anchored at now.
func (q *Query) Recent(days int) *Query {
	return q.Since(q.now().AddDate(0, 0, -days))
}

// After restricts to records older than the cursor.
func (q *Query) After(c *Cursor) *Query {
	q.filter.Cursor = c
	return q
}

// Apply adds predicates from loosely typed parameters such as URL query
// values. Unknown keys are ignored. Malformed values of known keys return a
// *ValidationError. Keys are applied in sorted order. When several keys bound
// the same side of the time window (from, days, aliases), the narrowest wins.
func (q *Query) Apply(params map[string]string) (*Query, error) {
	for _, key := range slices.Sorted(maps.Keys(params)) {
		raw := params[key]
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		switch key {
		case "actor_id", "user_id":
			q.ByActor(v)
		case "actor_type":
			t := ActorType(v)
			if !t.Valid() {
				return q, &ValidationError{Field: key, Message: "unknown actor type " + strconv.Quote(v)}
			}
			q.ByActorType(t)
		case "subject_type", "auditable_type":
			q.filter.SubjectType = v
		case "subject_id", "auditable_id":
			q.filter.SubjectID = v
		case "action", "event":
			q.ByAction(v)
		case "severity":
			s, err := ParseSeverity(v)
			if err != nil {
				return q, err
			}
			q.BySeverity(s)
		case "min_severity":
			s, err := ParseSeverity(v)
			if err != nil {
				return q, err
			}
			q.MinSeverity(s)
		case "workspace_id":
			q.ByWorkspace(v)
		case "client_id":
			q.ByClient(v)
		case "tag":
			q.WithTag(v)
		case "search", "q":
			q.Search(v)
		case "from", "date_from", "start_date":
			t, err := parseTime(v, false)
			if err != nil {
				return q, &ValidationError{Field: key, Message: err.Error()}
			}
			q.narrowFrom(t)
		case "to", "date_to", "end_date":
			t, err := parseTime(v, true)
			if err != nil {
				return q, &ValidationError{Field: key, Message: err.Error()}
			}
			q.narrowTo(t)
		case "days":
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return q, &ValidationError{Field: key, Message: "must be a positive integer"}
			}
			q.narrowFrom(q.now().AddDate(0, 0, -n))
		}
	}
	return q, nil
}

func (q *Query) narrowFrom(t time.Time) {
	if q.filter.From == nil || t.After(*q.filter.From) {
		q.Since(t)
	}
}

func (q *Query) narrowTo(t time.Time) {
	if q.filter.To == nil || t.Before(*q.filter.To) {
		q.Until(t)
	}
}

// parseTime accepts RFC 3339 or a bare date. A bare end date covers the whole day.
func parseTime(v string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, &ValidationError{Message: "expected RFC 3339 timestamp or YYYY-MM-DD date"}
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return d.UTC(), nil
}

// Get returns every matching record.
func (q *Query) Get(ctx context.Context) ([]Record, error) {
	return q.fetch(ctx, 0, 0)
}

// Limit returns at most n matching records.
func (q *Query) Limit(ctx context.Context, n int) ([]Record, error) {
	return q.fetch(ctx, n, 0)
}

// First returns the newest matching record or ErrNotFound.
func (q *Query) First(ctx context.Context) (*Record, error) {
	recs, err := q.fetch(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return &recs[0], nil
}

// Count returns the number of matching records.
func (q *Query) Count(ctx context.Context) (int64, error) {
	if q.filter.Empty() {
		return 0, nil
	}
	n, err := q.store.Count(ctx, q.filter)
	if err != nil {
		return 0, wrapStorage("count", err)
	}
	return n, nil
}

// Page is one page of results.
type Page struct {
	Records  []Record
	Total    int64
	Page     int
	PageSize int
	LastPage int
}

// Paginate returns page (1-based) of size pageSize. A non-positive pageSize
// uses the query's default.
func (q *Query) Paginate(ctx context.Context, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = q.pageSize
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, err
	}
	recs, err := q.fetch(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	last := int((total + int64(pageSize) - 1) / int64(pageSize))
	if last < 1 {
		last = 1
	}
	return &Page{Records: recs, Total: total, Page: page, PageSize: pageSize, LastPage: last}, nil
}

// Each streams matching records in batches, walking the log with a cursor so
// that concurrent inserts never shift or repeat rows. fn returning an error
// stops the walk and the error is returned.
func (q *Query) Each(ctx context.Context, batchSize int, fn func(Record) error) error {
	if batchSize <= 0 {
		batchSize = q.pageSize
	}
	walker := q.Clone()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := walker.fetch(ctx, batchSize, 0)
		if err != nil {
			return err
		}
		for i := range batch {
			if err := fn(batch[i]); err != nil {
				return err
			}
		}
		if len(batch) < batchSize {
			return nil
		}
		walker.After(CursorOf(&batch[len(batch)-1]))
	}
}

func (q *Query) fetch(ctx context.Context, limit, offset int) ([]Record, error) {
	if q.filter.Empty() {
		return []Record{}, nil
	}
	f := q.filter
	f.Limit = limit
	f.Offset = offset
	recs, err := q.store.Find(ctx, f)
	if err != nil {
		return nil, wrapStorage("find", err)
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}
