// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/joy/internal/audit"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// newTestEngine returns an engine over a memory store holding n records
// spread evenly across the last span.
func newTestEngine(t *testing.T, n int, span time.Duration) (*Engine, *audit.MemoryStore) {
	t.Helper()

	store := audit.NewMemoryStore()
	w := audit.NewWriter(store, audit.WriterConfig{})
	step := span / time.Duration(n)
	for i := 0; i < n; i++ {
		at := testNow.Add(-time.Duration(i) * step)
		w.SetClock(func() time.Time { return at })
		if _, err := w.Record(context.Background(), audit.Entry{Action: "Content Item Updated"}); err != nil {
			t.Fatalf("seed record %d: %v", i, err)
		}
	}
	w.SetClock(fixedClock)

	e := NewEngine(w)
	e.SetClock(fixedClock)
	return e, store
}

func TestCleanup_Scenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e, store := newTestEngine(t, 150, 40*24*time.Hour)
	q := audit.NewQuery(store).WithClock(fixedClock)

	cutoff := testNow.AddDate(0, 0, -35)
	var wantDeleted int64
	all, _ := q.Clone().Get(ctx)
	for _, r := range all {
		if r.CreatedAt.Before(cutoff) {
			wantDeleted++
		}
	}
	if wantDeleted != 18 {
		t.Fatalf("fixture has %d records older than 35 days, want 18", wantDeleted)
	}
	recentBefore, err := q.Clone().Recent(7).Count(ctx)
	if err != nil {
		t.Fatal(err)
	}

	deleted, err := e.Cleanup(ctx, 35, "test")
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != wantDeleted {
		t.Errorf("deleted %d, want %d", deleted, wantDeleted)
	}

	// 150 - 18 seeded records survive, plus the cleanup event.
	if got := store.Len(); got != 150-18+1 {
		t.Errorf("store holds %d records, want %d", got, 150-18+1)
	}

	recentAfter, err := q.Clone().Recent(7).Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if recentAfter != recentBefore+1 {
		t.Errorf("recent(7) = %d after cleanup, want %d untouched plus the cleanup event", recentAfter, recentBefore)
	}

	old, err := q.Clone().Until(cutoff.Add(-time.Nanosecond)).Count(ctx)
	if err != nil || old != 0 {
		t.Errorf("records older than cutoff = %d, %v; want 0", old, err)
	}
}

func TestCleanup_Floor(t *testing.T) {
	t.Parallel()

	for _, days := range []int{-1, 0, 1, 7, 29} {
		e, store := newTestEngine(t, 20, 100*24*time.Hour)
		deleted, err := e.Cleanup(context.Background(), days, "test")

		var verr *audit.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("days=%d: error = %v, want ValidationError", days, err)
		}
		if verr.Field != "days" {
			t.Errorf("days=%d: field = %q", days, verr.Field)
		}
		if deleted != 0 || store.Len() != 20 {
			t.Errorf("days=%d: deleted %d, store %d; nothing may change", days, deleted, store.Len())
		}
	}
}

func TestCleanup_AtFloor(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, 10, 60*24*time.Hour)
	if _, err := e.Cleanup(context.Background(), MinRetentionDays, "test"); err != nil {
		t.Errorf("cleanup at the floor should succeed: %v", err)
	}
}

func TestCleanup_RecordsItself(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e, store := newTestEngine(t, 100, 100*24*time.Hour)
	deleted, err := e.Cleanup(ctx, 60, "scheduler")
	if err != nil {
		t.Fatal(err)
	}

	events, err := audit.NewQuery(store).ByAction(audit.ActionAuditCleanup).Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d cleanup events, want 1", len(events))
	}
	ev := events[0]
	if ev.Severity != audit.SeverityInfo {
		t.Errorf("severity = %s, want info", ev.Severity)
	}
	if !ev.HasTag(audit.TagSystemCleanup) || !ev.HasTag(audit.TagCleanup) {
		t.Errorf("tags = %v", ev.Tags)
	}
	if ev.NewValues["records_deleted"] != deleted {
		t.Errorf("records_deleted = %v, want %d", ev.NewValues["records_deleted"], deleted)
	}
	if ev.NewValues["days_kept"] != 60 || ev.NewValues["triggered_by"] != "scheduler" {
		t.Errorf("new_values = %v", ev.NewValues)
	}
	if ev.ActorType != audit.ActorSystem || ev.ActorID != nil {
		t.Errorf("actor = %s/%v, want system/nil", ev.ActorType, ev.ActorID)
	}
}

func TestCleanup_ActorFromContext(t *testing.T) {
	t.Parallel()

	e, store := newTestEngine(t, 5, 5*24*time.Hour)
	ctx := audit.ContextWithPrincipal(context.Background(), audit.UserActor("admin-1"))
	if _, err := e.Cleanup(ctx, 90, "api"); err != nil {
		t.Fatal(err)
	}
	ev, err := audit.NewQuery(store).ByAction(audit.ActionAuditCleanup).First(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ev.ActorID == nil || *ev.ActorID != "admin-1" || ev.ActorType != audit.ActorUser {
		t.Errorf("actor = %v/%s, want admin-1/user", ev.ActorID, ev.ActorType)
	}
}

func TestCleanup_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e, _ := newTestEngine(t, 90, 90*24*time.Hour)
	first, err := e.Cleanup(ctx, 30, "test")
	if err != nil || first == 0 {
		t.Fatalf("first run = %d, %v", first, err)
	}
	second, err := e.Cleanup(ctx, 30, "test")
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second != 0 {
		t.Errorf("second run deleted %d, want 0", second)
	}
}

type failingDeleteStore struct {
	*audit.MemoryStore
	deleteErr error
	appendErr error
}

func (s *failingDeleteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	return s.MemoryStore.DeleteBefore(ctx, cutoff)
}

func (s *failingDeleteStore) Append(ctx context.Context, rec *audit.Record) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	return s.MemoryStore.Append(ctx, rec)
}

func TestCleanup_StorageErrors(t *testing.T) {
	t.Parallel()

	t.Run("delete fails", func(t *testing.T) {
		t.Parallel()
		store := &failingDeleteStore{MemoryStore: audit.NewMemoryStore(), deleteErr: errors.New("disk full")}
		e := NewEngine(audit.NewWriter(store, audit.WriterConfig{}))
		_, err := e.Cleanup(context.Background(), 90, "test")
		if !errors.Is(err, audit.ErrStorage) {
			t.Errorf("error = %v, want ErrStorage", err)
		}
	})

	t.Run("self audit fails", func(t *testing.T) {
		t.Parallel()
		store := &failingDeleteStore{MemoryStore: audit.NewMemoryStore(), appendErr: errors.New("read only")}
		e := NewEngine(audit.NewWriter(store, audit.WriterConfig{}))
		_, err := e.Cleanup(context.Background(), 90, "test")
		if !errors.Is(err, audit.ErrStorage) {
			t.Errorf("error = %v, want ErrStorage", err)
		}
	})
}

func TestCleanup_StrictVocabularyStillAudits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := audit.NewMemoryStore()
	w := audit.NewWriter(store, audit.WriterConfig{
		Strict:         true,
		AllowedActions: []string{"User Created"},
		AllowedTags:    []string{"onboarding"},
	})
	w.SetClock(func() time.Time { return testNow.AddDate(0, 0, -100) })
	if _, err := w.Record(ctx, audit.Entry{Action: "User Created"}); err != nil {
		t.Fatal(err)
	}
	w.SetClock(fixedClock)

	e := NewEngine(w)
	e.SetClock(fixedClock)
	deleted, err := e.Cleanup(ctx, 30, "scheduler")
	if err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	n, err := audit.NewQuery(store).ByAction(audit.ActionAuditCleanup).Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("cleanup records = %d, %v; want 1", n, err)
	}
}

func TestRun_ReportsCutoff(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t, 10, 100*24*time.Hour)
	res, err := e.Run(context.Background(), 45, "test")
	if err != nil {
		t.Fatal(err)
	}
	if want := testNow.AddDate(0, 0, -45); !res.Cutoff.Equal(want) {
		t.Errorf("Cutoff = %v, want %v", res.Cutoff, want)
	}
	if res.Deleted != 5 {
		t.Errorf("Deleted = %d, want 5", res.Deleted)
	}
}
