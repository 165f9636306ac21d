// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package report

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/joy/internal/audit"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type seed struct {
	ago       time.Duration
	action    string
	actor     string
	severity  audit.Severity
	tags      []string
	workspace string
	subject   *audit.Subject
}

func seedStore(t *testing.T, seeds []seed) *audit.MemoryStore {
	t.Helper()

	store := audit.NewMemoryStore()
	w := audit.NewWriter(store, audit.WriterConfig{})
	for i, s := range seeds {
		at := testNow.Add(-s.ago)
		w.SetClock(func() time.Time { return at })
		e := audit.Entry{
			Action:      s.action,
			Severity:    s.severity,
			Tags:        s.tags,
			WorkspaceID: s.workspace,
			Subject:     s.subject,
		}
		if s.actor != "" {
			e.Actor = audit.UserActor(s.actor)
		}
		if _, err := w.Record(context.Background(), e); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	return store
}

func fixture(t *testing.T) *audit.MemoryStore {
	user := &audit.Subject{Type: "User", ID: "1"}
	item := &audit.Subject{Type: `App\Models\ContentItem`, ID: "9"}
	return seedStore(t, []seed{
		{ago: 1 * time.Hour, action: "User Updated", actor: "alice", severity: audit.SeverityInfo, workspace: "w1", subject: user},
		{ago: 2 * time.Hour, action: "Login Failed", actor: "bob", severity: audit.SeverityWarning, tags: []string{audit.TagSecurity}, workspace: "w1"},
		{ago: 26 * time.Hour, action: "Content Item Deleted", actor: "alice", severity: audit.SeverityWarning, workspace: "w2", subject: item},
		{ago: 50 * time.Hour, action: "Sync Failed", severity: audit.SeverityError, workspace: "w1"},
		{ago: 3 * 24 * time.Hour, action: "User Updated", actor: "bob", severity: audit.SeverityInfo, workspace: "w1", subject: user},
		{ago: 5 * 24 * time.Hour, action: "User Updated", actor: "carol", severity: audit.SeverityInfo, workspace: "w1", subject: user},
		{ago: 6 * 24 * time.Hour, action: "Permission Escalated", actor: "carol", severity: audit.SeverityCritical, workspace: "w1"},
		{ago: 40 * 24 * time.Hour, action: "User Created", actor: "dave", severity: audit.SeverityInfo, workspace: "w1"},
	})
}

func TestGenerate_Totals(t *testing.T) {
	t.Parallel()

	g := NewGenerator(fixture(t), WithClock(fixedClock))
	rep, err := g.Generate(context.Background(), nil, 30)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if rep.TotalEvents != 7 {
		t.Errorf("TotalEvents = %d, want 7", rep.TotalEvents)
	}
	var sevSum int64
	for _, n := range rep.TotalsBySeverity {
		sevSum += n
	}
	if sevSum != rep.TotalEvents {
		t.Errorf("severity totals sum to %d, want %d", sevSum, rep.TotalEvents)
	}
	if rep.TotalsByAction["User Updated"] != 3 {
		t.Errorf("User Updated = %d, want 3", rep.TotalsByAction["User Updated"])
	}
	if rep.TotalsBySubject["User"] != 3 || rep.TotalsBySubject["Content Item"] != 1 {
		t.Errorf("TotalsBySubject = %v", rep.TotalsBySubject)
	}
	if rep.TotalsByDay["2026-06-15"] != 2 {
		t.Errorf("TotalsByDay[2026-06-15] = %d, want 2", rep.TotalsByDay["2026-06-15"])
	}
	if _, ok := rep.TotalsByDay["2026-06-11"]; ok {
		t.Error("day buckets must be sparse")
	}
	if rep.TotalsByHour[11] != 1 || rep.TotalsByHour[10] != 3 || rep.TotalsByHour[12] != 3 {
		t.Errorf("TotalsByHour = %v", rep.TotalsByHour)
	}
	if !rep.WindowEnd.Equal(testNow) || !rep.WindowStart.Equal(testNow.AddDate(0, 0, -30)) {
		t.Errorf("window = %v..%v", rep.WindowStart, rep.WindowEnd)
	}
}

func TestGenerate_TopActors(t *testing.T) {
	t.Parallel()

	g := NewGenerator(fixture(t), WithClock(fixedClock))
	rep, err := g.Generate(context.Background(), nil, 30)
	if err != nil {
		t.Fatal(err)
	}

	// alice, bob and carol have two records each; carol was seen first.
	want := []string{"carol", "bob", "alice"}
	if len(rep.TopActors) != len(want) {
		t.Fatalf("TopActors = %+v", rep.TopActors)
	}
	for i, id := range want {
		if rep.TopActors[i].ActorID != id || rep.TopActors[i].Count != 2 {
			t.Errorf("TopActors[%d] = %+v, want %s x2", i, rep.TopActors[i], id)
		}
	}
}

func TestGenerate_TopActorsCap(t *testing.T) {
	t.Parallel()

	seeds := make([]seed, 0, 15)
	for i := 0; i < 15; i++ {
		seeds = append(seeds, seed{ago: time.Duration(i+1) * time.Minute, action: "x", actor: string(rune('a' + i))})
	}
	rep, err := NewGenerator(seedStore(t, seeds), WithClock(fixedClock)).Generate(context.Background(), nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.TopActors) != DefaultTopActors {
		t.Errorf("got %d top actors, want %d", len(rep.TopActors), DefaultTopActors)
	}
	// All tied at one; earliest first-seen wins.
	if rep.TopActors[0].ActorID != "o" {
		t.Errorf("first actor = %s, want o", rep.TopActors[0].ActorID)
	}
}

func TestGenerate_SecurityEvents(t *testing.T) {
	t.Parallel()

	g := NewGenerator(fixture(t), WithClock(fixedClock))
	rep, err := g.Generate(context.Background(), nil, 30)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"Login Failed", "Sync Failed", "Permission Escalated"}
	if len(rep.SecurityEvents) != len(want) {
		t.Fatalf("SecurityEvents = %d, want %d", len(rep.SecurityEvents), len(want))
	}
	for i, action := range want {
		if rep.SecurityEvents[i].Action != action {
			t.Errorf("SecurityEvents[%d] = %s, want %s", i, rep.SecurityEvents[i].Action, action)
		}
	}
}

func TestGenerate_Workspace(t *testing.T) {
	t.Parallel()

	ws := "w2"
	rep, err := NewGenerator(fixture(t), WithClock(fixedClock)).Generate(context.Background(), &ws, 30)
	if err != nil {
		t.Fatal(err)
	}
	if rep.TotalEvents != 1 || rep.TotalsByAction["Content Item Deleted"] != 1 {
		t.Errorf("workspace report = %+v", rep)
	}
	if rep.WorkspaceID == nil || *rep.WorkspaceID != "w2" {
		t.Errorf("WorkspaceID = %v", rep.WorkspaceID)
	}
}

func TestGenerate_Location(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+14", 14*3600)
	rep, err := NewGenerator(fixture(t), WithClock(fixedClock), WithLocation(loc)).Generate(context.Background(), nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	// 11:00 and 10:00 UTC are 01:00 and 00:00 the next day at UTC+14.
	if rep.TotalsByDay["2026-06-16"] != 2 || rep.TotalsByHour[1] != 1 || rep.TotalsByHour[0] != 1 {
		t.Errorf("days = %v, hours = %v", rep.TotalsByDay, rep.TotalsByHour)
	}
}

func TestGenerate_InvalidDays(t *testing.T) {
	t.Parallel()

	g := NewGenerator(audit.NewMemoryStore())
	for _, days := range []int{0, -3, MaxDays + 1} {
		if _, err := g.Generate(context.Background(), nil, days); !audit.IsValidation(err) {
			t.Errorf("days=%d: error = %v, want ValidationError", days, err)
		}
	}
}

func TestGenerate_Empty(t *testing.T) {
	t.Parallel()

	rep, err := NewGenerator(audit.NewMemoryStore(), WithClock(fixedClock)).Generate(context.Background(), nil, 7)
	if err != nil {
		t.Fatal(err)
	}
	if rep.TotalEvents != 0 || rep.TopActors == nil || rep.SecurityEvents == nil {
		t.Errorf("empty report = %+v", rep)
	}
}
