// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package retention

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_RunAll(t *testing.T) {
	t.Parallel()

	e, store := newTestEngine(t, 100, 100*24*time.Hour)
	links := &mockPurger{deleted: 3}
	syncs := &mockPurger{deleted: 5}

	s := NewScheduler(
		Job{Operation: NewAuditLogs(e, "scheduler"), Days: 90},
		Job{Operation: NewExpiredMagicLinks(links), Days: 7},
		Job{Operation: NewFailedSyncs(syncs), Days: 30},
	)

	results, err := s.RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	names := []string{OpAuditLogs, OpExpiredMagicLinks, OpFailedSyncs}
	for i, r := range results {
		if r.OperationName != names[i] {
			t.Errorf("results[%d] = %q, want %q", i, r.OperationName, names[i])
		}
	}
	// Ages 91..99 days lie strictly before the cutoff; age 90 is kept.
	if results[0].DeletedCount != 9 {
		t.Errorf("audit logs deleted %d, want 9", results[0].DeletedCount)
	}
	if got := TotalDeleted(results); got != 17 {
		t.Errorf("TotalDeleted = %d, want 17", got)
	}
	if store.Len() != 92 {
		t.Errorf("store holds %d, want 91 kept plus 1 cleanup event", store.Len())
	}
}

func TestScheduler_RunAllCollectsErrors(t *testing.T) {
	t.Parallel()

	links := &mockPurger{err: errors.New("connection refused")}
	syncs := &mockPurger{deleted: 2}
	s := NewScheduler(
		Job{Operation: NewExpiredMagicLinks(links), Days: 7},
		Job{Operation: NewFailedSyncs(syncs), Days: 30},
	)

	results, err := s.RunAll(context.Background())
	if err == nil {
		t.Fatal("expected joined error")
	}
	if !strings.Contains(err.Error(), OpExpiredMagicLinks) {
		t.Errorf("error %q should name the failing operation", err)
	}
	if len(results) != 2 || results[1].DeletedCount != 2 {
		t.Errorf("later operations must still run: %+v", results)
	}
}

type countingOp struct {
	calls atomic.Int32
}

func (c *countingOp) Name() string { return "counting" }

func (c *countingOp) Execute(context.Context, int) (Result, error) {
	c.calls.Add(1)
	return Result{OperationName: "counting"}, nil
}

func (*countingOp) sealed() {}

func TestScheduler_RunAllCanceled(t *testing.T) {
	t.Parallel()

	op := &countingOp{}
	s := NewScheduler(Job{Operation: op, Days: 1}, Job{Operation: op, Days: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := s.RunAll(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if op.calls.Load() != 0 {
		t.Errorf("operations ran %d times after cancellation", op.calls.Load())
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want one per job", len(results))
	}
}
