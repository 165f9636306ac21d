// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package retention

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type mockRunner struct {
	calls       atomic.Int32
	hadDeadline atomic.Bool
	err         error
}

func (m *mockRunner) RunAll(ctx context.Context) ([]Result, error) {
	m.calls.Add(1)
	_, ok := ctx.Deadline()
	m.hadDeadline.Store(ok)
	return []Result{{OperationName: "x", DeletedCount: 1}}, m.err
}

func TestNewCronService_InvalidSchedule(t *testing.T) {
	t.Parallel()

	if _, err := NewCronService(&mockRunner{}, "not a schedule", time.Minute, nil); err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestCronService_RunNow(t *testing.T) {
	t.Parallel()

	for _, runErr := range []error{nil, errors.New("partial failure")} {
		r := &mockRunner{err: runErr}
		svc, err := NewCronService(r, "@daily", time.Minute, time.UTC)
		if err != nil {
			t.Fatal(err)
		}
		svc.RunNow(context.Background())
		if r.calls.Load() != 1 {
			t.Errorf("runner called %d times, want 1", r.calls.Load())
		}
		if !r.hadDeadline.Load() {
			t.Error("run should carry the configured timeout")
		}
	}
}

func TestCronService_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	svc, err := NewCronService(&mockRunner{}, "@every 1h", time.Minute, nil)
	if err != nil {
		t.Fatal(err)
	}
	if svc.String() != "retention-cron" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}
