// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/joy/internal/config"
)

func TestIsConnectionError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("sql: database is closed"), true},
		{errors.New("driver: bad connection"), true},
		{errors.New("write: broken pipe"), true},
		{errors.New("Binder Error: column not found"), false},
	}
	for _, tt := range tests {
		if got := IsConnectionError(tt.err); got != tt.want {
			t.Errorf("IsConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestEnsureContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := ensureContext(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a default deadline")
	}
	if time.Until(deadline) > defaultQueryTimeout {
		t.Errorf("deadline too far out: %v", deadline)
	}

	parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
	defer parentCancel()
	got, gotCancel := ensureContext(parent)
	defer gotCancel()
	if got != parent {
		t.Error("context with a deadline should be returned as is")
	}
}

func TestConnectionString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cfg  config.DatabaseConfig
		want string
	}{
		{config.DatabaseConfig{Path: "/data/joy.duckdb", Threads: 4, MaxMemory: "1GB"}, "/data/joy.duckdb?threads=4&max_memory=1GB"},
		{config.DatabaseConfig{Path: ":memory:", Threads: 2}, "?threads=2"},
	}
	for _, tt := range tests {
		if got := connectionString(&tt.cfg); got != tt.want {
			t.Errorf("connectionString(%+v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}

	if got := connectionString(&config.DatabaseConfig{Path: "x.duckdb"}); !strings.HasPrefix(got, "x.duckdb?threads=") {
		t.Errorf("default threads missing: %q", got)
	}
}
