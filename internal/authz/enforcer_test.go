// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package authz

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestEnforcer(t *testing.T, cfg *EnforcerConfig) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(cfg)
	if err != nil {
		t.Fatalf("NewEnforcer failed: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEnforcer_EmbeddedPolicy(t *testing.T) {
	t.Parallel()
	e := newTestEnforcer(t, nil)

	tests := []struct {
		name   string
		roles  []string
		object string
		action string
		want   bool
	}{
		{"viewer lists logs", []string{"viewer"}, "/api/v1/audit/logs", "read", true},
		{"viewer shows log", []string{"viewer"}, "/api/v1/audit/logs/17", "read", true},
		{"viewer exports", []string{"viewer"}, "/api/v1/audit/export", "read", true},
		{"viewer cannot clean up", []string{"viewer"}, "/api/v1/audit/cleanup", "write", false},
		{"admin cleans up", []string{"admin"}, "/api/v1/audit/cleanup", "write", true},
		{"admin reads", []string{"admin"}, "/api/v1/audit/report", "read", true},
		{"no roles falls back to viewer", nil, "/api/v1/audit/stats", "read", true},
		{"no roles cannot write", nil, "/api/v1/audit/cleanup", "write", false},
		{"unknown role", []string{"client"}, "/api/v1/audit/logs", "read", false},
		{"outside prefix", []string{"admin"}, "/api/v1/users", "read", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.EnforceWithRoles("user-1", tt.roles, tt.object, tt.action)
			if err != nil {
				t.Fatalf("EnforceWithRoles failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("allowed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnforcer_AddRoleForUserInvalidatesCache(t *testing.T) {
	t.Parallel()
	e := newTestEnforcer(t, &EnforcerConfig{CacheTTL: time.Minute})

	if ok, _ := e.Enforce("user-7", "/api/v1/audit/cleanup", "write"); ok {
		t.Fatal("user-7 should not be allowed before role assignment")
	}
	if _, err := e.AddRoleForUser("user-7", "admin"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := e.Enforce("user-7", "/api/v1/audit/cleanup", "write"); !ok {
		t.Error("cached denial survived role assignment")
	}
}

func TestEnforcer_PolicyFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(path, []byte("p, auditor, /api/v1/audit/export, read\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	e := newTestEnforcer(t, &EnforcerConfig{PolicyPath: path})

	if ok, _ := e.Enforce("auditor", "/api/v1/audit/export", "read"); !ok {
		t.Error("auditor should export under the file policy")
	}
	if ok, _ := e.Enforce("viewer", "/api/v1/audit/logs", "read"); ok {
		t.Error("embedded policy should not apply when a policy file is loaded")
	}
}

func TestLoadEmbeddedPolicy_Malformed(t *testing.T) {
	t.Parallel()
	e := newTestEnforcer(t, &EnforcerConfig{})
	if err := loadEmbeddedPolicy(e.enforcer, "p, only-two"); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestEnforcementCache(t *testing.T) {
	t.Parallel()
	c := newEnforcementCache(time.Minute)
	defer c.stop()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.set("u1", "/a", "read", true)
	c.set("u1", "/b", "read", false)
	c.set("u2", "/a", "read", true)

	if allowed, ok := c.get("u1", "/a", "read"); !ok || !allowed {
		t.Errorf("get = %v, %v", allowed, ok)
	}
	c.invalidateUser("u1")
	if _, ok := c.get("u1", "/a", "read"); ok {
		t.Error("u1 entry survived invalidation")
	}
	if c.len() != 1 {
		t.Errorf("len = %d, want 1", c.len())
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.get("u2", "/a", "read"); ok {
		t.Error("expired entry returned")
	}
	c.evictExpired()
	if c.len() != 0 {
		t.Errorf("len after eviction = %d", c.len())
	}
	c.stop()
}
