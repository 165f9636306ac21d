// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/auth"
	"github.com/tomtom215/joy/internal/authz"
	"github.com/tomtom215/joy/internal/cache"
	"github.com/tomtom215/joy/internal/config"
	"github.com/tomtom215/joy/internal/export"
	"github.com/tomtom215/joy/internal/report"
	"github.com/tomtom215/joy/internal/retention"
)

const (
	testSecret = "test-secret-test-secret-test-secret"
	day        = 24 * time.Hour
)

type fakeHealth struct{ err error }

func (f fakeHealth) Ping(context.Context) error { return f.err }

type testServer struct {
	t      *testing.T
	router http.Handler
	store  *audit.MemoryStore
	writer *audit.Writer
	jwt    *auth.JWTManager
}

type serverOption func(*HandlerDeps, *ChiMiddlewareConfig)

func withHealth(err error) serverOption {
	return func(d *HandlerDeps, _ *ChiMiddlewareConfig) { d.Health = fakeHealth{err: err} }
}

func withCache(c *cache.Cache) serverOption {
	return func(d *HandlerDeps, _ *ChiMiddlewareConfig) { d.Cache = c }
}

func withRateLimit(reqs int) serverOption {
	return func(_ *HandlerDeps, c *ChiMiddlewareConfig) {
		c.RateLimitDisabled = false
		c.RateLimitRequests = reqs
		c.RateLimitWindow = time.Minute
	}
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	store := audit.NewMemoryStore()
	writer := audit.NewWriter(store, audit.WriterConfig{})

	deps := HandlerDeps{
		Writer:    writer,
		Reports:   report.NewGenerator(store),
		Exports:   export.NewEngine(writer, export.WithMaxRows(100)),
		Retention: retention.NewEngine(writer),
		Health:    fakeHealth{},
		Config: config.AuditConfig{
			RetentionDays:  90,
			PageSize:       2,
			MaxPageSize:    3,
			ExportMaxRows:  100,
			ExportTimeout:  time.Minute,
			CleanupTimeout: time.Minute,
		},
	}
	chiCfg := &ChiMiddlewareConfig{RateLimitDisabled: true}
	for _, opt := range opts {
		opt(&deps, chiCfg)
	}

	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret})
	if err != nil {
		t.Fatal(err)
	}
	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(enforcer.Close)

	router := NewRouter(RouterDeps{
		Handler: NewHandler(deps),
		Chi:     NewChiMiddleware(chiCfg),
		Auth:    auth.NewMiddleware(jwtManager, auth.AuthModeJWT, WriteError),
		Authz:   authz.NewMiddleware(enforcer, WriteError),
	})

	return &testServer{t: t, router: router, store: store, writer: writer, jwt: jwtManager}
}

// seed writes a record aged age.
func (s *testServer) seed(action string, severity audit.Severity, age time.Duration, opts ...audit.EntryOption) *audit.Record {
	s.t.Helper()
	w := audit.NewWriter(s.store, audit.WriterConfig{})
	at := time.Now().UTC().Add(-age)
	w.SetClock(func() time.Time { return at })

	e := audit.Entry{Action: action, Severity: severity, Actor: audit.UserActor("u1")}
	for _, opt := range opts {
		opt(&e)
	}
	rec, err := w.Record(context.Background(), e)
	if err != nil {
		s.t.Fatalf("seed %q: %v", action, err)
	}
	return rec
}

func (s *testServer) token(subject, role string) string {
	s.t.Helper()
	tok, err := s.jwt.GenerateToken(subject, role, audit.ActorUser, time.Hour)
	if err != nil {
		s.t.Fatal(err)
	}
	return tok
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v\n%s", err, rec.Body.String())
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decoding data: %v", err)
		}
	}
	return env
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d: %s", rec.Code, status, rec.Body.String())
	}
	env := decode(t, rec, nil)
	if env.Success || env.Error == nil || env.Error.Code != code {
		t.Errorf("error = %+v, want code %s", env.Error, code)
	}
}

var errDown = errors.New("database is down")
