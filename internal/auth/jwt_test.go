// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, JWTIssuer: "joy"})
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}
	return m
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	t.Parallel()
	if _, err := NewJWTManager(&config.SecurityConfig{}); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)

	token, err := m.GenerateToken("42", RoleAdmin, audit.ActorUser, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	s := claims.Subject()
	if s.ID != "42" || !s.HasRole(RoleAdmin) || s.AuditActorType() != audit.ActorUser {
		t.Errorf("subject = %+v", s)
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	t.Parallel()
	m := newTestManager(t)
	base := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	expired := newTestManager(t)
	expired.now = func() time.Time { return base.Add(-2 * time.Hour) }
	expiredToken, _ := expired.GenerateToken("42", RoleViewer, audit.ActorUser, time.Hour)

	other, _ := NewJWTManager(&config.SecurityConfig{JWTSecret: "ffffffffffffffffffffffffffffffff", JWTIssuer: "joy"})
	wrongSecret, _ := other.GenerateToken("42", RoleViewer, audit.ActorUser, time.Hour)

	wrongIssuer, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:             RoleViewer,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42", Issuer: "elsewhere", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:             RoleViewer,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "joy", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))

	badActor, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Role:             RoleViewer,
		ActorType:        "robot",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42", Issuer: "joy", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))

	hs384, _ := jwt.NewWithClaims(jwt.SigningMethodHS384, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42", Issuer: "joy", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-token", ErrInvalidCredentials},
		{"expired", expiredToken, ErrExpiredCredentials},
		{"wrong secret", wrongSecret, ErrInvalidCredentials},
		{"wrong issuer", wrongIssuer, ErrInvalidCredentials},
		{"no subject", noSubject, ErrInvalidCredentials},
		{"unknown actor type", badActor, ErrInvalidCredentials},
		{"unexpected algorithm", hs384, ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := m.ValidateToken(tt.token); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseAuthMode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    AuthMode
		wantErr bool
	}{
		{"jwt", AuthModeJWT, false},
		{"", AuthModeJWT, false},
		{"none", AuthModeNone, false},
		{"basic", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAuthMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseAuthMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}
