// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package auth

import (
	"context"
	"errors"

	"github.com/tomtom215/joy/internal/audit"
)

// AuthMode represents the authentication strategy.
type AuthMode string

const (
	// AuthModeNone disables authentication
	AuthModeNone AuthMode = "none"

	// AuthModeJWT uses JWT Bearer tokens
	AuthModeJWT AuthMode = "jwt"
)

// ParseAuthMode converts a string to AuthMode.
func ParseAuthMode(s string) (AuthMode, error) {
	switch s {
	case "jwt", "":
		return AuthModeJWT, nil
	case "none":
		return AuthModeNone, nil
	default:
		return "", errors.New("invalid auth mode: " + s)
	}
}

// Roles known to the authorization policy.
const (
	RoleViewer = "viewer"
	RoleAdmin  = "admin"
)

// Standard authentication errors
var (
	ErrNoCredentials      = errors.New("no credentials provided")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExpiredCredentials = errors.New("credentials expired")
)

// Subject is an authenticated caller.
type Subject struct {
	ID          string
	Roles       []string
	ActorType   audit.ActorType
	WorkspaceID string
}

var _ audit.Principal = (*Subject)(nil)

// AuditActorID implements audit.Principal.
func (s *Subject) AuditActorID() string { return s.ID }

// AuditActorType implements audit.Principal.
func (s *Subject) AuditActorType() audit.ActorType {
	if s.ActorType == "" {
		return audit.ActorUser
	}
	return s.ActorType
}

// HasRole reports whether the subject carries role.
func (s *Subject) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type contextKey string

const subjectContextKey contextKey = "auth_subject"

// ContextWithSubject stores s for authorization and as the audit principal.
func ContextWithSubject(ctx context.Context, s *Subject) context.Context {
	ctx = context.WithValue(ctx, subjectContextKey, s)
	return audit.ContextWithPrincipal(ctx, s)
}

// GetAuthSubject returns the authenticated subject, or nil.
func GetAuthSubject(ctx context.Context) *Subject {
	s, _ := ctx.Value(subjectContextKey).(*Subject)
	return s
}

// DevSubject is the caller attached to every request when authentication is disabled.
func DevSubject() *Subject {
	return &Subject{ID: "local-dev", Roles: []string{RoleAdmin}, ActorType: audit.ActorUser}
}
