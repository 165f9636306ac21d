// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/config"
)

// Claims represents JWT claims issued by Joy's session layer.
type Claims struct {
	Role        string          `json:"role"`
	ActorType   audit.ActorType `json:"actor_type,omitempty"`
	WorkspaceID string          `json:"workspace_id,omitempty"`
	jwt.RegisteredClaims
}

// Subject converts the claims to an authenticated subject.
func (c *Claims) Subject() *Subject {
	s := &Subject{ID: c.RegisteredClaims.Subject, ActorType: c.ActorType, WorkspaceID: c.WorkspaceID}
	if c.Role != "" {
		s.Roles = []string{c.Role}
	}
	return s
}

// JWTManager handles JWT token creation and validation
type JWTManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewJWTManager creates a manager with the configured secret.
// It returns an error if the secret is empty.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}
	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		now:    time.Now,
	}, nil
}

// GenerateToken signs a token for subject valid for ttl. joyctl uses it to
// call a running server; the web session layer issues its own.
func (m *JWTManager) GenerateToken(subject, role string, actorType audit.ActorType, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &Claims{
		Role:      role,
		ActorType: actorType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature, algorithm, expiry and issuer and returns
// the claims. Expired tokens return an error wrapping ErrExpiredCredentials,
// everything else ErrInvalidCredentials.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredCredentials, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.RegisteredClaims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidCredentials)
	}
	if claims.ActorType != "" && !claims.ActorType.Valid() {
		return nil, fmt.Errorf("%w: unknown actor type %q", ErrInvalidCredentials, claims.ActorType)
	}
	return claims, nil
}
