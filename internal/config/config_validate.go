// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package config

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/tomtom215/joy/internal/validation"
)

const minJWTSecretLength = 32

// Validate checks struct tags first, then the rules spanning several fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateAudit(); err != nil {
		return err
	}

	return c.validateSecurity()
}

func (c *Config) validateAudit() error {
	a := c.Audit
	if a.PageSize > a.MaxPageSize {
		return fmt.Errorf("AUDIT_PAGE_SIZE (%d) must not exceed AUDIT_MAX_PAGE_SIZE (%d)", a.PageSize, a.MaxPageSize)
	}
	if _, err := cron.ParseStandard(a.CleanupSchedule); err != nil {
		return fmt.Errorf("AUDIT_CLEANUP_SCHEDULE is invalid: %w", err)
	}
	if a.StrictVocabulary && len(a.AllowedActions) == 0 {
		return fmt.Errorf("AUDIT_ALLOWED_ACTIONS is required when AUDIT_STRICT_VOCABULARY=true")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.AuthMode != "jwt" {
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=%s is not allowed in production", c.Security.AuthMode)
		}
		return nil
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters when AUTH_MODE=jwt", minJWTSecretLength)
	}
	if !c.Security.RateLimitDisabled && c.Security.RateLimitReqs > 0 && c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}
