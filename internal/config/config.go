// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package config

import (
	"time"
)

// MinRetentionDays is the compliance floor for audit log retention.
const MinRetentionDays = 30

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Audit    AuditConfig    `koanf:"audit"`
	Security SecurityConfig `koanf:"security"`
	Alert    AlertConfig    `koanf:"alert"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path         string `koanf:"path" validate:"required"`
	MaxMemory    string `koanf:"max_memory"`
	Threads      int    `koanf:"threads" validate:"gte=0"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"gte=0"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	Environment     string        `koanf:"environment" validate:"oneof=development production test"`
}

// AuditConfig holds the audit log, retention and export settings.
type AuditConfig struct {
	RetentionDays   int           `koanf:"retention_days" validate:"min=30"`
	CleanupEnabled  bool          `koanf:"cleanup_enabled"`
	CleanupSchedule string        `koanf:"cleanup_schedule" validate:"required"`
	CleanupTimeout  time.Duration `koanf:"cleanup_timeout" validate:"gt=0"`

	// Purge windows for the non-audit cleanup operations.
	MagicLinkRetentionDays   int `koanf:"magic_link_retention_days" validate:"min=1"`
	SyncFailureRetentionDays int `koanf:"sync_failure_retention_days" validate:"min=1"`

	PageSize    int `koanf:"page_size" validate:"min=1"`
	MaxPageSize int `koanf:"max_page_size" validate:"min=1"`

	ExportMaxRows int           `koanf:"export_max_rows" validate:"min=1"`
	ExportTimeout time.Duration `koanf:"export_timeout" validate:"gt=0"`

	// ReportCacheTTL bounds how stale report and stats responses may be. Zero disables the cache.
	ReportCacheTTL time.Duration `koanf:"report_cache_ttl" validate:"gte=0"`

	PayloadMaxBytes int    `koanf:"payload_max_bytes" validate:"min=64,max=65535"`
	Timezone        string `koanf:"timezone" validate:"required,timezone"`

	StrictVocabulary bool     `koanf:"strict_vocabulary"`
	AllowedActions   []string `koanf:"allowed_actions"`
	AllowedTags      []string `koanf:"allowed_tags"`
}

// Location returns the configured report time zone, UTC when it cannot be loaded.
func (a AuditConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SecurityConfig holds API authentication and request limiting settings.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode" validate:"oneof=jwt none"`
	JWTSecret         string        `koanf:"jwt_secret"`
	JWTIssuer         string        `koanf:"jwt_issuer"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// AlertConfig controls publishing of high-severity audit records to NATS.
type AlertConfig struct {
	Enabled     bool   `koanf:"enabled"`
	NATSURL     string `koanf:"nats_url" validate:"required_if=Enabled true"`
	Topic       string `koanf:"topic" validate:"required"`
	MinSeverity string `koanf:"min_severity" validate:"severity"`

	ConnectTimeout     time.Duration `koanf:"connect_timeout" validate:"gt=0"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures" validate:"min=1"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error off"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, the optional config file and the
// environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs with production checks.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
