// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/joy/config.yaml",
	"/etc/joy/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:         "/data/joy.duckdb",
			MaxMemory:    "1GB",
			Threads:      0, // runtime.NumCPU()
			MaxOpenConns: 0,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    2 * time.Minute, // exports stream through the write deadline
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Audit: AuditConfig{
			RetentionDays:            90,
			CleanupEnabled:           true,
			CleanupSchedule:          "@daily",
			CleanupTimeout:           5 * time.Minute,
			MagicLinkRetentionDays:   7,
			SyncFailureRetentionDays: 30,
			PageSize:                 50,
			MaxPageSize:              200,
			ExportMaxRows:            10000,
			ExportTimeout:            time.Minute,
			ReportCacheTTL:           30 * time.Second,
			PayloadMaxBytes:          65535,
			Timezone:                 "UTC",
			StrictVocabulary:         false,
			AllowedActions:           []string{},
			AllowedTags:              []string{},
		},
		Security: SecurityConfig{
			AuthMode:          "jwt",
			JWTSecret:         "",
			JWTIssuer:         "joy",
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Alert: AlertConfig{
			Enabled:            false,
			NATSURL:            "nats://127.0.0.1:4222",
			Topic:              "joy.audit.alerts",
			MinSeverity:        "error",
			ConnectTimeout:     5 * time.Second,
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Config file (optional)
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// AUDIT_RETENTION_DAYS -> audit.retention_days
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FilePath returns the config file Load would read, or "" when there is none.
func FilePath() string {
	return findConfigFile()
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they come from env.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"audit.allowed_actions",
	"audit.allowed_tags",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	// Database
	"duckdb_path":           "database.path",
	"duckdb_max_memory":     "database.max_memory",
	"duckdb_threads":        "database.threads",
	"duckdb_max_open_conns": "database.max_open_conns",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Audit
	"audit_retention_days":              "audit.retention_days",
	"audit_cleanup_enabled":             "audit.cleanup_enabled",
	"audit_cleanup_schedule":            "audit.cleanup_schedule",
	"audit_cleanup_timeout":             "audit.cleanup_timeout",
	"audit_magic_link_retention_days":   "audit.magic_link_retention_days",
	"audit_sync_failure_retention_days": "audit.sync_failure_retention_days",
	"audit_page_size":                   "audit.page_size",
	"audit_max_page_size":               "audit.max_page_size",
	"audit_export_max_rows":             "audit.export_max_rows",
	"audit_export_timeout":              "audit.export_timeout",
	"audit_report_cache_ttl":            "audit.report_cache_ttl",
	"audit_payload_max_bytes":           "audit.payload_max_bytes",
	"audit_timezone":                    "audit.timezone",
	"audit_strict_vocabulary":           "audit.strict_vocabulary",
	"audit_allowed_actions":             "audit.allowed_actions",
	"audit_allowed_tags":                "audit.allowed_tags",

	// Security
	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Alerts
	"alert_enabled":              "alert.enabled",
	"nats_url":                   "alert.nats_url",
	"alert_topic":                "alert.topic",
	"alert_min_severity":         "alert.min_severity",
	"alert_connect_timeout":      "alert.connect_timeout",
	"alert_breaker_max_failures": "alert.breaker_max_failures",
	"alert_breaker_timeout":      "alert.breaker_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever the file at path changes. The
// caller guards any shared *Config it swaps in.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
