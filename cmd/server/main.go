// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/joy/internal/api"
	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/auth"
	"github.com/tomtom215/joy/internal/authz"
	"github.com/tomtom215/joy/internal/cache"
	"github.com/tomtom215/joy/internal/config"
	"github.com/tomtom215/joy/internal/database"
	"github.com/tomtom215/joy/internal/export"
	"github.com/tomtom215/joy/internal/logging"
	"github.com/tomtom215/joy/internal/report"
	"github.com/tomtom215/joy/internal/retention"
	"github.com/tomtom215/joy/internal/supervisor"
	"github.com/tomtom215/joy/internal/supervisor/services"
)

//nolint:gocyclo // sequential setup
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Int("retention_days", cfg.Audit.RetentionDays).
		Bool("alerts", cfg.Alert.Enabled).
		Msg("Starting Joy audit service")

	watchLogLevel()

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	writer := audit.NewWriter(db.AuditStore(), audit.WriterConfig{
		PayloadMaxBytes: cfg.Audit.PayloadMaxBytes,
		Strict:          cfg.Audit.StrictVocabulary,
		AllowedActions:  cfg.Audit.AllowedActions,
		AllowedTags:     cfg.Audit.AllowedTags,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if notifier, err := initAlerts(cfg.Alert); err != nil {
		// Alerts are best effort; the log itself must keep working.
		logging.Error().Err(err).Msg("Audit alerts disabled")
	} else if notifier != nil {
		writer.AddNotifier(notifier)
		tree.AddMessagingService(services.NewCloserService("alert-notifier", notifier))
	}

	retentionEngine := retention.NewEngine(writer)
	if cfg.Audit.CleanupEnabled {
		cron, err := initRetentionCron(cfg.Audit, retentionEngine, db)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize retention cron")
		}
		tree.AddMaintenanceService(cron)
	} else {
		logging.Warn().Msg("Scheduled audit cleanup is disabled (AUDIT_CLEANUP_ENABLED=false)")
	}

	var reportCache *cache.Cache
	if cfg.Audit.ReportCacheTTL > 0 {
		reportCache = cache.New(cfg.Audit.ReportCacheTTL)
	}

	router, err := initRouter(cfg, api.HandlerDeps{
		Writer:    writer,
		Reports:   report.NewGenerator(db.AuditStore(), report.WithLocation(cfg.Audit.Location())),
		Exports:   export.NewEngine(writer, export.WithMaxRows(cfg.Audit.ExportMaxRows)),
		Retention: retentionEngine,
		Health:    db,
		Cache:     reportCache,
		Config:    cfg.Audit,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize HTTP router")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Joy audit service stopped")
}

// initRouter wires authentication, authorization and the audit handlers.
func initRouter(cfg *config.Config, deps api.HandlerDeps) (http.Handler, error) {
	mode, err := auth.ParseAuthMode(cfg.Security.AuthMode)
	if err != nil {
		return nil, err
	}

	var jwtManager *auth.JWTManager
	switch mode {
	case auth.AuthModeJWT:
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			return nil, fmt.Errorf("jwt: %w", err)
		}
		logging.Info().Msg("JWT authentication enabled")
	case auth.AuthModeNone:
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("  Every request acts as the local-dev admin, including cleanup.")
		logging.Warn().Msg("  NEVER use AUTH_MODE=none in production!")
		logging.Warn().Msg("============================================================")
	}

	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		return nil, fmt.Errorf("authz: %w", err)
	}

	return api.NewRouter(api.RouterDeps{
		Handler: api.NewHandler(deps),
		Chi:     api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)),
		Auth:    auth.NewMiddleware(jwtManager, mode, api.WriteError),
		Authz:   authz.NewMiddleware(enforcer, api.WriteError),
	}), nil
}

// watchLogLevel applies logging.level edits in the config file at runtime.
func watchLogLevel() {
	path := config.FilePath()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		logging.SetLevelString(cfg.Logging.Level)
		logging.Info().Str("level", cfg.Logging.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
	}
}
