// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/config"
	"github.com/tomtom215/joy/internal/database"
	"github.com/tomtom215/joy/internal/logging"
	"github.com/tomtom215/joy/internal/retention"
)

// cliTrigger is recorded as triggered_by on cleanups run from joyctl.
const cliTrigger = "cli"

// backend is what the commands operate on.
type backend struct {
	writer *audit.Writer
	tokens retention.TokenPurger
	syncs  retention.SyncFailurePurger
	close  func() error
}

// backendOpener opens the audit store named by cfg.
type backendOpener func(cfg *config.Config) (*backend, error)

func openBackend(cfg *config.Config) (*backend, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, err
	}
	writer := audit.NewWriter(db.AuditStore(), audit.WriterConfig{
		PayloadMaxBytes: cfg.Audit.PayloadMaxBytes,
		Strict:          cfg.Audit.StrictVocabulary,
		AllowedActions:  cfg.Audit.AllowedActions,
		AllowedTags:     cfg.Audit.AllowedTags,
	})
	return &backend{writer: writer, tokens: db, syncs: db, close: db.Close}, nil
}

// rootOptions are shared by every subcommand.
type rootOptions struct {
	dbPath   string
	json     bool
	logLevel string

	cfg  *config.Config
	open backendOpener
}

// withBackend opens the backend for the duration of fn.
func (o *rootOptions) withBackend(fn func(*backend) error) error {
	b, err := o.open(o.cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := b.close(); err != nil {
			logging.Warn().Err(err).Msg("Closing database failed")
		}
	}()
	return fn(b)
}

func newRootCmd(open backendOpener) *cobra.Command {
	opts := &rootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "joyctl",
		Short: "Operate the Joy audit log",
		Long: `Operate the Joy audit log: purge old records, print reports and
statistics, export records and mint API tokens.

Configuration is read the same way the server reads it: defaults, then
config.yaml (or CONFIG_PATH), then environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.dbPath != "" {
				cfg.Database.Path = opts.dbPath
			}

			logCfg := logging.DefaultConfig()
			logCfg.Level = cfg.Logging.Level
			if opts.logLevel != "" {
				logCfg.Level = opts.logLevel
			}
			logCfg.Format = "console"
			logCfg.Output = cmd.ErrOrStderr()
			logging.Init(logCfg)

			opts.cfg = cfg
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.dbPath, "db", "", "DuckDB file (overrides DUCKDB_PATH)")
	flags.BoolVarP(&opts.json, "json", "j", false, "Print JSON instead of tables")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level for diagnostics on stderr")

	cmd.AddCommand(
		newCleanupCmd(opts),
		newReportCmd(opts),
		newStatsCmd(opts),
		newLogsCmd(opts),
		newExportCmd(opts),
		newTokenCmd(opts),
	)
	return cmd
}
