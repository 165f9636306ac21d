// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/joy/internal/cli"
	"github.com/tomtom215/joy/internal/retention"
)

type cleanupResult struct {
	DaysKept int                `json:"days_kept"`
	Results  []retention.Result `json:"results"`
	Total    int64              `json:"total_deleted"`
	Error    string             `json:"error,omitempty"`
}

func newCleanupCmd(opts *rootOptions) *cobra.Command {
	var (
		days int
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete audit records older than the retention window",
		Long: `Delete audit records older than --days (default AUDIT_RETENTION_DAYS).
The window may not be shorter than 30 days. The run is itself recorded as an
audit_cleanup event with triggered_by "cli".

With --all, expired magic links and old sync failures are purged as well,
using their configured windows.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("days") {
				days = opts.cfg.Audit.RetentionDays
			}
			if err := retention.ValidateDays(days); err != nil {
				return err
			}

			return opts.withBackend(func(b *backend) error {
				engine := retention.NewEngine(b.writer)
				jobs := []retention.Job{{Operation: retention.NewAuditLogs(engine, cliTrigger), Days: days}}
				if all {
					jobs = append(jobs,
						retention.Job{Operation: retention.NewExpiredMagicLinks(b.tokens), Days: opts.cfg.Audit.MagicLinkRetentionDays},
						retention.Job{Operation: retention.NewFailedSyncs(b.syncs), Days: opts.cfg.Audit.SyncFailureRetentionDays},
					)
				}

				results, runErr := retention.NewScheduler(jobs...).RunAll(cmd.Context())
				out := cleanupResult{DaysKept: days, Results: results, Total: retention.TotalDeleted(results)}
				if runErr != nil {
					out.Error = runErr.Error()
				}

				w := cmd.OutOrStdout()
				if opts.json {
					if err := cli.PrintJSON(w, out); err != nil {
						return err
					}
					return runErr
				}

				rows := make([][]string, len(results))
				for i, r := range results {
					rows[i] = []string{r.OperationName, strconv.FormatInt(r.DeletedCount, 10)}
				}
				cli.PrintTable(w, cli.Section{Title: "Cleanup", Headers: []string{"operation", "deleted"}, Rows: rows})
				cli.PrintKV(w, "Days kept", strconv.Itoa(days), "Total deleted", strconv.FormatInt(out.Total, 10))
				return runErr
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Retention window in days (minimum 30)")
	cmd.Flags().BoolVar(&all, "all", false, "Also purge expired magic links and failed syncs")
	return cmd
}
