// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/joy/internal/cli"
	"github.com/tomtom215/joy/internal/report"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		days      int
		workspace string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the audit log over the last N days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withBackend(func(b *backend) error {
				gen := report.NewGenerator(b.writer.Store(), report.WithLocation(opts.cfg.Audit.Location()))
				rep, err := gen.Generate(cmd.Context(), optional(workspace), days)
				if err != nil {
					return err
				}
				if opts.json {
					return cli.PrintJSON(cmd.OutOrStdout(), rep)
				}
				printReport(cmd.OutOrStdout(), rep)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Window length in days")
	cmd.Flags().StringVar(&workspace, "workspace", "", "Limit to one workspace")
	return cmd
}

func printReport(w io.Writer, rep *report.Report) {
	fmt.Fprintln(w)
	cli.PrintKV(w,
		"From", cli.FormatTime(rep.WindowStart),
		"To", cli.FormatTime(rep.WindowEnd),
		"Events", strconv.FormatInt(rep.TotalEvents, 10),
	)

	actors := make([][]string, len(rep.TopActors))
	for i, a := range rep.TopActors {
		actors[i] = []string{a.ActorID, string(a.ActorType), strconv.FormatInt(a.Count, 10), cli.FormatTime(a.FirstSeen)}
	}
	security := make([][]string, len(rep.SecurityEvents))
	for i, e := range rep.SecurityEvents {
		security[i] = []string{cli.FormatTime(e.CreatedAt), string(e.Severity), e.Action, cli.SafeString(e.ActorID)}
	}

	days := make([]string, 0, len(rep.TotalsByDay))
	for d := range rep.TotalsByDay {
		days = append(days, d)
	}
	sort.Strings(days)
	byDay := make([][]string, len(days))
	for i, d := range days {
		byDay[i] = []string{d, strconv.FormatInt(rep.TotalsByDay[d], 10)}
	}

	cli.PrintTable(w,
		cli.Section{Title: "By severity", Headers: []string{"severity", "count"}, Rows: cli.CountRows(rep.TotalsBySeverity)},
		cli.Section{Title: "By action", Headers: []string{"action", "count"}, Rows: cli.CountRows(rep.TotalsByAction)},
		cli.Section{Title: "By subject", Headers: []string{"subject", "count"}, Rows: cli.CountRows(rep.TotalsBySubject)},
		cli.Section{Title: "By day", Headers: []string{"day", "count"}, Rows: byDay},
		cli.Section{Title: "Top actors", Headers: []string{"actor", "type", "count", "first seen"}, Rows: actors},
		cli.Section{Title: "Security events", Headers: []string{"time", "severity", "action", "actor"}, Rows: security},
	)
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withBackend(func(b *backend) error {
				stats, err := report.NewGenerator(b.writer.Store()).Stats(cmd.Context(), optional(workspace))
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if opts.json {
					return cli.PrintJSON(w, stats)
				}

				fmt.Fprintln(w)
				cli.PrintKV(w,
					"Total", strconv.FormatInt(stats.Total, 10),
					"Last 24h", strconv.FormatInt(stats.Last24Hours, 10),
					"Last 7d", strconv.FormatInt(stats.Last7Days, 10),
				)
				oldest, newest := "-", "-"
				if stats.Oldest != nil {
					oldest = cli.FormatTime(*stats.Oldest)
				}
				if stats.Newest != nil {
					newest = cli.FormatTime(*stats.Newest)
				}
				cli.PrintKV(w,
					"Security (7d)", strconv.FormatInt(stats.SecurityEvents, 10),
					"Oldest", oldest,
					"Newest", newest,
				)
				cli.PrintTable(w, cli.Section{Title: "By severity", Headers: []string{"severity", "count"}, Rows: cli.CountRows(stats.BySeverity)})
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&workspace, "workspace", "", "Limit to one workspace")
	return cmd
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
