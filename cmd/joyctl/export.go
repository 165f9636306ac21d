// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/joy/internal/cli"
	"github.com/tomtom215/joy/internal/export"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		filters filterFlags
		format  string
		out     string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write matching audit records to a file",
		Long: `Write matching audit records, newest first, as csv, jsonl or cef.
Without --out the records go to stdout and the summary to stderr.
Exports stop at --limit (default AUDIT_EXPORT_MAX_ROWS) and are themselves
recorded as audit_export events.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withBackend(func(b *backend) (err error) {
				engine := export.NewEngine(b.writer, export.WithMaxRows(opts.cfg.Audit.ExportMaxRows))
				if _, err := engine.Lookup(format); err != nil {
					return err
				}
				q, err := filters.query(b.writer.Store())
				if err != nil {
					return err
				}

				var dst io.Writer = cmd.OutOrStdout()
				summary := cmd.ErrOrStderr()
				if out != "" {
					// 0600: audit exports carry IP addresses and payloads (gosec G302)
					f, openErr := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
					if openErr != nil {
						return fmt.Errorf("create %s: %w", out, openErr)
					}
					defer closeInto(&err, f, out)
					dst = f
					summary = cmd.OutOrStdout()
				}

				res, err := engine.Export(cmd.Context(), export.Request{Query: q, Format: format, MaxRows: limit}, dst)
				if err != nil {
					return err
				}

				if opts.json {
					return cli.PrintJSON(summary, res)
				}
				fmt.Fprintln(summary)
				cli.PrintKV(summary, "Format", res.Format, "Rows", strconv.Itoa(res.Rows))
				if out != "" {
					cli.PrintKV(summary, "Output", out)
				}
				if res.Truncated {
					fmt.Fprintf(summary, "  %s\n", cli.WarnStyle.Render("Truncated at the row limit; narrow the filters or raise --limit."))
				}
				return nil
			})
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv, jsonl or cef")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Row cap, lower than the configured maximum")
	return cmd
}

// closeInto closes c and stores a close failure in *err unless an earlier
// error is already set.
func closeInto(err *error, c io.Closer, name string) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("close %s: %w", name, cerr)
	}
}
