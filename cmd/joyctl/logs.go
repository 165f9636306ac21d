// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/cli"
)

// filterFlags are the record filters shared by logs and export. Values use
// the same names as the API query parameters.
type filterFlags struct {
	actor       string
	action      string
	severity    string
	minSeverity string
	subjectType string
	subjectID   string
	workspace   string
	tag         string
	search      string
	from        string
	to          string
	days        int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.actor, "actor", "", "Actor id")
	flags.StringVar(&f.action, "action", "", "Exact action name")
	flags.StringVar(&f.severity, "severity", "", "Exact severity")
	flags.StringVar(&f.minSeverity, "min-severity", "", "Lowest severity included")
	flags.StringVar(&f.subjectType, "subject-type", "", "Subject type, e.g. ContentItem")
	flags.StringVar(&f.subjectID, "subject-id", "", "Subject id")
	flags.StringVar(&f.workspace, "workspace", "", "Workspace id")
	flags.StringVar(&f.tag, "tag", "", "Tag")
	flags.StringVar(&f.search, "search", "", "Substring of the action")
	flags.StringVar(&f.from, "from", "", "Start, RFC 3339 or YYYY-MM-DD")
	flags.StringVar(&f.to, "to", "", "End, RFC 3339 or YYYY-MM-DD")
	flags.IntVar(&f.days, "days", 0, "Only the last N days")
}

func (f *filterFlags) query(store audit.Store) (*audit.Query, error) {
	params := map[string]string{
		"actor_id":     f.actor,
		"action":       f.action,
		"severity":     f.severity,
		"min_severity": f.minSeverity,
		"subject_type": f.subjectType,
		"subject_id":   f.subjectID,
		"workspace_id": f.workspace,
		"tag":          f.tag,
		"search":       f.search,
		"from":         f.from,
		"to":           f.to,
	}
	if f.days > 0 {
		params["days"] = strconv.Itoa(f.days)
	}
	return audit.NewQuery(store).Apply(params)
}

func newLogsCmd(opts *rootOptions) *cobra.Command {
	var (
		filters filterFlags
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List recent audit records, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withBackend(func(b *backend) error {
				q, err := filters.query(b.writer.Store())
				if err != nil {
					return err
				}
				recs, err := q.Limit(cmd.Context(), limit)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if opts.json {
					return cli.PrintJSON(w, audit.ProjectAll(recs))
				}

				rows := make([][]string, len(recs))
				for i, r := range recs {
					subject := "-"
					if r.Subject != nil {
						subject = r.Subject.String()
					}
					rows[i] = []string{
						strconv.FormatInt(r.ID, 10),
						cli.FormatTime(r.CreatedAt),
						string(r.Severity),
						r.Action,
						string(r.ActorType) + ":" + cli.SafeString(r.ActorID),
						subject,
						strings.Join(r.Tags, ","),
					}
				}
				cli.PrintTable(w, cli.Section{
					Headers: []string{"id", "time", "severity", "action", "actor", "subject", "tags"},
					Rows:    rows,
				})
				return nil
			})
		},
	}

	filters.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum records to print")
	return cmd
}
