// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/auth"
	"github.com/tomtom215/joy/internal/cli"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the audit API",
		Long: `Mint an HS256 token signed with JWT_SECRET for calling the audit API,
for example from a SIEM poller. Viewers may read and export; admins may also
run cleanup.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if role != auth.RoleViewer && role != auth.RoleAdmin {
				return fmt.Errorf("role must be %q or %q", auth.RoleViewer, auth.RoleAdmin)
			}
			manager, err := auth.NewJWTManager(&opts.cfg.Security)
			if err != nil {
				return err
			}
			token, err := manager.GenerateToken(subject, role, audit.ActorSystem, ttl)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.json {
				return cli.PrintJSON(w, map[string]interface{}{
					"token":      token,
					"subject":    subject,
					"role":       role,
					"expires_at": time.Now().Add(ttl).UTC(),
				})
			}
			fmt.Fprintln(w, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "joyctl", "Token subject, recorded as the actor id")
	cmd.Flags().StringVar(&role, "role", auth.RoleViewer, "viewer or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	return cmd
}
