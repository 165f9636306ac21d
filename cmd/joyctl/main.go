// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

// Command joyctl is the operator CLI for the Joy audit log. It works on the
// database directly, so it also runs while the server is down.
//
//	joyctl cleanup --days 90
//	joyctl cleanup --all
//	joyctl report --days 30 --workspace w1
//	joyctl stats
//	joyctl logs --severity error --limit 20
//	joyctl export --format csv --out audit.csv --days 7
//	joyctl token --subject ops --role admin --ttl 1h
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(openBackend).ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
