// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package main

import (
	"github.com/tomtom215/joy/internal/alert"
	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/config"
	"github.com/tomtom215/joy/internal/logging"
)

// initAlerts connects the alert publisher. It returns nil, nil when alerts
// are disabled.
func initAlerts(cfg config.AlertConfig) (*alert.Notifier, error) {
	if !cfg.Enabled {
		logging.Info().Msg("Audit alerts disabled (ALERT_ENABLED=false)")
		return nil, nil
	}

	publisher, err := alert.NewNATSPublisher(cfg, alert.NewLoggerAdapter(logging.WithComponent("alert")))
	if err != nil {
		return nil, err
	}

	notifier := alert.NewNotifier(publisher, alert.Options{
		Topic:       cfg.Topic,
		MinSeverity: audit.Severity(cfg.MinSeverity),
		Breaker: alert.BreakerConfig{
			MaxFailures: cfg.BreakerMaxFailures,
			Timeout:     cfg.BreakerTimeout,
		},
	})

	logging.Info().
		Str("nats_url", cfg.NATSURL).
		Str("topic", notifier.Topic()).
		Str("min_severity", cfg.MinSeverity).
		Msg("Audit alerts enabled")
	return notifier, nil
}
