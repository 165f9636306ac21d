// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package alert

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/joy/internal/config"
)

// NewNATSPublisher connects a Watermill publisher to the broker at cfg.NATSURL.
// Alerts are fire-and-forget notifications, so core NATS is used without
// JetStream persistence.
func NewNATSPublisher(cfg config.AlertConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	if cfg.NATSURL == "" {
		return nil, fmt.Errorf("alert: nats url is required")
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = natsgo.DefaultTimeout
	}

	natsOpts := []natsgo.Option{
		natsgo.Name("joy-audit-alerts"),
		natsgo.Timeout(connectTimeout),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.NATSURL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create alert publisher: %w", err)
	}
	return pub, nil
}
