// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

/*
Package alert forwards urgent audit records to a message broker.

A Notifier is registered on the audit writer. After each successful append it
checks the record against the configured minimum severity and the security
tag, and publishes qualifying records as JSON to a Watermill topic. The
production publisher is NATS (watermill-nats); tests use the in-process
gochannel pub/sub.

Publishing is best-effort. A broker outage never fails the audited operation:
failures are logged, counted, and after enough consecutive failures a circuit
breaker short-circuits further attempts until the broker recovers.

	pub, err := alert.NewNATSPublisher(cfg.Alert, alert.NewLoggerAdapter(logging.WithComponent("alert")))
	notifier := alert.NewNotifier(pub, alert.Options{Topic: cfg.Alert.Topic, MinSeverity: audit.SeverityError})
	writer.AddNotifier(notifier)

Consumers (the Slack notifier, on-call paging) subscribe to the topic and
receive audit.Projection documents with the metadata keys listed in this
package.
*/
package alert
