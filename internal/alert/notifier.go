// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package alert

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/logging"
	"github.com/tomtom215/joy/internal/metrics"
)

// DefaultTopic is the topic alerts are published to when none is configured.
const DefaultTopic = "joy.audit.alerts"

// Metadata keys set on every alert message.
const (
	MetaAction        = "action"
	MetaSeverity      = "severity"
	MetaTags          = "tags"
	MetaRecordID      = "record_id"
	MetaCorrelationID = "correlation_id"
)

// Publish outcomes, used as the status label of joy_alerts_published_total.
const (
	StatusPublished = "published"
	StatusFailed    = "failed"
	StatusRejected  = "rejected"
	StatusEncode    = "encode_error"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("alert notifier is closed")

// Options configures a Notifier.
type Options struct {
	Topic string

	// MinSeverity is the lowest severity forwarded. Records tagged security
	// are forwarded regardless. Default error.
	MinSeverity audit.Severity

	Breaker BreakerConfig
}

// Notifier implements audit.Notifier by publishing qualifying records.
type Notifier struct {
	publisher   message.Publisher
	breaker     *gobreaker.CircuitBreaker[interface{}]
	topic       string
	minSeverity audit.Severity

	mu     sync.RWMutex
	closed bool
}

var _ audit.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier over publisher.
func NewNotifier(publisher message.Publisher, opts Options) *Notifier {
	if opts.Topic == "" {
		opts.Topic = DefaultTopic
	}
	if !opts.MinSeverity.Valid() {
		opts.MinSeverity = audit.SeverityError
	}
	return &Notifier{
		publisher:   publisher,
		breaker:     NewBreaker(opts.Breaker),
		topic:       opts.Topic,
		minSeverity: opts.MinSeverity,
	}
}

// Topic returns the topic alerts are published to.
func (n *Notifier) Topic() string { return n.topic }

// Qualifies reports whether rec is forwarded.
func (n *Notifier) Qualifies(rec *audit.Record) bool {
	return rec.Severity.AtLeast(n.minSeverity) || rec.HasTag(audit.TagSecurity)
}

// Notify implements audit.Notifier. Failures are logged and counted, never
// returned.
func (n *Notifier) Notify(ctx context.Context, rec audit.Record) {
	if !n.Qualifies(&rec) {
		return
	}
	if err := n.Publish(ctx, &rec); err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Int64("record_id", rec.ID).
			Str("action", rec.Action).
			Str("topic", n.topic).
			Msg("Failed to publish audit alert")
	}
}

// Publish sends rec unconditionally.
func (n *Notifier) Publish(ctx context.Context, rec *audit.Record) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return ErrClosed
	}

	msg, err := newMessage(ctx, rec)
	if err != nil {
		metrics.AlertsPublished.WithLabelValues(StatusEncode).Inc()
		return err
	}

	_, err = n.breaker.Execute(func() (interface{}, error) {
		return nil, n.publisher.Publish(n.topic, msg)
	})
	switch {
	case err == nil:
		metrics.AlertsPublished.WithLabelValues(StatusPublished).Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.AlertsPublished.WithLabelValues(StatusRejected).Inc()
	default:
		metrics.AlertsPublished.WithLabelValues(StatusFailed).Inc()
	}
	return err
}

// BreakerState returns the current circuit breaker state.
func (n *Notifier) BreakerState() gobreaker.State {
	return n.breaker.State()
}

// Close closes the underlying publisher. Subsequent publishes fail with ErrClosed.
func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	return n.publisher.Close()
}

func newMessage(ctx context.Context, rec *audit.Record) (*message.Message, error) {
	payload, err := json.Marshal(audit.Project(rec))
	if err != nil {
		return nil, fmt.Errorf("encode alert: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(MetaAction, rec.Action)
	msg.Metadata.Set(MetaSeverity, string(rec.Severity))
	msg.Metadata.Set(MetaTags, strings.Join(rec.Tags, ","))
	msg.Metadata.Set(MetaRecordID, strconv.FormatInt(rec.ID, 10))
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetaCorrelationID, id)
	}
	msg.SetContext(ctx)
	return msg, nil
}
