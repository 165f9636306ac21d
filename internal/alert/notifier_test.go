// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package alert

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/joy/internal/audit"
	"github.com/tomtom215/joy/internal/logging"
)

func newPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	t.Cleanup(func() { _ = ps.Close() })
	return ps
}

func subscribe(t *testing.T, ps *gochannel.GoChannel, topic string) <-chan *message.Message {
	t.Helper()
	msgs, err := ps.Subscribe(context.Background(), topic)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	return msgs
}

func receive(t *testing.T, msgs <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-msgs:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for alert")
		return nil
	}
}

func assertNoMessage(t *testing.T, msgs <-chan *message.Message) {
	t.Helper()
	select {
	case msg := <-msgs:
		msg.Ack()
		t.Fatalf("unexpected alert %s", msg.Payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func record(id int64, severity audit.Severity, tags ...string) audit.Record {
	actor := "u1"
	return audit.Record{
		ID:        id,
		Action:    "Login Failed",
		Severity:  severity,
		Tags:      tags,
		ActorID:   &actor,
		ActorType: audit.ActorUser,
		CreatedAt: time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestNotifier_PublishesQualifyingRecords(t *testing.T) {
	ps := newPubSub(t)
	msgs := subscribe(t, ps, "alerts")
	n := NewNotifier(ps, Options{Topic: "alerts", MinSeverity: audit.SeverityError})

	ctx := logging.ContextWithCorrelationID(context.Background(), "corr-1")
	n.Notify(ctx, record(7, audit.SeverityCritical))

	msg := receive(t, msgs)
	if msg.UUID == "" {
		t.Error("message uuid is empty")
	}
	if got := msg.Metadata.Get(MetaSeverity); got != "critical" {
		t.Errorf("severity metadata = %q, want critical", got)
	}
	if got := msg.Metadata.Get(MetaRecordID); got != "7" {
		t.Errorf("record_id metadata = %q, want 7", got)
	}
	if got := msg.Metadata.Get(MetaCorrelationID); got != "corr-1" {
		t.Errorf("correlation_id metadata = %q, want corr-1", got)
	}

	var p audit.Projection
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		t.Fatalf("payload is not a projection: %v", err)
	}
	if p.ID != 7 || p.Action != "Login Failed" || p.ActorID == nil || *p.ActorID != "u1" {
		t.Errorf("projection = %+v", p)
	}
	if p.OldValues == nil || p.Tags == nil {
		t.Error("projection must carry empty maps and tags, not null")
	}
}

func TestNotifier_Qualifies(t *testing.T) {
	t.Parallel()
	n := NewNotifier(newPubSub(t), Options{MinSeverity: audit.SeverityWarning})

	tests := []struct {
		name string
		rec  audit.Record
		want bool
	}{
		{"info", record(1, audit.SeverityInfo), false},
		{"warning", record(2, audit.SeverityWarning), true},
		{"error", record(3, audit.SeverityError), true},
		{"info security", record(4, audit.SeverityInfo, audit.TagSecurity), true},
		{"info other tag", record(5, audit.SeverityInfo, audit.TagAdmin), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Qualifies(&tt.rec); got != tt.want {
				t.Errorf("Qualifies() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotifier_SkipsBelowThreshold(t *testing.T) {
	ps := newPubSub(t)
	msgs := subscribe(t, ps, DefaultTopic)
	n := NewNotifier(ps, Options{})

	n.Notify(context.Background(), record(1, audit.SeverityWarning))
	assertNoMessage(t, msgs)

	n.Notify(context.Background(), record(2, audit.SeverityInfo, audit.TagSecurity))
	if got := receive(t, msgs).Metadata.Get(MetaTags); got != "security" {
		t.Errorf("tags metadata = %q, want security", got)
	}
}

type failingPublisher struct {
	calls atomic.Int32
}

func (p *failingPublisher) Publish(string, ...*message.Message) error {
	p.calls.Add(1)
	return errors.New("broker unavailable")
}

func (p *failingPublisher) Close() error { return nil }

func TestNotifier_BreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()
	pub := &failingPublisher{}
	n := NewNotifier(pub, Options{Breaker: BreakerConfig{Name: "test-breaker", MaxFailures: 2, Timeout: time.Minute}})

	rec := record(1, audit.SeverityCritical)
	for i := 0; i < 2; i++ {
		if err := n.Publish(context.Background(), &rec); err == nil {
			t.Fatalf("publish %d succeeded, want error", i)
		}
	}
	if n.BreakerState() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v, want open", n.BreakerState())
	}

	err := n.Publish(context.Background(), &rec)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if got := pub.calls.Load(); got != 2 {
		t.Errorf("publisher called %d times, want 2", got)
	}

	// Notify swallows the rejection.
	n.Notify(context.Background(), rec)
}

func TestNotifier_Close(t *testing.T) {
	t.Parallel()
	n := NewNotifier(newPubSub(t), Options{})
	if err := n.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	rec := record(1, audit.SeverityCritical)
	if err := n.Publish(context.Background(), &rec); !errors.Is(err, ErrClosed) {
		t.Errorf("error = %v, want ErrClosed", err)
	}
}

func TestNotifier_WriterIntegration(t *testing.T) {
	ps := newPubSub(t)
	msgs := subscribe(t, ps, "alerts")

	w := audit.NewWriter(audit.NewMemoryStore(), audit.WriterConfig{})
	w.AddNotifier(NewNotifier(ps, Options{Topic: "alerts"}))

	if _, err := w.Record(context.Background(), audit.Entry{Action: "Content Viewed"}); err != nil {
		t.Fatal(err)
	}
	assertNoMessage(t, msgs)

	if _, err := w.Record(context.Background(), audit.Entry{Action: "Magic Link Rejected", Severity: audit.SeverityError}); err != nil {
		t.Fatal(err)
	}
	if got := receive(t, msgs).Metadata.Get(MetaAction); got != "Magic Link Rejected" {
		t.Errorf("action metadata = %q", got)
	}
}
