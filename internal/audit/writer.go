// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package audit

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/joy/internal/logging"
	"github.com/tomtom215/joy/internal/metrics"
)

// Entry is the input of Writer.Record.
type Entry struct {
	Action   string
	Severity Severity
	Tags     []string

	// Actor overrides the principal found in the context. Nil means "use the
	// context", and with nothing there the event is attributed to the system.
	Actor   Principal
	Subject *Subject

	OldValues Values
	NewValues Values

	WorkspaceID string
	ClientID    string

	// Request overrides the provenance found in the context.
	Request *RequestInfo

	// RequestData and ResponseData are snapshots of the triggering exchange.
	// Strings and []byte are stored verbatim, other values JSON encoded.
	RequestData  any
	ResponseData any
}

// Notifier receives every record after it has been stored.
type Notifier interface {
	Notify(ctx context.Context, rec Record)
}

// WriterConfig configures a Writer.
type WriterConfig struct {
	// PayloadMaxBytes caps request/response snapshots. Default MaxPayloadBytes.
	PayloadMaxBytes int

	// Strict rejects actions and tags outside the allow-lists.
	Strict         bool
	AllowedActions []string
	AllowedTags    []string
}

// Writer appends enriched records to a Store. It is the only producer of
// records.
type Writer struct {
	store     Store
	cfg       WriterConfig
	actions   map[string]struct{}
	tags      map[string]struct{}
	notifiers []Notifier
	now       func() time.Time
}

// NewWriter creates a Writer over store.
func NewWriter(store Store, cfg WriterConfig) *Writer {
	if cfg.PayloadMaxBytes <= 0 || cfg.PayloadMaxBytes > MaxPayloadBytes {
		cfg.PayloadMaxBytes = MaxPayloadBytes
	}
	w := &Writer{
		store:   store,
		cfg:     cfg,
		actions: toSet(cfg.AllowedActions),
		tags:    toSet(cfg.AllowedTags),
		now:     func() time.Time { return time.Now().UTC() },
	}
	return w
}

// AddNotifier registers n to receive stored records.
func (w *Writer) AddNotifier(n Notifier) {
	w.notifiers = append(w.notifiers, n)
}

// SetClock replaces the time source. Used by tests and backfills.
func (w *Writer) SetClock(now func() time.Time) {
	w.now = now
}

// Store returns the underlying store.
func (w *Writer) Store() Store { return w.store }

// Record validates e, enriches it and appends one record. Enrichment problems
// are logged and leave the affected fields null. Only validation and storage
// failures are returned.
func (w *Writer) Record(ctx context.Context, e Entry) (*Record, error) {
	rec, err := w.build(ctx, e)
	if err != nil {
		return nil, err
	}

	if err := w.store.Append(ctx, rec); err != nil {
		metrics.AuditWriteFailures.Inc()
		return nil, wrapStorage("append", err)
	}
	metrics.AuditRecordsWritten.WithLabelValues(string(rec.Severity)).Inc()

	for _, n := range w.notifiers {
		n.Notify(ctx, *rec)
	}
	return rec, nil
}

func (w *Writer) build(ctx context.Context, e Entry) (*Record, error) {
	action := strings.TrimSpace(e.Action)
	if action == "" {
		return nil, &ValidationError{Field: "action", Message: "must not be empty"}
	}
	if e.Subject != nil && (e.Subject.Type == "" || e.Subject.ID == "") {
		return nil, &ValidationError{Field: "subject", Message: "type and id are required"}
	}

	tags := normalizeTags(e.Tags)
	if w.cfg.Strict {
		if err := w.checkVocabulary(action, tags); err != nil {
			return nil, err
		}
	}

	rec := &Record{
		Action:    action,
		OldValues: e.OldValues.Clone(),
		NewValues: e.NewValues.Clone(),
		Severity:  w.severity(ctx, e.Severity),
		Tags:      tags,
		CreatedAt: w.now(),
	}
	if e.Subject != nil {
		s := *e.Subject
		rec.Subject = &s
	}
	rec.WorkspaceID = optional(e.WorkspaceID)
	rec.ClientID = optional(e.ClientID)

	w.attachActor(ctx, rec, e.Actor)
	w.attachRequest(ctx, rec, e.Request)
	rec.RequestData = w.payload(ctx, "request_data", e.RequestData)
	rec.ResponseData = w.payload(ctx, "response_data", e.ResponseData)

	return rec, nil
}

// Actions and tags that Joy writes itself. Strict mode always admits them so
// cleanup and export can record their own runs.
var (
	builtinActions = toSet([]string{ActionAuditCleanup, ActionAuditExport, ActionMagicLinkAccessed})
	builtinTags    = toSet([]string{TagSecurity, TagMagicLink, TagAdmin, TagExport, TagCleanup, TagSystemCleanup})
)

func (w *Writer) checkVocabulary(action string, tags []string) error {
	if _, builtin := builtinActions[action]; !builtin && len(w.actions) > 0 {
		if _, ok := w.actions[action]; !ok {
			return &ValidationError{Field: "action", Message: "not in the allowed vocabulary: " + action}
		}
	}
	if len(w.tags) > 0 {
		for _, t := range tags {
			if _, builtin := builtinTags[t]; builtin {
				continue
			}
			if _, ok := w.tags[t]; !ok {
				return &ValidationError{Field: "tags", Message: "not in the allowed vocabulary: " + t}
			}
		}
	}
	return nil
}

func (w *Writer) severity(ctx context.Context, s Severity) Severity {
	if s == "" {
		return SeverityInfo
	}
	if !s.Valid() {
		enrichmentFailed(ctx, "severity", "unknown severity, recorded as info")
		return SeverityInfo
	}
	return s
}

func (w *Writer) attachActor(ctx context.Context, rec *Record, p Principal) {
	if p == nil {
		p, _ = PrincipalFromContext(ctx)
	}
	if p == nil {
		rec.ActorType = ActorSystem
		return
	}

	rec.ActorType = p.AuditActorType()
	if !rec.ActorType.Valid() {
		enrichmentFailed(ctx, "actor_type", "unknown actor type, recorded as system")
		rec.ActorType = ActorSystem
	}
	rec.ActorID = optional(p.AuditActorID())
}

func (w *Writer) attachRequest(ctx context.Context, rec *Record, info *RequestInfo) {
	if info == nil {
		if fromCtx, ok := RequestInfoFromContext(ctx); ok {
			info = &fromCtx
		}
	}
	if info == nil {
		return
	}
	rec.IPAddress = optional(info.IPAddress)
	rec.UserAgent = optional(info.UserAgent)
}

func (w *Writer) payload(ctx context.Context, field string, v any) *string {
	text, err := encodePayload(v)
	if err != nil {
		enrichmentFailed(ctx, field, err.Error())
		return nil
	}
	if text == "" {
		return nil
	}
	text, cut := TruncatePayload(text, w.cfg.PayloadMaxBytes)
	if cut {
		metrics.AuditPayloadTruncations.WithLabelValues(field).Inc()
	}
	return &text
}

func enrichmentFailed(ctx context.Context, field, reason string) {
	metrics.AuditEnrichmentFailures.WithLabelValues(field).Inc()
	logging.Ctx(ctx).Debug().Str("field", field).Str("reason", reason).Msg("Audit enrichment skipped")
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, i := range items {
		out[i] = struct{}{}
	}
	return out
}

// BestEffort logs a failed audit write without failing the caller. Domain
// operations use it so that a broken audit store never breaks the primary
// action.
func BestEffort(ctx context.Context, rec *Record, err error) *Record {
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Audit write failed")
	}
	return rec
}
