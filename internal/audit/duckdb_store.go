// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/joy/internal/database/query"
	"github.com/tomtom215/joy/internal/logging"
	"github.com/tomtom215/joy/internal/metrics"
)

const auditTable = "audit_logs"

// DuckDBStore implements Store on a DuckDB table. Every write is a single
// INSERT, so concurrent writers need no extra locking.
type DuckDBStore struct {
	db *sql.DB
}

// NewDuckDBStore wraps db. Call CreateTable before first use.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{db: db}
}

// CreateTable creates the audit_logs table, its id sequence and indexes.
func (s *DuckDBStore) CreateTable(ctx context.Context) error {
	schema := `
		CREATE SEQUENCE IF NOT EXISTS audit_logs_id_seq START 1;

		CREATE TABLE IF NOT EXISTS audit_logs (
			id BIGINT PRIMARY KEY DEFAULT nextval('audit_logs_id_seq'),
			action TEXT NOT NULL,
			subject_type TEXT,
			subject_id TEXT,
			old_values TEXT NOT NULL DEFAULT '{}',
			new_values TEXT NOT NULL DEFAULT '{}',
			actor_id TEXT,
			actor_type TEXT NOT NULL,
			workspace_id TEXT,
			client_id TEXT,
			severity TEXT NOT NULL,
			tags TEXT NOT NULL DEFAULT '[]',
			tag_index TEXT NOT NULL DEFAULT '|',
			request_data TEXT,
			response_data TEXT,
			ip_address TEXT,
			user_agent TEXT,
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs(created_at);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON audit_logs(action);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_actor ON audit_logs(actor_id);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_subject ON audit_logs(subject_type, subject_id);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_workspace ON audit_logs(workspace_id);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_severity ON audit_logs(severity)
	`

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute audit schema statement: %w", err)
		}
	}

	logging.Info().Str("table", auditTable).Msg("Audit table created/verified")
	return nil
}

// Append implements Store.
func (s *DuckDBStore) Append(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("record cannot be nil")
	}

	oldValues, err := marshalValues(rec.OldValues)
	if err != nil {
		return fmt.Errorf("failed to encode old_values: %w", err)
	}
	newValues, err := marshalValues(rec.NewValues)
	if err != nil {
		return fmt.Errorf("failed to encode new_values: %w", err)
	}
	tags, err := json.Marshal(nonNilTags(rec.Tags))
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	var subjectType, subjectID *string
	if rec.Subject != nil {
		subjectType, subjectID = &rec.Subject.Type, &rec.Subject.ID
	}

	stmt := `
		INSERT INTO audit_logs (
			action, subject_type, subject_id, old_values, new_values,
			actor_id, actor_type, workspace_id, client_id,
			severity, tags, tag_index,
			request_data, response_data, ip_address, user_agent, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	start := time.Now()
	err = s.db.QueryRowContext(ctx, stmt,
		rec.Action, subjectType, subjectID, oldValues, newValues,
		rec.ActorID, string(rec.ActorType), rec.WorkspaceID, rec.ClientID,
		string(rec.Severity), string(tags), tagIndex(rec.Tags),
		rec.RequestData, rec.ResponseData, rec.IPAddress, rec.UserAgent, rec.CreatedAt.UTC(),
	).Scan(&rec.ID)
	metrics.RecordDBQuery("insert", auditTable, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *DuckDBStore) Get(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)

	var scanned scannedRecord
	if err := row.Scan(scanned.destinations()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get audit record: %w", err)
	}
	return scanned.toRecord(), nil
}

// Find implements Store.
func (s *DuckDBStore) Find(ctx context.Context, filter Filter) ([]Record, error) {
	where, args := buildConditions(filter)
	stmt := selectColumns + where + " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		stmt += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	metrics.RecordDBQuery("select", auditTable, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var scanned scannedRecord
		if err := rows.Scan(scanned.destinations()...); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, *scanned.toRecord())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit records: %w", err)
	}
	return records, nil
}

// Count implements Store.
func (s *DuckDBStore) Count(ctx context.Context, filter Filter) (int64, error) {
	where, args := buildConditions(filter)

	var n int64
	start := time.Now()
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_logs"+where, args...).Scan(&n)
	metrics.RecordDBQuery("count", auditTable, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit records: %w", err)
	}
	return n, nil
}

// DeleteBefore implements Store.
func (s *DuckDBStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	start := time.Now()
	result, err := s.db.ExecContext(ctx, "DELETE FROM audit_logs WHERE created_at < ?", cutoff.UTC())
	metrics.RecordDBQuery("delete", auditTable, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit records: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted count: %w", err)
	}
	if n > 0 {
		logging.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("Deleted expired audit records")
	}
	return n, nil
}

const selectColumns = `
	SELECT
		id, action, subject_type, subject_id, old_values, new_values,
		actor_id, actor_type, workspace_id, client_id, severity, tags,
		request_data, response_data, ip_address, user_agent, created_at
	FROM audit_logs`

// buildConditions renders filter as a WHERE clause (with leading space) and
// its positional arguments.
func buildConditions(filter Filter) (string, []interface{}) {
	wb := query.NewWhereBuilder().
		AddEquals("actor_id", filter.ActorID).
		AddEquals("subject_type", filter.SubjectType).
		AddEquals("subject_id", filter.SubjectID).
		AddEquals("workspace_id", filter.WorkspaceID).
		AddEquals("client_id", filter.ClientID)

	query.AddIn(wb, "action", filter.Actions)
	query.AddIn(wb, "severity", filter.Severities)
	query.AddIn(wb, "actor_type", filter.ActorTypes)

	if filter.Tag != "" {
		wb.AddClause("contains(tag_index, ?)", "|"+sanitizeTag(filter.Tag)+"|")
	}
	if filter.Search != "" {
		wb.AddClause("contains(lower(action), ?)", strings.ToLower(filter.Search))
	}
	wb.AddTimeRange("created_at", filter.From, filter.To)
	if filter.Cursor != nil {
		at := filter.Cursor.CreatedAt.UTC()
		wb.AddClause("(created_at < ? OR (created_at = ? AND id < ?))", at, at, filter.Cursor.ID)
	}

	if wb.IsEmpty() {
		return "", nil
	}
	where, args := wb.BuildWithPrefix()
	return " " + where, args
}

// tagIndex renders tags as "|a|b|" so a single tag can be matched with
// contains().
func tagIndex(tags []string) string {
	var b strings.Builder
	b.WriteByte('|')
	for _, t := range tags {
		b.WriteString(sanitizeTag(t))
		b.WriteByte('|')
	}
	return b.String()
}

func sanitizeTag(t string) string {
	return strings.ReplaceAll(t, "|", "_")
}

func marshalValues(v Values) (string, error) {
	if v == nil {
		return "{}", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// scannedRecord holds raw column values for one row.
type scannedRecord struct {
	rec          Record
	subjectType  sql.NullString
	subjectID    sql.NullString
	oldValues    string
	newValues    string
	actorID      sql.NullString
	actorType    string
	workspaceID  sql.NullString
	clientID     sql.NullString
	severity     string
	tags         string
	requestData  sql.NullString
	responseData sql.NullString
	ipAddress    sql.NullString
	userAgent    sql.NullString
}

func (d *scannedRecord) destinations() []interface{} {
	return []interface{}{
		&d.rec.ID, &d.rec.Action, &d.subjectType, &d.subjectID, &d.oldValues, &d.newValues,
		&d.actorID, &d.actorType, &d.workspaceID, &d.clientID, &d.severity, &d.tags,
		&d.requestData, &d.responseData, &d.ipAddress, &d.userAgent, &d.rec.CreatedAt,
	}
}

func (d *scannedRecord) toRecord() *Record {
	r := d.rec
	r.CreatedAt = r.CreatedAt.UTC()
	r.ActorType = ActorType(d.actorType)
	r.Severity = Severity(d.severity)
	if d.subjectType.Valid {
		r.Subject = &Subject{Type: d.subjectType.String, ID: d.subjectID.String}
	}
	r.OldValues = unmarshalValues(d.oldValues)
	r.NewValues = unmarshalValues(d.newValues)
	r.Tags = []string{}
	if err := json.Unmarshal([]byte(d.tags), &r.Tags); err != nil {
		logging.Debug().Err(err).Int64("id", r.ID).Msg("Failed to parse audit tags")
	}
	r.ActorID = nullable(d.actorID)
	r.WorkspaceID = nullable(d.workspaceID)
	r.ClientID = nullable(d.clientID)
	r.RequestData = nullable(d.requestData)
	r.ResponseData = nullable(d.responseData)
	r.IPAddress = nullable(d.ipAddress)
	r.UserAgent = nullable(d.userAgent)
	return &r
}

func unmarshalValues(raw string) Values {
	v := Values{}
	if raw == "" {
		return v
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		logging.Debug().Err(err).Msg("Failed to parse audit values")
		return Values{}
	}
	if v == nil {
		return Values{}
	}
	return v
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
