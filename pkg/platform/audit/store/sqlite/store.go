package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	audit "sovereign/pkg/platform/audit"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id         TEXT PRIMARY KEY,
	seq        INTEGER NOT NULL,
	category   TEXT NOT NULL,
	timestamp  INTEGER NOT NULL,
	device_id  TEXT NOT NULL DEFAULT '',
	subject    TEXT NOT NULL DEFAULT '',
	action     TEXT NOT NULL,
	decision   TEXT NOT NULL DEFAULT '',
	reason     TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_events_device ON audit_events (device_id, seq);`

// Store implements audit.Store on the guard's local sqlite database. Events
// are append-only and survive restarts, so forensics can read what happened
// while the device was locked.
type Store struct {
	db *sql.DB
}

// New ensures the audit table exists on db.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create audit schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Append writes one event. Category is always derived from the action.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	category := audit.AuditEvent(event.Action).Category()

	query := `
		INSERT INTO audit_events (
			id, seq, category, timestamp, device_id, subject,
			action, decision, reason, request_id
		)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM audit_events), ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(),
		string(category),
		event.Timestamp.UnixNano(),
		event.DeviceID,
		event.Subject,
		event.Action,
		event.Decision,
		event.Reason,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByDevice returns a device's events, oldest first.
func (s *Store) ListByDevice(ctx context.Context, deviceID string) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, device_id, subject, action,
			   decision, reason, request_id
		FROM audit_events
		WHERE device_id = ?
		ORDER BY seq ASC
	`
	rows, err := s.db.QueryContext(ctx, query, deviceID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent returns the last limit events, oldest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, device_id, subject, action,
			   decision, reason, request_id
		FROM (
			SELECT * FROM audit_events ORDER BY seq DESC LIMIT ?
		)
		ORDER BY seq ASC
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			e        audit.Event
			category string
			ts       int64
		)
		if err := rows.Scan(&category, &ts, &e.DeviceID, &e.Subject, &e.Action,
			&e.Decision, &e.Reason, &e.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		e.Timestamp = time.Unix(0, ts)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
