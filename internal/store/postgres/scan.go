package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/alfredjeanlab/chime/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanUser scans a single row into a model.User.
func scanUser(row scannable) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.TimeZone, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// scanUsers scans multiple rows into a slice of model.User pointers.
func scanUsers(rows *sql.Rows) ([]*model.User, error) {
	var users []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// scanEvent scans a single row into a model.Event.
// The row must contain columns in the order defined by eventColumns.
func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var participants pq.StringArray

	err := row.Scan(
		&e.ID,
		&e.Title,
		&participants,
		&e.TimeZone,
		&e.StartUTC,
		&e.EndUTC,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Participants = []string(participants)
	return &e, nil
}

// scanEvents scans multiple rows into a slice of model.Event pointers.
func scanEvents(rows *sql.Rows) ([]*model.Event, error) {
	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// scanAuditEntry scans a single row into a model.AuditEntry, decoding the
// JSONB snapshot columns.
func scanAuditEntry(row scannable) (*model.AuditEntry, error) {
	var entry model.AuditEntry
	var oldValues, newValues []byte

	err := row.Scan(
		&entry.ID,
		&entry.EventID,
		&entry.ChangedBy,
		&oldValues,
		&newValues,
		&entry.ChangedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(oldValues, &entry.OldValues); err != nil {
		return nil, fmt.Errorf("decode old values for entry %d: %w", entry.ID, err)
	}
	if err := json.Unmarshal(newValues, &entry.NewValues); err != nil {
		return nil, fmt.Errorf("decode new values for entry %d: %w", entry.ID, err)
	}

	return &entry, nil
}

// scanAuditEntries scans multiple rows into a slice of model.AuditEntry pointers.
func scanAuditEntries(rows *sql.Rows) ([]*model.AuditEntry, error) {
	var entries []*model.AuditEntry
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
