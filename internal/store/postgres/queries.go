package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/alfredjeanlab/chime/internal/model"
)

// eventColumns is the column list used for SELECT statements on the events table.
const eventColumns = `id, title, participants, event_time_zone, start_utc, end_utc,
	created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateUser(ctx context.Context, db executor, u *model.User) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, time_zone)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		u.ID, u.Name, u.TimeZone,
	).Scan(&u.CreatedAt)
}

func queryGetUser(ctx context.Context, db executor, id string) (*model.User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, name, time_zone, created_at
		FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func queryListUsers(ctx context.Context, db executor) ([]*model.User, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, time_zone, created_at
		FROM users
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func queryResolveUsers(ctx context.Context, db executor, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, time_zone, created_at
		FROM users WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func queryCreateEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (
			id, title, participants, event_time_zone, start_utc, end_utc,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at`,
		e.ID,
		e.Title,
		pq.Array(e.Participants),
		e.TimeZone,
		e.StartUTC,
		e.EndUTC,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
}

func queryGetEvent(ctx context.Context, db executor, id string, forUpdate bool) (*model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	if forUpdate {
		q += ` FOR UPDATE`
	}
	row := db.QueryRowContext(ctx, q, id)
	return scanEvent(row)
}

func queryListEvents(ctx context.Context, db executor) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		ORDER BY start_utc ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func queryListEventsForParticipant(ctx context.Context, db executor, participantID string) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE $1 = ANY(participants)
		ORDER BY start_utc ASC, id ASC`,
		participantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func queryUpdateEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		UPDATE events SET
			title = $2,
			participants = $3,
			event_time_zone = $4,
			start_utc = $5,
			end_utc = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		e.ID,
		e.Title,
		pq.Array(e.Participants),
		e.TimeZone,
		e.StartUTC,
		e.EndUTC,
	).Scan(&e.UpdatedAt)
}

func queryAppendAuditEntry(ctx context.Context, db executor, entry *model.AuditEntry) error {
	oldValues, err := json.Marshal(entry.OldValues)
	if err != nil {
		return fmt.Errorf("marshal old values: %w", err)
	}
	newValues, err := json.Marshal(entry.NewValues)
	if err != nil {
		return fmt.Errorf("marshal new values: %w", err)
	}
	return db.QueryRowContext(ctx, `
		INSERT INTO event_audit_log (event_id, changed_by, old_values, new_values)
		VALUES ($1, $2, $3, $4)
		RETURNING id, changed_at`,
		entry.EventID, entry.ChangedBy, oldValues, newValues,
	).Scan(&entry.ID, &entry.ChangedAt)
}

func queryGetAuditEntries(ctx context.Context, db executor, eventID string) ([]*model.AuditEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, event_id, changed_by, old_values, new_values, changed_at
		FROM event_audit_log
		WHERE event_id = $1
		ORDER BY changed_at DESC, id DESC`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAuditEntries(rows)
}
