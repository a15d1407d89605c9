package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/alfredjeanlab/chime/internal/model"
	"github.com/alfredjeanlab/chime/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

var eventRowColumns = []string{
	"id", "title", "participants", "event_time_zone", "start_utc", "end_utc",
	"created_at", "updated_at",
}

var auditRowColumns = []string{
	"id", "event_id", "changed_by", "old_values", "new_values", "changed_at",
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestCreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("usr-abc", "Ada", "Europe/London").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	u := &model.User{ID: "usr-abc", Name: "Ada", TimeZone: "Europe/London"}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	if !u.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", u.CreatedAt, now)
	}
}

func TestResolveUsers(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "time_zone", "created_at"}).
		AddRow("usr-1", "Ada", "Europe/London", now).
		AddRow("usr-2", "Grace", "America/New_York", now)
	mock.ExpectQuery(`SELECT id, name, time_zone, created_at\s+FROM users WHERE id = ANY`).
		WithArgs(pq.Array([]string{"usr-1", "usr-2", "usr-3"})).
		WillReturnRows(rows)

	users, err := s.ResolveUsers(context.Background(), []string{"usr-1", "usr-2", "usr-3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 {
		t.Fatalf("resolved %d users, want 2", len(users))
	}
	if users[0].ID != "usr-1" || users[1].ID != "usr-2" {
		t.Errorf("unexpected ids: %s, %s", users[0].ID, users[1].ID)
	}
}

func TestResolveUsersEmpty(t *testing.T) {
	db, _ := newMockDB(t)
	s := &PostgresStore{db: db}

	users, err := s.ResolveUsers(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if users != nil {
		t.Errorf("expected nil result for empty id list, got %v", users)
	}
}

func TestCreateEvent(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	now := time.Now().UTC()
	start := now.Add(time.Hour)
	end := now.Add(2 * time.Hour)

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs("ev-abc", "Standup", pq.Array([]string{"usr-1", "usr-2"}),
			"America/New_York", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	e := &model.Event{
		ID:           "ev-abc",
		Title:        "Standup",
		Participants: []string{"usr-1", "usr-2"},
		TimeZone:     "America/New_York",
		StartUTC:     start,
		EndUTC:       end,
	}
	if err := s.CreateEvent(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	if !e.CreatedAt.Equal(now) || !e.UpdatedAt.Equal(now) {
		t.Errorf("timestamps not assigned: created %v, updated %v", e.CreatedAt, e.UpdatedAt)
	}
}

func TestGetEventNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	mock.ExpectQuery(`SELECT .+ FROM events WHERE id = \$1`).
		WithArgs("ev-missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetEvent(context.Background(), "ev-missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetEventForUpdateLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	now := time.Now().UTC()
	rows := sqlmock.NewRows(eventRowColumns).AddRow(
		"ev-abc", "Standup", pq.Array([]string{"usr-1"}), "UTC",
		now, now.Add(time.Hour), now, now,
	)
	mock.ExpectQuery(`SELECT .+ FROM events WHERE id = \$1 FOR UPDATE`).
		WithArgs("ev-abc").
		WillReturnRows(rows)

	e, err := s.GetEventForUpdate(context.Background(), "ev-abc")
	if err != nil {
		t.Fatal(err)
	}
	if e.ID != "ev-abc" || len(e.Participants) != 1 {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestListEventsForParticipant(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	now := time.Now().UTC()
	rows := sqlmock.NewRows(eventRowColumns).
		AddRow("ev-1", "A", pq.Array([]string{"usr-1"}), "UTC", now, now.Add(time.Hour), now, now).
		AddRow("ev-2", "B", pq.Array([]string{"usr-1", "usr-2"}), "UTC", now, now.Add(time.Hour), now, now)
	mock.ExpectQuery(`WHERE \$1 = ANY\(participants\)`).
		WithArgs("usr-1").
		WillReturnRows(rows)

	events, err := s.ListEventsForParticipant(context.Background(), "usr-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
}

func TestListEvents(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	now := time.Now().UTC()
	rows := sqlmock.NewRows(eventRowColumns).
		AddRow("ev-1", "A", pq.Array([]string{"usr-1"}), "UTC", now, now.Add(time.Hour), now, now).
		AddRow("ev-2", "B", pq.Array([]string{"usr-2"}), "UTC", now.Add(time.Hour), now.Add(2*time.Hour), now, now)
	mock.ExpectQuery(`FROM events\s+ORDER BY start_utc ASC, id ASC`).
		WillReturnRows(rows)

	events, err := s.ListEvents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].ID != "ev-1" || events[1].ID != "ev-2" {
		t.Errorf("unexpected order: %s, %s", events[0].ID, events[1].ID)
	}
}

func TestUpdateEventSetsUpdatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	now := time.Now().UTC()
	later := now.Add(time.Minute)
	mock.ExpectQuery(`UPDATE events SET`).
		WithArgs("ev-abc", "Standup", pq.Array([]string{"usr-1"}), "UTC",
			now, now.Add(time.Hour)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(later))

	e := &model.Event{
		ID:           "ev-abc",
		Title:        "Standup",
		Participants: []string{"usr-1"},
		TimeZone:     "UTC",
		StartUTC:     now,
		EndUTC:       now.Add(time.Hour),
		UpdatedAt:    now,
	}
	if err := s.UpdateEvent(context.Background(), e); err != nil {
		t.Fatal(err)
	}
	if !e.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", e.UpdatedAt, later)
	}
}

func TestAppendAuditEntry(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	now := time.Now().UTC()
	before := model.Snapshot{Participants: []string{"usr-1"}, TimeZone: "UTC", StartUTC: now, EndUTC: now.Add(time.Hour)}
	after := before
	after.TimeZone = "Asia/Tokyo"

	mock.ExpectQuery(`INSERT INTO event_audit_log`).
		WithArgs("ev-abc", "usr-1", mustJSON(t, before), mustJSON(t, after)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "changed_at"}).AddRow(int64(7), now))

	entry := &model.AuditEntry{
		EventID:   "ev-abc",
		ChangedBy: "usr-1",
		OldValues: before,
		NewValues: after,
	}
	if err := s.AppendAuditEntry(context.Background(), entry); err != nil {
		t.Fatal(err)
	}
	if entry.ID != 7 {
		t.Errorf("ID = %d, want 7", entry.ID)
	}
	if !entry.ChangedAt.Equal(now) {
		t.Errorf("ChangedAt = %v, want %v", entry.ChangedAt, now)
	}
}

func TestGetAuditEntriesNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	base := time.Now().UTC()
	snap := func(zone string) []byte {
		return mustJSON(t, model.Snapshot{
			Participants: []string{"usr-1"},
			TimeZone:     zone,
			StartUTC:     base,
			EndUTC:       base.Add(time.Hour),
		})
	}

	rows := sqlmock.NewRows(auditRowColumns).
		AddRow(int64(2), "ev-abc", "usr-1", snap("UTC"), snap("Asia/Tokyo"), base.Add(time.Minute)).
		AddRow(int64(1), "ev-abc", "usr-1", snap("Europe/Paris"), snap("UTC"), base)
	mock.ExpectQuery(`FROM event_audit_log\s+WHERE event_id = \$1\s+ORDER BY changed_at DESC, id DESC`).
		WithArgs("ev-abc").
		WillReturnRows(rows)

	entries, err := s.GetAuditEntries(context.Background(), "ev-abc")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != 2 || entries[1].ID != 1 {
		t.Errorf("unexpected order: %d, %d", entries[0].ID, entries[1].ID)
	}
	if entries[0].NewValues.TimeZone != "Asia/Tokyo" {
		t.Errorf("NewValues.TimeZone = %q", entries[0].NewValues.TimeZone)
	}
}

func TestRunInTransactionCommit(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE events SET`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectQuery(`INSERT INTO event_audit_log`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "changed_at"}).AddRow(int64(1), now))
	mock.ExpectCommit()

	err := s.RunInTransaction(context.Background(), func(tx store.Store) error {
		e := &model.Event{ID: "ev-abc", Title: "T", Participants: []string{"usr-1"},
			TimeZone: "UTC", StartUTC: now, EndUTC: now.Add(time.Hour)}
		if err := tx.UpdateEvent(context.Background(), e); err != nil {
			return err
		}
		return tx.AppendAuditEntry(context.Background(), &model.AuditEntry{
			EventID: "ev-abc", ChangedBy: "usr-1",
		})
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRunInTransactionRollback(t *testing.T) {
	db, mock := newMockDB(t)
	s := &PostgresStore{db: db}

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE events SET`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectQuery(`INSERT INTO event_audit_log`).
		WillReturnError(fmt.Errorf("disk full"))
	mock.ExpectRollback()

	err := s.RunInTransaction(context.Background(), func(tx store.Store) error {
		e := &model.Event{ID: "ev-abc", Title: "T", Participants: []string{"usr-1"},
			TimeZone: "UTC", StartUTC: now, EndUTC: now.Add(time.Hour)}
		if err := tx.UpdateEvent(context.Background(), e); err != nil {
			return err
		}
		return tx.AppendAuditEntry(context.Background(), &model.AuditEntry{
			EventID: "ev-abc", ChangedBy: "usr-1",
		})
	})
	if err == nil {
		t.Fatal("expected error from failed audit insert")
	}
}
