// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/chime/internal/model"
	"github.com/alfredjeanlab/chime/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *model.User) error {
	return queryCreateUser(ctx, s.db, user)
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return queryGetUser(ctx, s.db, id)
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	return queryListUsers(ctx, s.db)
}

func (s *PostgresStore) ResolveUsers(ctx context.Context, ids []string) ([]*model.User, error) {
	return queryResolveUsers(ctx, s.db, ids)
}

func (s *PostgresStore) CreateEvent(ctx context.Context, event *model.Event) error {
	return queryCreateEvent(ctx, s.db, event)
}

func (s *PostgresStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return queryGetEvent(ctx, s.db, id, false)
}

func (s *PostgresStore) GetEventForUpdate(ctx context.Context, id string) (*model.Event, error) {
	return queryGetEvent(ctx, s.db, id, true)
}

func (s *PostgresStore) ListEvents(ctx context.Context) ([]*model.Event, error) {
	return queryListEvents(ctx, s.db)
}

func (s *PostgresStore) ListEventsForParticipant(ctx context.Context, participantID string) ([]*model.Event, error) {
	return queryListEventsForParticipant(ctx, s.db, participantID)
}

func (s *PostgresStore) UpdateEvent(ctx context.Context, event *model.Event) error {
	return queryUpdateEvent(ctx, s.db, event)
}

func (s *PostgresStore) AppendAuditEntry(ctx context.Context, entry *model.AuditEntry) error {
	return queryAppendAuditEntry(ctx, s.db, entry)
}

func (s *PostgresStore) GetAuditEntries(ctx context.Context, eventID string) ([]*model.AuditEntry, error) {
	return queryGetAuditEntries(ctx, s.db, eventID)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateUser(ctx context.Context, user *model.User) error {
	return queryCreateUser(ctx, s.tx, user)
}

func (s *txStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return queryGetUser(ctx, s.tx, id)
}

func (s *txStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	return queryListUsers(ctx, s.tx)
}

func (s *txStore) ResolveUsers(ctx context.Context, ids []string) ([]*model.User, error) {
	return queryResolveUsers(ctx, s.tx, ids)
}

func (s *txStore) CreateEvent(ctx context.Context, event *model.Event) error {
	return queryCreateEvent(ctx, s.tx, event)
}

func (s *txStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return queryGetEvent(ctx, s.tx, id, false)
}

func (s *txStore) GetEventForUpdate(ctx context.Context, id string) (*model.Event, error) {
	return queryGetEvent(ctx, s.tx, id, true)
}

func (s *txStore) ListEvents(ctx context.Context) ([]*model.Event, error) {
	return queryListEvents(ctx, s.tx)
}

func (s *txStore) ListEventsForParticipant(ctx context.Context, participantID string) ([]*model.Event, error) {
	return queryListEventsForParticipant(ctx, s.tx, participantID)
}

func (s *txStore) UpdateEvent(ctx context.Context, event *model.Event) error {
	return queryUpdateEvent(ctx, s.tx, event)
}

func (s *txStore) AppendAuditEntry(ctx context.Context, entry *model.AuditEntry) error {
	return queryAppendAuditEntry(ctx, s.tx, entry)
}

func (s *txStore) GetAuditEntries(ctx context.Context, eventID string) ([]*model.AuditEntry, error) {
	return queryGetAuditEntries(ctx, s.tx, eventID)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
