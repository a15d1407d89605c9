package store

import (
	"context"

	"github.com/alfredjeanlab/chime/internal/model"
)

// Store defines the persistence interface for events, the audit log, and
// the user directory.
type Store interface {
	// User directory
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	// ResolveUsers returns the users matching the given ids; ids that do
	// not resolve are simply absent from the result.
	ResolveUsers(ctx context.Context, ids []string) ([]*model.User, error)

	// Events
	CreateEvent(ctx context.Context, event *model.Event) error
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	// GetEventForUpdate reads an event with a row lock so that concurrent
	// updates to the same event serialize. Only meaningful inside
	// RunInTransaction.
	GetEventForUpdate(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context) ([]*model.Event, error)
	ListEventsForParticipant(ctx context.Context, participantID string) ([]*model.Event, error)
	UpdateEvent(ctx context.Context, event *model.Event) error

	// Audit log (append-only)
	AppendAuditEntry(ctx context.Context, entry *model.AuditEntry) error
	// GetAuditEntries returns entries for an event, newest first.
	GetAuditEntries(ctx context.Context, eventID string) ([]*model.AuditEntry, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
