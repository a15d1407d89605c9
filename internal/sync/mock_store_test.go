package sync

import (
	"context"
	"database/sql"
	"sort"

	"github.com/alfredjeanlab/chime/internal/model"
	"github.com/alfredjeanlab/chime/internal/store"
)

// mockStore is a minimal in-memory store.Store for export tests.
type mockStore struct {
	users   map[string]*model.User
	events  map[string]*model.Event
	entries []*model.AuditEntry
}

func newMockStore() *mockStore {
	return &mockStore{
		users:  make(map[string]*model.User),
		events: make(map[string]*model.Event),
	}
}

func (m *mockStore) CreateUser(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockStore) GetUser(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (m *mockStore) ListUsers(_ context.Context) ([]*model.User, error) {
	out := make([]*model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStore) ResolveUsers(_ context.Context, ids []string) ([]*model.User, error) {
	var out []*model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockStore) CreateEvent(_ context.Context, event *model.Event) error {
	m.events[event.ID] = event
	return nil
}

func (m *mockStore) GetEvent(_ context.Context, id string) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return e, nil
}

func (m *mockStore) GetEventForUpdate(ctx context.Context, id string) (*model.Event, error) {
	return m.GetEvent(ctx, id)
}

func (m *mockStore) ListEvents(_ context.Context) ([]*model.Event, error) {
	out := make([]*model.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartUTC.Equal(out[j].StartUTC) {
			return out[i].StartUTC.Before(out[j].StartUTC)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockStore) ListEventsForParticipant(_ context.Context, participantID string) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range m.events {
		for _, p := range e.Participants {
			if p == participantID {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (m *mockStore) UpdateEvent(_ context.Context, event *model.Event) error {
	m.events[event.ID] = event
	return nil
}

func (m *mockStore) AppendAuditEntry(_ context.Context, entry *model.AuditEntry) error {
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockStore) GetAuditEntries(_ context.Context, eventID string) ([]*model.AuditEntry, error) {
	var out []*model.AuditEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].EventID == eventID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }

var _ store.Store = (*mockStore)(nil)
