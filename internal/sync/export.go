// Package sync periodically exports the directory, events, and the full
// audit log as JSONL to external destinations. The Postgres audit log stays
// the durable record; the export is an archival mirror.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alfredjeanlab/chime/internal/model"
	"github.com/alfredjeanlab/chime/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	UserCount  int       `json:"user_count"`
	EventCount int       `json:"event_count"`
	AuditCount int       `json:"audit_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes all users, events, and audit entries from the store as
// JSONL to w. Events come out in schedule order; each event's audit entries
// follow it oldest first, so the file replays in causal order.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	events, err := s.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	auditCount := 0
	auditByEvent := make(map[string][]*model.AuditEntry, len(events))
	for _, e := range events {
		entries, err := s.GetAuditEntries(ctx, e.ID)
		if err != nil {
			return fmt.Errorf("get audit entries for %s: %w", e.ID, err)
		}
		// GetAuditEntries is newest first; reverse for causal order.
		ordered := make([]*model.AuditEntry, 0, len(entries))
		for i := len(entries) - 1; i >= 0; i-- {
			ordered = append(ordered, entries[i])
		}
		auditByEvent[e.ID] = ordered
		auditCount += len(ordered)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:    "1",
		Type:       "header",
		Timestamp:  time.Now().UTC(),
		UserCount:  len(users),
		EventCount: len(events),
		AuditCount: auditCount,
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, u := range users {
		if err := enc.Encode(record{Type: "user", Data: u}); err != nil {
			return fmt.Errorf("encode user %s: %w", u.ID, err)
		}
	}

	for _, e := range events {
		if err := enc.Encode(record{Type: "event", Data: e}); err != nil {
			return fmt.Errorf("encode event %s: %w", e.ID, err)
		}
		for _, entry := range auditByEvent[e.ID] {
			if err := enc.Encode(record{Type: "audit", Data: entry}); err != nil {
				return fmt.Errorf("encode audit entry for %s: %w", e.ID, err)
			}
		}
	}

	return nil
}
