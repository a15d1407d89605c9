package events

import (
	"context"

	"github.com/alfredjeanlab/chime/internal/model"
)

// Event topic constants
const (
	TopicUserCreated  = "chime.user.created"
	TopicEventCreated = "chime.event.created"
	TopicEventUpdated = "chime.event.updated"
)

// Event types

type UserCreated struct {
	User *model.User `json:"user"`
}

type EventCreated struct {
	Event *model.Event `json:"event"`
}

// EventUpdated carries the event's post-update state together with the audit
// entry the update produced. ChangedFields names the mutable fields the
// entry's diff touched.
type EventUpdated struct {
	Event         *model.Event      `json:"event"`
	ChangedFields []string          `json:"changed_fields"`
	Entry         *model.AuditEntry `json:"entry"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
