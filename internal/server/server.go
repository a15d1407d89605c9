package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/chime/internal/events"
	"github.com/alfredjeanlab/chime/internal/store"
)

// EventServer implements the scheduling operations over a store and an
// event publisher. All methods are transport-agnostic; the HTTP handlers
// in http_*.go are thin adapters over them.
type EventServer struct {
	store     store.Store
	publisher events.Publisher
}

// NewEventServer returns a new EventServer backed by the given store and publisher.
func NewEventServer(s store.Store, p events.Publisher) *EventServer {
	return &EventServer{
		store:     s,
		publisher: p,
	}
}

// publish emits an event to the publisher. Publishing is best-effort; the
// audit log is the durable record, so failures are logged but do not block
// the caller.
func (s *EventServer) publish(ctx context.Context, topic, id string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "id", id, "error", err)
	}
}

// inputError indicates invalid user input.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
