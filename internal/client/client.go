// Package client provides a transport-agnostic interface for the chime
// service and an HTTP/JSON implementation that talks to the chime REST API.
package client

import (
	"context"

	"github.com/alfredjeanlab/chime/internal/model"
)

// ChimeClient is the interface that all chime CLI commands use to
// communicate with the server. It is implemented by HTTPClient.
type ChimeClient interface {
	// Users
	CreateUser(ctx context.Context, req *CreateUserRequest) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)

	// Events
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, participantID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, id string, req *UpdateEventRequest) (*UpdateEventResponse, error)

	// Audit trail
	GetHistory(ctx context.Context, id string, viewerZone string) ([]*HistoryEntry, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateUserRequest holds parameters for registering a user.
type CreateUserRequest struct {
	Name     string `json:"name"`
	TimeZone string `json:"time_zone"`
}

// CreateEventRequest holds parameters for creating an event. StartLocal and
// EndLocal are wall-clock times ("2006-01-02T15:04") in TimeZone.
type CreateEventRequest struct {
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
	TimeZone     string   `json:"event_time_zone"`
	StartLocal   string   `json:"start_local"`
	EndLocal     string   `json:"end_local"`
}

// UpdateEventRequest holds optional parameters for updating an event.
// Nil pointer fields mean "don't change".
type UpdateEventRequest struct {
	ActorID      string    `json:"actor_id"`
	Participants *[]string `json:"participants,omitempty"`
	TimeZone     *string   `json:"event_time_zone,omitempty"`
	StartLocal   *string   `json:"start_local,omitempty"`
	EndLocal     *string   `json:"end_local,omitempty"`
}

// Event is the server's rendering of an event: the stored record plus the
// wall-clock bounds in the event's own zone.
type Event struct {
	model.Event
	StartLocal string `json:"start_local"`
	EndLocal   string `json:"end_local"`
}

// UpdateEventResponse is the response from UpdateEvent. Updated is false
// when the requested changes were a no-op.
type UpdateEventResponse struct {
	Updated bool   `json:"updated"`
	Event   *Event `json:"event"`
}

// HistoryEntry is one audit record as rendered by the server. ChangedBy is
// nil when the acting user no longer resolves in the directory.
type HistoryEntry struct {
	ID            int64          `json:"id"`
	ChangedBy     *string        `json:"changed_by"`
	Summary       string         `json:"summary"`
	ChangedFields []string       `json:"changed_fields"`
	Timestamp     string         `json:"timestamp"`
	OldValues     model.Snapshot `json:"old_values"`
	NewValues     model.Snapshot `json:"new_values"`
}
