package server

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/chime/internal/events"
	"github.com/alfredjeanlab/chime/internal/idgen"
	"github.com/alfredjeanlab/chime/internal/model"
	"github.com/alfredjeanlab/chime/internal/tz"
)

// createUserInput holds transport-agnostic parameters for registering a user.
type createUserInput struct {
	Name     string `json:"name"`
	TimeZone string `json:"time_zone"`
}

// createUser registers a directory identity. The home zone must be a real
// IANA zone so that later viewer-zone rendering cannot fail for it.
func (s *EventServer) createUser(ctx context.Context, in createUserInput) (*model.User, error) {
	if in.TimeZone != "" {
		if err := tz.Validate(in.TimeZone); err != nil {
			return nil, err
		}
	}

	id, err := idgen.NewUserID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	user := &model.User{
		ID:       id,
		Name:     in.Name,
		TimeZone: in.TimeZone,
	}

	if err := model.ValidateUser(user); err != nil {
		return nil, err
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.publish(ctx, events.TopicUserCreated, user.ID, events.UserCreated{User: user})

	return user, nil
}
