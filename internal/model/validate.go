package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrForbidden is returned when the acting identity is not a current
// participant of the event it tries to modify.
var ErrForbidden = errors.New("actor is not a participant of this event")

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// UnknownParticipantError reports participant ids that did not resolve to a
// directory identity.
type UnknownParticipantError struct {
	IDs []string
}

func (e *UnknownParticipantError) Error() string {
	return "unknown participants: " + strings.Join(e.IDs, ", ")
}

// ValidateEvent checks an Event for constraint violations. It returns a
// *ValidationError if any rules fail, or nil if the event is valid.
func ValidateEvent(e *Event) error {
	var ve ValidationError

	if strings.TrimSpace(e.Title) == "" {
		ve.add("title", "is required")
	}

	if len(e.Participants) == 0 {
		ve.add("participants", "must not be empty")
	}
	for _, id := range e.Participants {
		if strings.TrimSpace(id) == "" {
			ve.add("participants", "contains an empty id")
			break
		}
	}

	if e.TimeZone == "" {
		ve.add("event_time_zone", "is required")
	}

	if e.StartUTC.IsZero() {
		ve.add("start_utc", "is required")
	}
	if e.EndUTC.IsZero() {
		ve.add("end_utc", "is required")
	}
	if !e.StartUTC.IsZero() && !e.EndUTC.IsZero() && !e.EndUTC.After(e.StartUTC) {
		ve.add("end_utc", fmt.Sprintf("must be after start, got start=%s end=%s",
			e.StartUTC.Format(time.RFC3339), e.EndUTC.Format(time.RFC3339)))
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateUser checks a directory User for constraint violations.
func ValidateUser(u *User) error {
	var ve ValidationError

	if strings.TrimSpace(u.Name) == "" {
		ve.add("name", "is required")
	}
	if u.TimeZone == "" {
		ve.add("time_zone", "is required")
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
