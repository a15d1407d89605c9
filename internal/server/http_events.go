package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alfredjeanlab/chime/internal/model"
	"github.com/alfredjeanlab/chime/internal/tz"
)

// handleCreateEvent handles POST /v1/events.
func (s *EventServer) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in createEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	event, err := s.createEvent(r.Context(), in)
	if err != nil {
		writeDomainError(w, err, "event not found")
		return
	}

	writeJSON(w, http.StatusCreated, newEventView(event))
}

// handleGetEvent handles GET /v1/events/{id}.
func (s *EventServer) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	event, err := s.store.GetEvent(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, newEventView(event))
}

// handleListEvents handles GET /v1/events?participant_id=.
func (s *EventServer) handleListEvents(w http.ResponseWriter, r *http.Request) {
	participantID := r.URL.Query().Get("participant_id")
	if participantID == "" {
		writeError(w, http.StatusBadRequest, "participant_id is required")
		return
	}

	evts, err := s.store.ListEventsForParticipant(r.Context(), participantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	views := make([]eventView, 0, len(evts))
	for _, e := range evts {
		views = append(views, newEventView(e))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": views,
		"total":  len(views),
	})
}

// handleUpdateEvent handles PATCH /v1/events/{id}. A no-op update (every
// mutable field unchanged after normalization) succeeds without writing
// anything and responds with "updated": false.
func (s *EventServer) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in updateEventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	event, _, changed, err := s.updateEvent(r.Context(), id, in)
	if err != nil {
		writeDomainError(w, err, "event not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"updated": changed,
		"event":   newEventView(event),
	})
}

// handleGetHistory handles GET /v1/events/{id}/history?time_zone=.
func (s *EventServer) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	entries, err := s.history(r.Context(), id, r.URL.Query().Get("time_zone"))
	if err != nil {
		writeDomainError(w, err, "event not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   len(entries),
	})
}

// writeDomainError maps the error taxonomy to HTTP status codes: invalid
// input of any flavor is 400, an actor outside the participant set is 403,
// a missing row is 404, and anything else is 500.
func writeDomainError(w http.ResponseWriter, err error, notFoundMsg string) {
	var (
		ie  inputError
		ve  *model.ValidationError
		up  *model.UnknownParticipantError
		uz  *tz.UnknownZoneError
		idt *tz.InvalidDateTimeError
	)
	switch {
	case errors.As(err, &ie),
		errors.As(err, &ve),
		errors.As(err, &up),
		errors.As(err, &uz),
		errors.As(err, &idt):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, notFoundMsg)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
