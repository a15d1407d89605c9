package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alfredjeanlab/chime/internal/model"
)

// handleCreateUser handles POST /v1/users.
func (s *EventServer) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in createUserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.createUser(r.Context(), in)
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// handleListUsers handles GET /v1/users.
func (s *EventServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	// Ensure users is never null in JSON output.
	if users == nil {
		users = []*model.User{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"total": len(users),
	})
}

// handleGetUser handles GET /v1/users/{id}.
func (s *EventServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	user, err := s.store.GetUser(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
