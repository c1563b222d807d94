package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/brachiGH/firedns-dashboard/internal/errors"
	"github.com/brachiGH/firedns-dashboard/internal/models"
)

// handleCreateUser handles POST /users - register a new account. The
// password arrives pre-hashed; this service never sees or verifies
// credentials.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		PasswordHash string `json:"passwordHash"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errors.CodeValidationError, "Invalid request body: "+err.Error(), nil)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, errors.CodeValidationError, "Email is required", nil)
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, errors.CodeValidationError, "Name is required", nil)
		return
	}

	taken, err := s.users.ExistsByEmail(r.Context(), req.Email)
	if err != nil {
		respondServiceError(w, errors.NewBackendUnavailableError(err))
		return
	}
	if taken {
		respondError(w, http.StatusBadRequest, errors.CodeValidationError, "Email is already registered", nil)
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
	}

	if err := s.users.Create(r.Context(), user); err != nil {
		respondServiceError(w, errors.NewBackendUnavailableError(err))
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// handleGetUser handles GET /users/{id}
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	user, err := s.users.GetByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
