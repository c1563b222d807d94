package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/brachiGH/firedns-dashboard/internal/errors"
	"github.com/brachiGH/firedns-dashboard/internal/models"
	"github.com/brachiGH/firedns-dashboard/internal/storage"
	"github.com/brachiGH/firedns-dashboard/internal/types"
)

// respondCached serves a cached payload when available, otherwise loads,
// caches and serves. Cache failures are treated as misses.
func (s *Server) respondCached(w http.ResponseWriter, r *http.Request, key string, load func() (interface{}, error)) {
	if s.cache != nil {
		if data, err := s.cache.Get(r.Context(), key); err == nil && data != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data) // nolint:errcheck // response already committed
			return
		}
	}

	value, err := load()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to encode response", nil)
		return
	}

	if s.cache != nil {
		_ = s.cache.Set(r.Context(), key, payload) // nolint:errcheck // cache is best effort
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload) // nolint:errcheck // response already committed
}

// invalidateSettings drops a user's cached settings group after a write.
func (s *Server) invalidateSettings(r *http.Request, group types.SettingsGroup, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(r.Context(), storage.SettingsKey(group, userID)); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate settings cache")
	}
}

// requireUser resolves the userId path variable and checks the account
// exists for write operations.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respondServiceError(w, errors.NewNotAuthenticatedError())
		return "", false
	}

	exists, err := s.users.Exists(r.Context(), userID)
	if err != nil {
		respondServiceError(w, errors.NewBackendUnavailableError(err))
		return "", false
	}
	if !exists {
		respondServiceError(w, errors.NewNotFoundError("user", userID))
		return "", false
	}

	return userID, true
}

// handleGetGeneralSettings handles GET /settings/general/{userId}
func (s *Server) handleGetGeneralSettings(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	s.respondCached(w, r, storage.SettingsKey(types.GroupGeneral, userID), func() (interface{}, error) {
		return s.settings.LoadGeneral(r.Context(), userID)
	})
}

// handleUpdateGeneralSettings handles PATCH /settings/general/{userId}.
// The body carries the complete flag set plus the version last read.
func (s *Server) handleUpdateGeneralSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var settings models.GeneralSettings
	if err := parseJSONBody(r, &settings); err != nil {
		respondError(w, http.StatusBadRequest, errors.CodeValidationError, "Invalid request body: "+err.Error(), nil)
		return
	}
	settings.UserID = userID

	if err := s.settings.SaveGeneral(r.Context(), &settings); err != nil {
		respondServiceError(w, err)
		return
	}

	s.invalidateSettings(r, types.GroupGeneral, userID)
	respondJSON(w, http.StatusOK, settings)
}

// handleGetPrivacySettings handles GET /settings/privacy/{userId}
func (s *Server) handleGetPrivacySettings(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	s.respondCached(w, r, storage.SettingsKey(types.GroupPrivacy, userID), func() (interface{}, error) {
		return s.settings.LoadPrivacy(r.Context(), userID)
	})
}

// handleUpdatePrivacySettings handles PATCH /settings/privacy/{userId}
func (s *Server) handleUpdatePrivacySettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var settings models.PrivacySettings
	if err := parseJSONBody(r, &settings); err != nil {
		respondError(w, http.StatusBadRequest, errors.CodeValidationError, "Invalid request body: "+err.Error(), nil)
		return
	}
	settings.UserID = userID

	if err := s.settings.SavePrivacy(r.Context(), &settings); err != nil {
		respondServiceError(w, err)
		return
	}

	s.invalidateSettings(r, types.GroupPrivacy, userID)
	respondJSON(w, http.StatusOK, settings)
}

// handleGetParentalSettings handles GET /settings/parental/{userId}
func (s *Server) handleGetParentalSettings(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	s.respondCached(w, r, storage.SettingsKey(types.GroupParental, userID), func() (interface{}, error) {
		return s.settings.LoadParental(r.Context(), userID)
	})
}

// handleUpdateParentalSettings handles PATCH /settings/parental/{userId}.
// Schedule shape and blockedApps keys are validated before anything is
// stored; a body with unknown apps or a partial week never half-applies.
func (s *Server) handleUpdateParentalSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var settings models.ParentalSettings
	if err := parseJSONBody(r, &settings); err != nil {
		respondError(w, http.StatusBadRequest, errors.CodeValidationError, "Invalid request body: "+err.Error(), nil)
		return
	}
	settings.UserID = userID

	if err := s.settings.SaveParental(r.Context(), &settings); err != nil {
		respondServiceError(w, err)
		return
	}

	s.invalidateSettings(r, types.GroupParental, userID)
	respondJSON(w, http.StatusOK, settings)
}
