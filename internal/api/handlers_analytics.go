package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/brachiGH/firedns-dashboard/internal/errors"
	"github.com/brachiGH/firedns-dashboard/internal/models"
	"github.com/brachiGH/firedns-dashboard/internal/types"
)

const defaultLogLimit = 100

// handleGetAnalytics handles GET /analytics/{userId}, the 24-hour traffic
// summary.
func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	summary, err := s.analytics.Summary(r.Context(), userID, time.Now())
	if err != nil {
		respondServiceError(w, errors.NewBackendUnavailableError(err))
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// handleGetLogs handles GET /logs/{userId}. Entries come back most recent
// first; ?limit= caps the page.
func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, errors.CodeValidationError, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	entries, err := s.analytics.RecentLogs(r.Context(), userID, time.Now(), limit)
	if err != nil {
		respondServiceError(w, errors.NewBackendUnavailableError(err))
		return
	}
	if entries == nil {
		entries = []models.QueryLogEntry{}
	}

	respondJSON(w, http.StatusOK, entries)
}

// handleIngestLogs handles POST /logs/{userId}, the resolver-side batch
// report of handled queries.
func (s *Server) handleIngestLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Entries []models.QueryLogEntry `json:"entries"`
	}
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errors.CodeValidationError, "Invalid request body: "+err.Error(), nil)
		return
	}
	if len(req.Entries) == 0 {
		respondError(w, http.StatusBadRequest, errors.CodeValidationError, "At least one entry is required", nil)
		return
	}

	now := time.Now()
	for i := range req.Entries {
		e := &req.Entries[i]
		if e.Domain == "" {
			respondError(w, http.StatusBadRequest, errors.CodeValidationError, "Every entry needs a domain", nil)
			return
		}
		if e.Status != types.StatusAllowed && e.Status != types.StatusBlocked {
			respondError(w, http.StatusBadRequest, errors.CodeValidationError, "Entry status must be 'allowed' or 'blocked'", nil)
			return
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = now
		}
	}

	if err := s.queryLogs.InsertBatch(r.Context(), userID, req.Entries); err != nil {
		respondServiceError(w, errors.NewBackendUnavailableError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
