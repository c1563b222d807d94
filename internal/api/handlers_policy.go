package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/brachiGH/firedns-dashboard/internal/errors"
	"github.com/brachiGH/firedns-dashboard/internal/policy"
	"github.com/brachiGH/firedns-dashboard/internal/types"
)

// handleDecide handles GET /policy/decide/{userId}?domain=&at=. It assembles
// the user's full policy aggregate and evaluates one domain against it,
// optionally at a caller-supplied instant.
func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	domain := r.URL.Query().Get("domain")
	if domain == "" {
		respondError(w, http.StatusBadRequest, errors.CodeValidationError, "domain query parameter is required", nil)
		return
	}

	at := time.Now()
	if raw := r.URL.Query().Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, errors.CodeValidationError, "at must be an RFC 3339 timestamp", nil)
			return
		}
		at = parsed
	}

	agg, err := s.loadAggregate(r, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	decision := s.resolver.Decide(*agg, domain, at, nil)
	respondJSON(w, http.StatusOK, decision)
}

// loadAggregate gathers the three settings groups and both lists for one
// user. Absent state loads as defaults, so unknown users evaluate to the
// default policy rather than failing.
func (s *Server) loadAggregate(r *http.Request, userID string) (*policy.Aggregate, error) {
	ctx := r.Context()

	general, err := s.settings.LoadGeneral(ctx, userID)
	if err != nil {
		return nil, errors.NewBackendUnavailableError(err)
	}
	privacy, err := s.settings.LoadPrivacy(ctx, userID)
	if err != nil {
		return nil, errors.NewBackendUnavailableError(err)
	}
	parental, err := s.settings.LoadParental(ctx, userID)
	if err != nil {
		return nil, errors.NewBackendUnavailableError(err)
	}
	allow, err := s.domainLists.List(ctx, userID, types.ListAllow)
	if err != nil {
		return nil, errors.NewBackendUnavailableError(err)
	}
	deny, err := s.domainLists.List(ctx, userID, types.ListDeny)
	if err != nil {
		return nil, errors.NewBackendUnavailableError(err)
	}

	return &policy.Aggregate{
		General:  *general,
		Privacy:  *privacy,
		Parental: *parental,
		Allow:    allow,
		Deny:     deny,
	}, nil
}

// handleListApps handles GET /policy/apps, the catalog of application
// identifiers accepted as blockedApps keys.
func (s *Server) handleListApps(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"apps": s.catalog.Apps(),
	})
}
