package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/brachiGH/firedns-dashboard/internal/errors"
	"github.com/brachiGH/firedns-dashboard/internal/storage"
	"github.com/brachiGH/firedns-dashboard/internal/types"
)

// domainRequest is the body for list adds and removes.
type domainRequest struct {
	Domain string `json:"domain"`
}

// listResponse is the GET response for either domain list.
type listResponse struct {
	UserID  string   `json:"userId"`
	Domains []string `json:"domains"`
}

// normalizeDomain lowercases and trims a submitted domain, dropping any
// trailing dot so "Example.COM." and "example.com" are the same entry.
func normalizeDomain(domain string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request, kind types.ListKind) {
	userID := mux.Vars(r)["userId"]

	s.respondCached(w, r, storage.ListKey(kind, userID), func() (interface{}, error) {
		domains, err := s.domainLists.List(r.Context(), userID, kind)
		if err != nil {
			return nil, errors.NewBackendUnavailableError(err)
		}
		if domains == nil {
			domains = []string{}
		}
		return listResponse{UserID: userID, Domains: domains}, nil
	})
}

func (s *Server) handleMutateList(w http.ResponseWriter, r *http.Request, kind types.ListKind, mutate func(userID, domain string) error) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req domainRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errors.CodeValidationError, "Invalid request body: "+err.Error(), nil)
		return
	}

	domain := normalizeDomain(req.Domain)
	if domain == "" {
		respondError(w, http.StatusBadRequest, errors.CodeValidationError, "Domain is required", nil)
		return
	}

	if err := mutate(userID, domain); err != nil {
		respondServiceError(w, errors.NewBackendUnavailableError(err))
		return
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(r.Context(), storage.ListKey(kind, userID)); err != nil {
			s.logger.WithError(err).Warn("failed to invalidate list cache")
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetAllowList handles GET /settings/allowlist/{userId}
func (s *Server) handleGetAllowList(w http.ResponseWriter, r *http.Request) {
	s.handleGetList(w, r, types.ListAllow)
}

// handleAddAllowListDomain handles POST /settings/allowlist/{userId}.
// Adding a domain already present succeeds without effect.
func (s *Server) handleAddAllowListDomain(w http.ResponseWriter, r *http.Request) {
	s.handleMutateList(w, r, types.ListAllow, func(userID, domain string) error {
		return s.domainLists.Add(r.Context(), userID, types.ListAllow, domain)
	})
}

// handleRemoveAllowListDomain handles DELETE /settings/allowlist/{userId}.
// Removing an absent domain succeeds without effect.
func (s *Server) handleRemoveAllowListDomain(w http.ResponseWriter, r *http.Request) {
	s.handleMutateList(w, r, types.ListAllow, func(userID, domain string) error {
		return s.domainLists.Remove(r.Context(), userID, types.ListAllow, domain)
	})
}

// handleGetDenyList handles GET /settings/denylist/{userId}
func (s *Server) handleGetDenyList(w http.ResponseWriter, r *http.Request) {
	s.handleGetList(w, r, types.ListDeny)
}

// handleAddDenyListDomain handles POST /settings/denylist/{userId}
func (s *Server) handleAddDenyListDomain(w http.ResponseWriter, r *http.Request) {
	s.handleMutateList(w, r, types.ListDeny, func(userID, domain string) error {
		return s.domainLists.Add(r.Context(), userID, types.ListDeny, domain)
	})
}

// handleRemoveDenyListDomain handles DELETE /settings/denylist/{userId}
func (s *Server) handleRemoveDenyListDomain(w http.ResponseWriter, r *http.Request) {
	s.handleMutateList(w, r, types.ListDeny, func(userID, domain string) error {
		return s.domainLists.Remove(r.Context(), userID, types.ListDeny, domain)
	})
}
