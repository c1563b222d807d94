package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/brachiGH/firedns-dashboard/internal/errors"
	appidentity "github.com/brachiGH/firedns-dashboard/internal/identity"
)

// handleLinkAddress handles POST /identity/link/{userId}. The body may name
// an explicit address; otherwise the caller's observed address is linked.
func (s *Server) handleLinkAddress(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		IP string `json:"ip"`
	}
	if r.ContentLength > 0 {
		if err := parseJSONBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, errors.CodeValidationError, "Invalid request body: "+err.Error(), nil)
			return
		}
	}

	observed := appidentity.ObservedAddress(r.Header)

	link, err := s.identity.LinkAddress(r.Context(), userID, req.IP, observed)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, link)
}

// handleLinkStatus handles GET /identity/status/{userId}
func (s *Server) handleLinkStatus(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	status, err := s.identity.LinkStatus(r.Context(), userID, appidentity.ObservedAddress(r.Header))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// handleResolveAddress handles GET /identity/resolve?ip=. The resolver side
// uses it to attribute an incoming query to an account.
func (s *Server) handleResolveAddress(w http.ResponseWriter, r *http.Request) {
	ip := r.URL.Query().Get("ip")

	userID, err := s.identity.UserForAddress(r.Context(), ip)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"userId": userID})
}
