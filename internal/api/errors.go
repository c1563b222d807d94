package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/brachiGH/firedns-dashboard/internal/errors"
	"github.com/brachiGH/firedns-dashboard/internal/types"
)

// respondError sends an error response as a bare ServiceError body.
func respondError(w http.ResponseWriter, statusCode int, code, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(types.ServiceError{ // nolint:errcheck // response already committed
		Code:    code,
		Message: message,
		Details: details,
	})
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data) // nolint:errcheck // response already committed
	}
}

// parseJSONBody parses a JSON request body, rejecting unknown fields.
func parseJSONBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// respondServiceError maps a categorized error onto its HTTP status and
// wire body. Anything uncategorized is treated as a storage failure.
func respondServiceError(w http.ResponseWriter, err error) {
	var cerr *errors.CategorizedError
	if stderrors.As(err, &cerr) {
		respondError(w, cerr.StatusCode, cerr.Code, cerr.Message, cerr.Details)
		return
	}

	respondError(w, http.StatusBadGateway, errors.CodeBackendUnavailable, "settings backend unavailable", nil)
}
