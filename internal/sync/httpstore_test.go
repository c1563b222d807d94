package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brachiGH/firedns-dashboard/internal/errors"
	"github.com/brachiGH/firedns-dashboard/internal/models"
	"github.com/brachiGH/firedns-dashboard/internal/types"
)

func TestHTTPStoreFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/settings/general/user-1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.GeneralSettings{
			UserID:             "user-1",
			ThreatIntelligence: true,
			Version:            4,
		})
	}))
	defer srv.Close()

	store := NewClient(srv.URL, srv.Client()).General("user-1")

	got, err := store.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, int64(4), got.Version)
}

func TestHTTPStorePush(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/settings/privacy/user-1", r.URL.Path)

		var in models.PrivacySettings
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.True(t, in.AdAway)

		in.Version++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	store := NewClient(srv.URL, srv.Client()).Privacy("user-1")

	stored, err := store.Push(context.Background(), models.PrivacySettings{UserID: "user-1", AdAway: true, Version: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stored.Version)
}

func TestHTTPStorePushConflictRoundTrips(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(types.ServiceError{
			Code:    errors.CodeConflict,
			Message: "stale version for privacy settings: have 2, want 5",
			Details: map[string]interface{}{"currentVersion": 5},
		})
	}))
	defer srv.Close()

	store := NewClient(srv.URL, srv.Client()).Privacy("user-1")

	_, err := store.Push(context.Background(), models.PrivacySettings{UserID: "user-1", Version: 2})
	assert.True(t, errors.IsCode(err, errors.CodeConflict))

	var cerr *errors.CategorizedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, http.StatusConflict, cerr.StatusCode)
	assert.EqualValues(t, 5, cerr.Details["currentVersion"])
}

func TestHTTPStoreServerErrorIsBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewClient(srv.URL, srv.Client()).Parental("user-1")

	_, err := store.Fetch(context.Background())
	assert.True(t, errors.IsCode(err, errors.CodeBackendUnavailable))
}

func TestHTTPStoreUnreachableIsBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	store := NewClient(srv.URL, nil).General("user-1")

	_, err := store.Fetch(context.Background())
	assert.True(t, errors.IsCode(err, errors.CodeBackendUnavailable))
}
