package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brachiGH/firedns-dashboard/internal/errors"
	"github.com/brachiGH/firedns-dashboard/internal/logging"
	"github.com/brachiGH/firedns-dashboard/internal/models"
	"github.com/brachiGH/firedns-dashboard/internal/retry"
)

// fakeStore scripts the remote side. Each call shifts one element off the
// corresponding error queue; a nil error means success.
type fakeStore struct {
	remote models.GeneralSettings

	fetchErrs []error
	pushErrs  []error

	fetchCalls int
	pushCalls  int
}

func (f *fakeStore) Fetch(_ context.Context) (models.GeneralSettings, error) {
	f.fetchCalls++
	if len(f.fetchErrs) > 0 {
		err := f.fetchErrs[0]
		f.fetchErrs = f.fetchErrs[1:]
		if err != nil {
			return models.GeneralSettings{}, err
		}
	}
	return f.remote, nil
}

func (f *fakeStore) Push(_ context.Context, value models.GeneralSettings) (models.GeneralSettings, error) {
	f.pushCalls++
	if len(f.pushErrs) > 0 {
		err := f.pushErrs[0]
		f.pushErrs = f.pushErrs[1:]
		if err != nil {
			return models.GeneralSettings{}, err
		}
	}
	f.remote = value
	f.remote.Version = value.Version + 1
	return f.remote, nil
}

func fastRetry() *retry.RetryConfig {
	return &retry.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func newTestSynchronizer(store *fakeStore) *Synchronizer[models.GeneralSettings] {
	return New[models.GeneralSettings](store, fastRetry(), logging.NewLogger(logging.LevelError, logging.FormatJSON))
}

func TestCurrentFetchesOnceAndCaches(t *testing.T) {
	store := &fakeStore{remote: models.GeneralSettings{UserID: "user-1", BlockCSAM: true, Version: 3}}
	s := newTestSynchronizer(store)
	ctx := context.Background()

	got, err := s.Current(ctx)
	require.NoError(t, err)
	assert.True(t, got.BlockCSAM)
	assert.Equal(t, int64(3), got.Version)

	_, err = s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.fetchCalls)
}

func TestCurrentSurfacesBackendFailure(t *testing.T) {
	store := &fakeStore{fetchErrs: []error{
		errors.NewBackendUnavailableError(context.DeadlineExceeded),
		errors.NewBackendUnavailableError(context.DeadlineExceeded),
		errors.NewBackendUnavailableError(context.DeadlineExceeded),
	}}
	s := newTestSynchronizer(store)

	_, err := s.Current(context.Background())
	assert.True(t, errors.IsCode(err, errors.CodeBackendUnavailable))
	assert.False(t, s.Loaded())
}

func TestCurrentRetriesTransientFailure(t *testing.T) {
	store := &fakeStore{
		remote:    models.GeneralSettings{UserID: "user-1", Version: 1},
		fetchErrs: []error{errors.NewBackendUnavailableError(context.DeadlineExceeded), nil},
	}
	s := newTestSynchronizer(store)

	got, err := s.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, 2, store.fetchCalls)
}

func TestUpdateAdvancesVersion(t *testing.T) {
	store := &fakeStore{remote: models.GeneralSettings{UserID: "user-1", Version: 1}}
	s := newTestSynchronizer(store)
	ctx := context.Background()

	current, err := s.Current(ctx)
	require.NoError(t, err)

	current.ThreatIntelligence = true
	stored, err := s.Update(ctx, current)
	require.NoError(t, err)
	assert.True(t, stored.ThreatIntelligence)
	assert.Equal(t, int64(2), stored.Version)

	cached, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, cached)
	assert.Equal(t, 1, store.fetchCalls)
}

func TestUpdateRollsBackOnFailure(t *testing.T) {
	store := &fakeStore{remote: models.GeneralSettings{UserID: "user-1", BlockNewDomains: true, Version: 2}}
	s := newTestSynchronizer(store)
	ctx := context.Background()

	before, err := s.Current(ctx)
	require.NoError(t, err)

	next := before
	next.BlockNewDomains = false
	store.pushErrs = []error{errors.NewValidationError("bad settings")}

	_, err = s.Update(ctx, next)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))

	// The optimistic local copy was rolled back to the last confirmed value.
	after, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, store.pushCalls, "validation failures are not retried")
}

func TestUpdateConflictReloadsRemote(t *testing.T) {
	store := &fakeStore{remote: models.GeneralSettings{UserID: "user-1", Version: 5}}
	s := newTestSynchronizer(store)
	ctx := context.Background()

	stale, err := s.Current(ctx)
	require.NoError(t, err)

	// Another client advanced the remote copy behind our back.
	store.remote.GoogleSafeBrowsing = true
	store.remote.Version = 6
	store.pushErrs = []error{errors.NewConflictError("general", stale.Version, 6)}

	stale.BlockDynamicDNS = true
	_, err = s.Update(ctx, stale)
	assert.True(t, errors.IsCode(err, errors.CodeConflict))

	// The synchronizer reloaded the winning copy; retrying from it succeeds.
	current, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), current.Version)
	assert.True(t, current.GoogleSafeBrowsing)

	current.BlockDynamicDNS = true
	stored, err := s.Update(ctx, current)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stored.Version)
	assert.True(t, stored.GoogleSafeBrowsing)
	assert.True(t, stored.BlockDynamicDNS)
}

func TestUpdateWithoutPriorFetch(t *testing.T) {
	store := &fakeStore{}
	s := newTestSynchronizer(store)

	stored, err := s.Update(context.Background(), models.GeneralSettings{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.True(t, s.Loaded())
	assert.Equal(t, 0, store.fetchCalls)
}
