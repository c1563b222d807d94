// Package sync keeps a client-side copy of one settings group consistent
// with the dashboard backend. Reads serve the local copy once loaded;
// updates apply locally first and roll back when the backend rejects them.
package sync

import (
	"context"
	stdsync "sync"

	"github.com/brachiGH/firedns-dashboard/internal/errors"
	"github.com/brachiGH/firedns-dashboard/internal/logging"
	"github.com/brachiGH/firedns-dashboard/internal/retry"
)

// Store is the remote side of a synchronizer: a settings group that can be
// fetched whole and replaced whole.
type Store[T any] interface {
	// Fetch reads the current remote value, version included.
	Fetch(ctx context.Context) (T, error)
	// Push replaces the remote value and returns the stored result with its
	// advanced version.
	Push(ctx context.Context, value T) (T, error)
}

// Synchronizer mirrors one settings group. Safe for concurrent use.
type Synchronizer[T any] struct {
	mu      stdsync.Mutex
	store   Store[T]
	current T
	loaded  bool

	retryCfg *retry.RetryConfig
	logger   *logging.Logger
}

// New creates a synchronizer over a remote store. A nil retry config uses
// the default backoff.
func New[T any](store Store[T], retryCfg *retry.RetryConfig, logger *logging.Logger) *Synchronizer[T] {
	if retryCfg == nil {
		retryCfg = retry.DefaultRetryConfig()
	}
	return &Synchronizer[T]{
		store:    store,
		retryCfg: retryCfg,
		logger:   logger,
	}
}

// Current returns the local copy, fetching it on first use. Transient fetch
// failures are retried; a store that stays unreachable surfaces
// BACKEND_UNAVAILABLE and leaves the synchronizer unloaded.
func (s *Synchronizer[T]) Current(ctx context.Context) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.current, nil
	}
	return s.refreshLocked(ctx)
}

// Refresh discards the local copy and fetches the remote value.
func (s *Synchronizer[T]) Refresh(ctx context.Context) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = false
	return s.refreshLocked(ctx)
}

func (s *Synchronizer[T]) refreshLocked(ctx context.Context) (T, error) {
	var fetched T
	result := retry.WithExponentialBackoff(ctx, s.retryCfg, func(ctx context.Context, attempt int) error {
		var err error
		fetched, err = s.store.Fetch(ctx)
		return err
	})
	if !result.Success {
		var zero T
		return zero, result.LastError
	}

	s.current = fetched
	s.loaded = true
	return s.current, nil
}

// Update replaces the settings group. The local copy is updated before the
// push so readers see the new value immediately; if the push fails it is
// rolled back to what was last confirmed. A CONFLICT additionally reloads
// the remote value so the caller can retry from current state.
func (s *Synchronizer[T]) Update(ctx context.Context, next T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, wasLoaded := s.current, s.loaded
	s.current = next
	s.loaded = true

	var stored T
	result := retry.WithExponentialBackoff(ctx, s.retryCfg, func(ctx context.Context, attempt int) error {
		var err error
		stored, err = s.store.Push(ctx, next)
		return err
	})

	if !result.Success {
		s.current = prev
		s.loaded = wasLoaded

		err := result.LastError
		if errors.IsCode(err, errors.CodeConflict) {
			if _, refreshErr := s.refreshLocked(ctx); refreshErr != nil {
				s.logger.WithError(refreshErr).Warn("failed to reload settings after conflict")
			}
		}

		var zero T
		return zero, err
	}

	s.current = stored
	return s.current, nil
}

// Loaded reports whether a confirmed copy is held locally.
func (s *Synchronizer[T]) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}
