package identity

import (
	"context"
	"time"

	"github.com/brachiGH/firedns-dashboard/internal/errors"
	"github.com/brachiGH/firedns-dashboard/internal/logging"
	"github.com/brachiGH/firedns-dashboard/internal/models"
)

// LinkStore is the persistence surface the identity service needs. The
// underlying log is append-only; resolving state means reading the most
// recent entry.
type LinkStore interface {
	// Append records a new link observation for the account.
	Append(ctx context.Context, userID, ip string) (*models.LinkedIP, error)
	// Latest returns the most recent link for the account, or nil when the
	// account has never linked an address.
	Latest(ctx context.Context, userID string) (*models.LinkedIP, error)
	// LatestUserForIP returns the account most recently linked to the given
	// address, or the empty string when no account has linked it.
	LatestUserForIP(ctx context.Context, ip string) (string, error)
}

// Status describes whether the caller's current address matches the
// account's most recently linked address.
type Status struct {
	ObservedIP string     `json:"observedIp"`
	LinkedIP   string     `json:"linkedIp,omitempty"`
	IsLinked   bool       `json:"isLinked"`
	LinkedAt   *time.Time `json:"linkedAt,omitempty"`
}

// Service binds network addresses to accounts.
type Service struct {
	store  LinkStore
	logger *logging.Logger
}

func NewService(store LinkStore, logger *logging.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// LinkAddress appends a link entry for the account. The explicit address
// wins when given; otherwise the observed address is used. Earlier links
// are never modified, so concurrent links settle on whichever entry was
// appended last.
func (s *Service) LinkAddress(ctx context.Context, userID, address, observed string) (*models.LinkedIP, error) {
	if userID == "" {
		return nil, errors.NewNotAuthenticatedError()
	}

	ip := address
	if ip == "" {
		ip = observed
	}
	if ip == "" {
		return nil, errors.NewNoAddressAvailableError()
	}

	link, err := s.store.Append(ctx, userID, ip)
	if err != nil {
		return nil, errors.NewBackendUnavailableError(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"ip":      ip,
	}).Info("linked address")

	return link, nil
}

// LastLinkedAddress returns the account's current link, or nil when the
// account has never linked an address.
func (s *Service) LastLinkedAddress(ctx context.Context, userID string) (*models.LinkedIP, error) {
	if userID == "" {
		return nil, errors.NewNotAuthenticatedError()
	}
	link, err := s.store.Latest(ctx, userID)
	if err != nil {
		return nil, errors.NewBackendUnavailableError(err)
	}
	return link, nil
}

// LinkStatus reports whether the observed address matches the account's
// most recent link. An account with no link history is never linked.
func (s *Service) LinkStatus(ctx context.Context, userID, observed string) (*Status, error) {
	link, err := s.LastLinkedAddress(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := &Status{ObservedIP: observed}
	if link != nil {
		st.LinkedIP = link.IP
		st.LinkedAt = &link.Time
		st.IsLinked = observed != "" && observed == link.IP
	}
	return st, nil
}

// UserForAddress resolves the account most recently linked to an address.
// Used by the resolver side to attribute incoming queries.
func (s *Service) UserForAddress(ctx context.Context, ip string) (string, error) {
	if ip == "" {
		return "", errors.NewValidationError("ip is required")
	}
	userID, err := s.store.LatestUserForIP(ctx, ip)
	if err != nil {
		return "", errors.NewBackendUnavailableError(err)
	}
	if userID == "" {
		return "", errors.NewNotFoundError("linked address", ip)
	}
	return userID, nil
}
