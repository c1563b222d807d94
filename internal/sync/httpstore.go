package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brachiGH/firedns-dashboard/internal/errors"
	"github.com/brachiGH/firedns-dashboard/internal/models"
	"github.com/brachiGH/firedns-dashboard/internal/types"
)

// Client talks to the dashboard settings API. One client can back any
// number of per-group stores.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a settings API client. A nil httpClient gets a default
// with a request timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// General returns a store for the user's security settings group.
func (c *Client) General(userID string) Store[models.GeneralSettings] {
	return &httpStore[models.GeneralSettings]{client: c, path: "/settings/general/" + userID}
}

// Privacy returns a store for the user's blocklist settings group.
func (c *Client) Privacy(userID string) Store[models.PrivacySettings] {
	return &httpStore[models.PrivacySettings]{client: c, path: "/settings/privacy/" + userID}
}

// Parental returns a store for the user's parental settings group.
func (c *Client) Parental(userID string) Store[models.ParentalSettings] {
	return &httpStore[models.ParentalSettings]{client: c, path: "/settings/parental/" + userID}
}

type httpStore[T any] struct {
	client *Client
	path   string
}

func (s *httpStore[T]) Fetch(ctx context.Context) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.baseURL+s.path, nil)
	if err != nil {
		return zero, errors.NewBackendUnavailableError(err)
	}

	resp, err := s.client.http.Do(req)
	if err != nil {
		return zero, errors.NewBackendUnavailableError(err)
	}
	defer resp.Body.Close() // nolint:errcheck // cleanup in defer

	if resp.StatusCode != http.StatusOK {
		return zero, decodeError(resp)
	}

	var value T
	if err := json.NewDecoder(resp.Body).Decode(&value); err != nil {
		return zero, errors.NewBackendUnavailableError(fmt.Errorf("malformed settings response: %w", err))
	}
	return value, nil
}

func (s *httpStore[T]) Push(ctx context.Context, value T) (T, error) {
	var zero T

	payload, err := json.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal settings: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.client.baseURL+s.path, bytes.NewReader(payload))
	if err != nil {
		return zero, errors.NewBackendUnavailableError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.http.Do(req)
	if err != nil {
		return zero, errors.NewBackendUnavailableError(err)
	}
	defer resp.Body.Close() // nolint:errcheck // cleanup in defer

	if resp.StatusCode != http.StatusOK {
		return zero, decodeError(resp)
	}

	var stored T
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return zero, errors.NewBackendUnavailableError(fmt.Errorf("malformed settings response: %w", err))
	}
	return stored, nil
}

// decodeError turns an API error response back into the categorized error
// it originated from, so callers see the same codes on both sides of the
// wire. Responses without a parseable body count as backend failures.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var svcErr types.ServiceError
	if err := json.Unmarshal(body, &svcErr); err != nil || svcErr.Code == "" {
		return errors.NewBackendUnavailableError(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	category := errors.CategoryBackend
	switch svcErr.Code {
	case errors.CodeConflict:
		category = errors.CategoryConflict
	case errors.CodeValidationError, errors.CodeNoAddressAvailable:
		category = errors.CategoryUserInput
	case errors.CodeNotFound:
		category = errors.CategoryNotFound
	case errors.CodeNotAuthenticated:
		category = errors.CategoryAuthentication
	}

	return &errors.CategorizedError{
		Category:   category,
		StatusCode: resp.StatusCode,
		Code:       svcErr.Code,
		Message:    svcErr.Message,
		Details:    svcErr.Details,
	}
}
