package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/brachiGH/firedns-dashboard/internal/errors"
	"github.com/brachiGH/firedns-dashboard/internal/models"
	"github.com/brachiGH/firedns-dashboard/internal/policy"
)

// Settings tables all share the same shape: one row per user holding a jsonb
// payload and a monotonically increasing version. Names are compile-time
// constants, never caller input.
const (
	generalSettingsTable  = "general_settings"
	privacySettingsTable  = "privacy_settings"
	parentalSettingsTable = "parental_settings"
)

// SettingsRepository persists the three policy settings groups. Every read
// of an absent row yields the group's defaults at version 0; every write is
// a whole-group replace guarded by the version the caller last read.
type SettingsRepository struct {
	db      *PostgresDB
	catalog *policy.Catalog
}

// NewSettingsRepository creates a new settings repository. The catalog
// supplies the blockedApps key set used for parental defaults.
func NewSettingsRepository(db *PostgresDB, catalog *policy.Catalog) *SettingsRepository {
	return &SettingsRepository{db: db, catalog: catalog}
}

// loadRow reads the payload and version for one user, reporting absence
// without error.
func (r *SettingsRepository) loadRow(ctx context.Context, table, userID string) ([]byte, int64, bool, error) {
	query := fmt.Sprintf(`SELECT settings, version FROM %s WHERE user_id = $1`, table)

	var payload []byte
	var version int64
	err := r.db.Pool().QueryRow(ctx, query, userID).Scan(&payload, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, false, nil
		}
		return nil, 0, false, fmt.Errorf("failed to load %s: %w", table, err)
	}
	return payload, version, true, nil
}

// saveRow replaces the payload for one user, succeeding only when the
// supplied version matches the stored one. Version 0 means the caller read
// the defaults and expects no row to exist yet. Returns the new version.
func (r *SettingsRepository) saveRow(ctx context.Context, table, group, userID string, payload []byte, version int64) (int64, error) {
	if version == 0 {
		query := fmt.Sprintf(`
			INSERT INTO %s (user_id, settings, version, updated_at)
			VALUES ($1, $2, 1, now())
			ON CONFLICT (user_id) DO NOTHING
		`, table)

		tag, err := r.db.Pool().Exec(ctx, query, userID, payload)
		if err != nil {
			return 0, fmt.Errorf("failed to insert %s: %w", table, err)
		}
		if tag.RowsAffected() == 1 {
			return 1, nil
		}
		// A concurrent first write won the insert race.
	} else {
		query := fmt.Sprintf(`
			UPDATE %s
			SET settings = $2, version = $3, updated_at = now()
			WHERE user_id = $1 AND version = $4
		`, table)

		tag, err := r.db.Pool().Exec(ctx, query, userID, payload, version+1, version)
		if err != nil {
			return 0, fmt.Errorf("failed to update %s: %w", table, err)
		}
		if tag.RowsAffected() == 1 {
			return version + 1, nil
		}
	}

	_, actual, _, err := r.loadRow(ctx, table, userID)
	if err != nil {
		return 0, err
	}
	return 0, apperrors.NewConflictError(group, version, actual)
}

// LoadGeneral returns the stored security settings, or the all-false
// defaults at version 0 when the user has never saved any.
func (r *SettingsRepository) LoadGeneral(ctx context.Context, userID string) (*models.GeneralSettings, error) {
	payload, version, found, err := r.loadRow(ctx, generalSettingsTable, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		s := models.DefaultGeneralSettings(userID)
		return &s, nil
	}

	var s models.GeneralSettings
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal general settings: %w", err)
	}
	s.UserID = userID
	s.Version = version
	return &s, nil
}

// SaveGeneral replaces the security settings. On success the settings'
// Version is advanced to the stored value.
func (r *SettingsRepository) SaveGeneral(ctx context.Context, s *models.GeneralSettings) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal general settings: %w", err)
	}

	version, err := r.saveRow(ctx, generalSettingsTable, "general", s.UserID, payload, s.Version)
	if err != nil {
		return err
	}
	s.Version = version
	return nil
}

// LoadPrivacy returns the stored blocklist settings, or the all-false
// defaults at version 0.
func (r *SettingsRepository) LoadPrivacy(ctx context.Context, userID string) (*models.PrivacySettings, error) {
	payload, version, found, err := r.loadRow(ctx, privacySettingsTable, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		s := models.DefaultPrivacySettings(userID)
		return &s, nil
	}

	var s models.PrivacySettings
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal privacy settings: %w", err)
	}
	s.UserID = userID
	s.Version = version
	return &s, nil
}

// SavePrivacy replaces the blocklist settings.
func (r *SettingsRepository) SavePrivacy(ctx context.Context, s *models.PrivacySettings) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal privacy settings: %w", err)
	}

	version, err := r.saveRow(ctx, privacySettingsTable, "privacy", s.UserID, payload, s.Version)
	if err != nil {
		return err
	}
	s.Version = version
	return nil
}

// LoadParental returns the stored parental settings, or defaults covering
// every catalog application and the standard recreation schedule.
func (r *SettingsRepository) LoadParental(ctx context.Context, userID string) (*models.ParentalSettings, error) {
	payload, version, found, err := r.loadRow(ctx, parentalSettingsTable, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		s := policy.DefaultParentalSettings(userID, r.catalog)
		return &s, nil
	}

	var s models.ParentalSettings
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parental settings: %w", err)
	}
	s.UserID = userID
	s.Version = version
	return &s, nil
}

// SaveParental replaces the parental settings after validating the
// blockedApps keys against the application catalog.
func (r *SettingsRepository) SaveParental(ctx context.Context, s *models.ParentalSettings) error {
	if err := r.catalog.ValidateBlockedApps(s.BlockedApps); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal parental settings: %w", err)
	}

	version, err := r.saveRow(ctx, parentalSettingsTable, "parental", s.UserID, payload, s.Version)
	if err != nil {
		return err
	}
	s.Version = version
	return nil
}
