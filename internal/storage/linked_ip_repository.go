package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/brachiGH/firedns-dashboard/internal/models"
)

// LinkedIPRepository persists the append-only address-link log.
type LinkedIPRepository struct {
	db *PostgresDB
}

// NewLinkedIPRepository creates a new linked IP repository
func NewLinkedIPRepository(db *PostgresDB) *LinkedIPRepository {
	return &LinkedIPRepository{db: db}
}

// Append inserts a new link row. The timestamp is assigned by the database
// so that ordering is consistent under concurrent links.
func (r *LinkedIPRepository) Append(ctx context.Context, userID, ip string) (*models.LinkedIP, error) {
	query := `
		INSERT INTO linked_ips (user_id, ip)
		VALUES ($1, $2)
		RETURNING id, time, user_id, ip
	`

	var link models.LinkedIP
	err := r.db.Pool().QueryRow(ctx, query, userID, ip).Scan(
		&link.ID,
		&link.Time,
		&link.UserID,
		&link.IP,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append linked ip: %w", err)
	}

	return &link, nil
}

// Latest returns the most recent link for a user, or nil when the user has
// never linked an address.
func (r *LinkedIPRepository) Latest(ctx context.Context, userID string) (*models.LinkedIP, error) {
	query := `
		SELECT id, time, user_id, ip
		FROM linked_ips
		WHERE user_id = $1
		ORDER BY time DESC, id DESC
		LIMIT 1
	`

	var link models.LinkedIP
	err := r.db.Pool().QueryRow(ctx, query, userID).Scan(
		&link.ID,
		&link.Time,
		&link.UserID,
		&link.IP,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest linked ip: %w", err)
	}

	return &link, nil
}

// LatestUserForIP returns the user most recently linked to an address, or
// the empty string when no user has linked it.
func (r *LinkedIPRepository) LatestUserForIP(ctx context.Context, ip string) (string, error) {
	query := `
		SELECT user_id
		FROM linked_ips
		WHERE ip = $1
		ORDER BY time DESC, id DESC
		LIMIT 1
	`

	var userID string
	err := r.db.Pool().QueryRow(ctx, query, ip).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve user for ip: %w", err)
	}

	return userID, nil
}
