package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/brachiGH/firedns-dashboard/internal/models"
)

// QueryLogRepository persists per-user DNS query logs reported by the
// resolver side.
type QueryLogRepository struct {
	db *PostgresDB
}

// NewQueryLogRepository creates a new query log repository
func NewQueryLogRepository(db *PostgresDB) *QueryLogRepository {
	return &QueryLogRepository{db: db}
}

// InsertBatch stores a batch of log entries for one user.
func (r *QueryLogRepository) InsertBatch(ctx context.Context, userID string, entries []models.QueryLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO query_logs (user_id, domain, status, timestamp)
		VALUES ($1, $2, $3, $4)
	`
	for _, e := range entries {
		batch.Queue(query, userID, e.Domain, string(e.Status), e.Timestamp)
	}

	results := r.db.Pool().SendBatch(ctx, batch)
	defer results.Close() // nolint:errcheck // cleanup in defer

	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert query logs: %w", err)
		}
	}

	return nil
}

// ListSince returns a user's log entries newer than the given time, most
// recent first, capped at limit.
func (r *QueryLogRepository) ListSince(ctx context.Context, userID string, since time.Time, limit int) ([]models.QueryLogEntry, error) {
	query := `
		SELECT domain, timestamp, status
		FROM query_logs
		WHERE user_id = $1 AND timestamp >= $2
		ORDER BY timestamp DESC
		LIMIT $3
	`

	rows, err := r.db.Pool().Query(ctx, query, userID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list query logs: %w", err)
	}
	defer rows.Close()

	var entries []models.QueryLogEntry
	for rows.Next() {
		var e models.QueryLogEntry
		if err := rows.Scan(&e.Domain, &e.Timestamp, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan query log: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating query logs: %w", err)
	}

	return entries, nil
}
