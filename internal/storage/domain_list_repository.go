package storage

import (
	"context"
	"fmt"

	"github.com/brachiGH/firedns-dashboard/internal/types"
)

// DomainListRepository persists the per-user allow and deny lists. Adds and
// removes are idempotent; re-adding an existing domain or removing an absent
// one succeeds without effect.
type DomainListRepository struct {
	db *PostgresDB
}

// NewDomainListRepository creates a new domain list repository
func NewDomainListRepository(db *PostgresDB) *DomainListRepository {
	return &DomainListRepository{db: db}
}

// List returns the domains on one list in insertion order.
func (r *DomainListRepository) List(ctx context.Context, userID string, kind types.ListKind) ([]string, error) {
	query := `
		SELECT domain
		FROM domain_list_entries
		WHERE user_id = $1 AND kind = $2
		ORDER BY added_at
	`

	rows, err := r.db.Pool().Query(ctx, query, userID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s-list entries: %w", kind, err)
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, fmt.Errorf("failed to scan %s-list entry: %w", kind, err)
		}
		domains = append(domains, domain)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s-list entries: %w", kind, err)
	}

	return domains, nil
}

// Add puts a domain on one list. Adding a domain already present keeps its
// original position.
func (r *DomainListRepository) Add(ctx context.Context, userID string, kind types.ListKind, domain string) error {
	query := `
		INSERT INTO domain_list_entries (user_id, kind, domain)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, kind, domain) DO NOTHING
	`

	if _, err := r.db.Pool().Exec(ctx, query, userID, string(kind), domain); err != nil {
		return fmt.Errorf("failed to add %s-list entry: %w", kind, err)
	}
	return nil
}

// Remove takes a domain off one list.
func (r *DomainListRepository) Remove(ctx context.Context, userID string, kind types.ListKind, domain string) error {
	query := `
		DELETE FROM domain_list_entries
		WHERE user_id = $1 AND kind = $2 AND domain = $3
	`

	if _, err := r.db.Pool().Exec(ctx, query, userID, string(kind), domain); err != nil {
		return fmt.Errorf("failed to remove %s-list entry: %w", kind, err)
	}
	return nil
}
