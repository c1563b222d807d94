package models

import (
	"time"

	"github.com/brachiGH/firedns-dashboard/internal/types"
)

// QueryLogEntry is one resolved-or-blocked DNS query reported by the external
// resolver, attributed to a user through the linked-address log.
type QueryLogEntry struct {
	Domain    string            `json:"domain"`
	Timestamp time.Time         `json:"timestamp"`
	Status    types.QueryStatus `json:"status"`
}
