package models

import "time"

// LinkedIP is one row of the append-only address-link log. Rows are never
// updated or deleted; the current link for a user is the row with the
// greatest Time. The timestamp is always server-assigned.
type LinkedIP struct {
	ID     int64     `json:"id"`
	Time   time.Time `json:"time"`
	UserID string    `json:"userId"`
	IP     string    `json:"ip"`
}
