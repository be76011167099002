// Package oplog records who did what against the console's mutating
// endpoints and serves the paginated log listing.
package oplog

import "time"

// Entry is one operation log row.
type Entry struct {
	ID         int64     `json:"id"`
	ActorID    int64     `json:"actor_id"`
	OrgID      int64     `json:"org_id"`
	Username   string    `json:"username"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	OccurredAt time.Time `json:"occurred_at"`
}
