// Package orgs manages the platform-side registry of tenant
// organizations: schools, suppliers and canteens.
package orgs

import (
	"time"

	"github.com/canteencloud/console/internal/nav"
)

// Organization status values.
const (
	StatusActive   int16 = 1
	StatusDisabled int16 = 2
)

// Organization is a tenant registered on the platform.
type Organization struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	OrgType      nav.OrgType `json:"org_type"`
	ContactName  string      `json:"contact_name,omitempty"`
	ContactPhone string      `json:"contact_phone,omitempty"`
	Status       int16       `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// CreateParams carries the fields of a new organization.
type CreateParams struct {
	Name         string
	ContactName  string
	ContactPhone string
}
