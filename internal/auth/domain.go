package auth

import (
	"time"

	"github.com/canteencloud/console/internal/nav"
)

// Account status values shared across the console.
const (
	StatusActive int16 = 1
	StatusLocked int16 = 2
)

// User represents a console account joined with its organization.
type User struct {
	ID           int64
	Username     string
	RealName     string
	Mobile       string
	PasswordHash string
	RoleKey      string
	OrgID        int64
	OrgType      nav.OrgType
	Status       int16
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
