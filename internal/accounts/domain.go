// Package accounts manages sub-accounts: lower-privileged logins an
// administrator creates inside their own organization.
package accounts

import "time"

// Account is a console login row as listed to its creator's organization.
type Account struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	RealName  string    `json:"real_name"`
	Mobile    string    `json:"mobile,omitempty"`
	RoleKey   string    `json:"role"`
	OrgID     int64     `json:"org_id"`
	Status    int16     `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateParams carries the caller-supplied fields of a new sub-account.
// Organization and role are derived from the creator, never from the
// request.
type CreateParams struct {
	Username string
	Password string
	RealName string
	Mobile   string
}
