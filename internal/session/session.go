// Package session holds the authenticated identity for one console client
// and its persisted representation.
package session

import (
	"context"

	"github.com/canteencloud/console/internal/nav"
)

// Profile carries the user fields the console surfaces after login.
type Profile struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	RealName string `json:"real_name"`
	OrgID    int64  `json:"org_id"`
}

// Session is the authenticated identity. The zero value is the empty
// session; every restore failure collapses to it (fail closed, never
// fail open).
type Session struct {
	Token   string      `json:"token"`
	Role    nav.Role    `json:"role"`
	OrgType nav.OrgType `json:"org_type"`
	Profile Profile     `json:"profile"`
}

// Active reports whether the session carries a usable identity. An empty
// token or a role outside the closed set makes the whole session inactive.
func (s Session) Active() bool {
	return s.Token != "" && s.Role.Valid()
}

// Identity projects the session onto what the navigation guard needs.
// Authenticated follows the token alone, not Active: a token-bearing
// session with a corrupt role must reach the guard as an authenticated
// but undecidable identity so the guard can terminate it, rather than
// masquerade as anonymous and walk away with a plain redirect.
func (s Session) Identity() nav.Identity {
	return nav.Identity{
		Authenticated: s.Token != "",
		Role:          s.Role,
		Org:           s.OrgType,
	}
}

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// FromContext extracts the session from context, returning the empty
// session when none was attached.
func FromContext(ctx context.Context) Session {
	sess, _ := ctx.Value(sessionContextKey{}).(Session)
	return sess
}
