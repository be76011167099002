package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/canteencloud/console/internal/nav"
	"github.com/canteencloud/console/internal/session"
	"github.com/canteencloud/console/internal/shared"
)

// Service wraps authentication business rules: credential checks, token
// issuing and the session lifecycle.
type Service struct {
	repo     Repository
	sessions *session.Store
	tokens   *TokenIssuer
}

// NewService constructs a new Service.
func NewService(repo Repository, sessions *session.Store, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, sessions: sessions, tokens: tokens}
}

// Login validates credentials, issues a token and persists the session
// record in one step. The role comes from the database, never from the
// request. Every credential failure maps to the same error so usernames
// cannot be probed.
func (s *Service) Login(ctx context.Context, username, password string) (session.Session, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return session.Session{}, shared.ErrInvalidCredentials
	}
	if user.Status != StatusActive {
		return session.Session{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return session.Session{}, shared.ErrInvalidCredentials
	}
	role, ok := nav.ParseRole(user.RoleKey)
	if !ok {
		return session.Session{}, shared.ErrInvalidCredentials
	}

	token, jti, err := s.tokens.Issue(user, role.String())
	if err != nil {
		return session.Session{}, err
	}
	sess := session.Session{
		Token:   token,
		Role:    role,
		OrgType: user.OrgType,
		Profile: session.Profile{
			UserID:   user.ID,
			Username: user.Username,
			RealName: user.RealName,
			OrgID:    user.OrgID,
		},
	}
	if err := s.sessions.Login(ctx, jti, sess); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

// Restore resolves a raw bearer token back to its session. Any failure
// (malformed token, expired signature, revoked or corrupt record, role
// drift between token and record) yields the empty session.
func (s *Service) Restore(ctx context.Context, raw string) session.Session {
	if raw == "" {
		return session.Session{}
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return session.Session{}
	}
	sess := s.sessions.Restore(ctx, claims.ID)
	if sess.Role.String() != claims.Role {
		return session.Session{}
	}
	return sess
}

// Logout revokes the session behind a raw token. Tokens that no longer
// parse are already dead; revoking them again is a no-op.
func (s *Service) Logout(ctx context.Context, raw string) error {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return s.sessions.Logout(ctx, "")
	}
	return s.sessions.Logout(ctx, claims.ID)
}
