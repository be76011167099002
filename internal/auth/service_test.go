package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/canteencloud/console/internal/auth"
	"github.com/canteencloud/console/internal/nav"
	"github.com/canteencloud/console/internal/session"
	"github.com/canteencloud/console/internal/shared"
	_ "github.com/canteencloud/console/testing"
)

type stubRepo struct {
	user *auth.User
}

func (s *stubRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func newAuthService(t *testing.T, repo auth.Repository) *auth.Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := session.NewStore(client, time.Hour, nil)
	tokens := auth.NewTokenIssuer("test-secret", "canteen-console", time.Hour)
	return auth.NewService(repo, sessions, tokens)
}

func activeUser(t *testing.T, roleKey string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &auth.User{
		ID:           11,
		Username:     "principal",
		RealName:     "Principal Zhang",
		PasswordHash: string(hashed),
		RoleKey:      roleKey,
		OrgID:        3,
		OrgType:      nav.OrgSchool,
		Status:       auth.StatusActive,
	}
}

func TestLoginIssuesSession(t *testing.T) {
	svc := newAuthService(t, &stubRepo{user: activeUser(t, "school_admin")})

	sess, err := svc.Login(context.Background(), "principal", "correctpass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token == "" {
		t.Fatalf("expected a signed token")
	}
	if sess.Role != nav.RoleSchoolAdmin || sess.OrgType != nav.OrgSchool {
		t.Fatalf("unexpected identity: %+v", sess)
	}

	restored := svc.Restore(context.Background(), sess.Token)
	if !restored.Active() {
		t.Fatalf("fresh token must restore, got %+v", restored)
	}
	if restored.Profile.Username != "principal" {
		t.Fatalf("restored profile mismatch: %+v", restored.Profile)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	user := activeUser(t, "school_admin")

	cases := map[string]struct {
		repo     *stubRepo
		username string
		password string
	}{
		"unknown user":   {repo: &stubRepo{}, username: "principal", password: "correctpass"},
		"wrong password": {repo: &stubRepo{user: user}, username: "principal", password: "wrongpass"},
		"unknown role":   {repo: &stubRepo{user: activeUser(t, "superuser")}, username: "principal", password: "correctpass"},
	}
	for name, tc := range cases {
		svc := newAuthService(t, tc.repo)
		if _, err := svc.Login(context.Background(), tc.username, tc.password); !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}

func TestLoginRejectsLockedUser(t *testing.T) {
	user := activeUser(t, "school_admin")
	user.Status = auth.StatusLocked
	svc := newAuthService(t, &stubRepo{user: user})

	if _, err := svc.Login(context.Background(), "principal", "correctpass"); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for locked user, got %v", err)
	}
}

func TestRestoreFailsClosed(t *testing.T) {
	svc := newAuthService(t, &stubRepo{user: activeUser(t, "school_admin")})

	if got := svc.Restore(context.Background(), ""); got.Active() {
		t.Fatalf("empty token restored: %+v", got)
	}
	if got := svc.Restore(context.Background(), "not-a-jwt"); got.Active() {
		t.Fatalf("malformed token restored: %+v", got)
	}

	// A token signed under a different secret must not restore.
	otherIssuer := auth.NewTokenIssuer("other-secret", "canteen-console", time.Hour)
	forged, _, err := otherIssuer.Issue(activeUser(t, "school_admin"), "school_admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if got := svc.Restore(context.Background(), forged); got.Active() {
		t.Fatalf("forged token restored: %+v", got)
	}
}

func TestRestoreAfterLogout(t *testing.T) {
	svc := newAuthService(t, &stubRepo{user: activeUser(t, "school_admin")})

	sess, err := svc.Login(context.Background(), "principal", "correctpass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(context.Background(), sess.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if got := svc.Restore(context.Background(), sess.Token); got.Active() {
		t.Fatalf("revoked token restored: %+v", got)
	}

	// Logging out with a dead token is a no-op, not an error.
	if err := svc.Logout(context.Background(), "not-a-jwt"); err != nil {
		t.Fatalf("logout dead token: %v", err)
	}
}
