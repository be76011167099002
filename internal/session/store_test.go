package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/canteencloud/console/internal/nav"
	"github.com/canteencloud/console/internal/session"
	_ "github.com/canteencloud/console/testing"
)

func newSessionStore(t *testing.T, menus *nav.Store) (*session.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return session.NewStore(client, time.Hour, menus), mr
}

func sampleSession() session.Session {
	return session.Session{
		Token:   "token-abc",
		Role:    nav.RoleSchoolAdmin,
		OrgType: nav.OrgSchool,
		Profile: session.Profile{
			UserID:   42,
			Username: "principal",
			RealName: "Principal Zhang",
			OrgID:    7,
		},
	}
}

func TestLoginRestoreRoundtrip(t *testing.T) {
	store, _ := newSessionStore(t, nil)
	ctx := context.Background()

	if err := store.Login(ctx, "sid-1", sampleSession()); err != nil {
		t.Fatalf("login: %v", err)
	}

	got := store.Restore(ctx, "sid-1")
	if !got.Active() {
		t.Fatalf("restored session inactive: %+v", got)
	}
	if got != sampleSession() {
		t.Fatalf("restore mismatch: %+v", got)
	}
}

func TestLoginRejectsIncompleteSession(t *testing.T) {
	store, _ := newSessionStore(t, nil)
	ctx := context.Background()

	missingToken := sampleSession()
	missingToken.Token = ""
	if err := store.Login(ctx, "sid-1", missingToken); err == nil {
		t.Fatalf("expected rejection for empty token")
	}

	badRole := sampleSession()
	badRole.Role = nav.Role("superuser")
	if err := store.Login(ctx, "sid-2", badRole); err == nil {
		t.Fatalf("expected rejection for unknown role")
	}

	if err := store.Login(ctx, "", sampleSession()); err == nil {
		t.Fatalf("expected rejection for empty session id")
	}

	// Nothing may have been written on any failed path.
	if got := store.Restore(ctx, "sid-1"); got.Active() {
		t.Fatalf("failed login left a record behind: %+v", got)
	}
}

func TestRestoreFailsClosed(t *testing.T) {
	store, mr := newSessionStore(t, nil)
	ctx := context.Background()

	if got := store.Restore(ctx, "absent"); got != (session.Session{}) {
		t.Fatalf("missing record must restore empty, got %+v", got)
	}
	if got := store.Restore(ctx, ""); got != (session.Session{}) {
		t.Fatalf("empty id must restore empty, got %+v", got)
	}

	// A record corrupted at rest must behave exactly like no record.
	mr.Set("console:session:corrupt", `{"token":"abc","role":`)
	if got := store.Restore(ctx, "corrupt"); got != (session.Session{}) {
		t.Fatalf("corrupt record must restore empty, got %+v", got)
	}

	mr.Set("console:session:tokenless", `{"token":"","role":"school_admin"}`)
	if got := store.Restore(ctx, "tokenless"); got != (session.Session{}) {
		t.Fatalf("tokenless record must restore empty, got %+v", got)
	}

	mr.Set("console:session:badrole", `{"token":"abc","role":"superuser"}`)
	if got := store.Restore(ctx, "badrole"); got != (session.Session{}) {
		t.Fatalf("unknown-role record must restore empty, got %+v", got)
	}
}

func TestRestoreExpiredSession(t *testing.T) {
	store, mr := newSessionStore(t, nil)
	ctx := context.Background()

	if err := store.Login(ctx, "sid-1", sampleSession()); err != nil {
		t.Fatalf("login: %v", err)
	}
	mr.FastForward(2 * time.Hour)

	if got := store.Restore(ctx, "sid-1"); got.Active() {
		t.Fatalf("expired session restored: %+v", got)
	}
}

func TestLogoutIsIdempotentAndDropsMenus(t *testing.T) {
	menus := nav.NewStore()
	menus.Set(nav.LayoutTenant, nav.RoleSchoolAdmin, []nav.Menu{{FullPath: "/workspace/dashboard", Title: "Workbench"}})

	store, _ := newSessionStore(t, menus)
	ctx := context.Background()

	if err := store.Login(ctx, "sid-1", sampleSession()); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := store.Logout(ctx, "sid-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if got := store.Restore(ctx, "sid-1"); got.Active() {
		t.Fatalf("session survived logout: %+v", got)
	}
	if _, ok := menus.Get(nav.LayoutTenant, nav.RoleSchoolAdmin); ok {
		t.Fatalf("logout must invalidate the menu cache")
	}

	// Repeating the logout, or logging out a session that never existed,
	// must not fail.
	if err := store.Logout(ctx, "sid-1"); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if err := store.Logout(ctx, ""); err != nil {
		t.Fatalf("logout without id: %v", err)
	}
}
