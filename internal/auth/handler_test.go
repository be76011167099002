package auth_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/canteencloud/console/internal/auth"
	_ "github.com/canteencloud/console/testing"
)

func newAuthRouter(t *testing.T, repo auth.Repository) (http.Handler, *auth.Service) {
	t.Helper()
	svc := newAuthService(t, repo)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := auth.NewHandler(logger, svc, 100)

	r := chi.NewRouter()
	r.Use(auth.Middleware(svc))
	r.Route("/auth", handler.MountRoutes)
	return r, svc
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := newAuthRouter(t, &stubRepo{user: activeUser(t, "school_admin")})

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"principal","password":"correctpass"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var body struct {
		Token    string `json:"token"`
		UserInfo struct {
			Username string `json:"username"`
			Role     string `json:"role"`
			OrgID    int64  `json:"org_id"`
		} `json:"user_info"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Token == "" {
		t.Fatalf("expected token in response")
	}
	if body.UserInfo.Role != "school_admin" || body.UserInfo.OrgID != 3 {
		t.Fatalf("unexpected user info: %+v", body.UserInfo)
	}
}

func TestLoginEndpointRejectsBadRequests(t *testing.T) {
	router, _ := newAuthRouter(t, &stubRepo{user: activeUser(t, "school_admin")})

	cases := map[string]string{
		"malformed json":     `{"username":`,
		"missing password":   `{"username":"principal"}`,
		"password too short": `{"username":"principal","password":"abc"}`,
	}
	for name, payload := range cases {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)
		if res.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, res.Code)
		}
	}
}

func TestLoginEndpointUniformRejection(t *testing.T) {
	router, _ := newAuthRouter(t, &stubRepo{user: activeUser(t, "school_admin")})

	for _, payload := range []string{
		`{"username":"nobody","password":"correctpass"}`,
		`{"username":"principal","password":"wrongpass"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)
		if res.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s, got %d", payload, res.Code)
		}
	}
}

func TestProfileRequiresSession(t *testing.T) {
	router, svc := newAuthRouter(t, &stubRepo{user: activeUser(t, "school_admin")})

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.Code)
	}

	sess, err := svc.Login(req.Context(), "principal", "correctpass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), `"username":"principal"`) {
		t.Fatalf("profile body: %s", res.Body.String())
	}
}
