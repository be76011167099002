package oplog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/canteencloud/console/internal/nav"
	"github.com/canteencloud/console/internal/session"
)

func TestMiddlewareRecordsMutations(t *testing.T) {
	repo := &memoryLogRepo{}
	svc := NewService(repo, nil, nil)

	handler := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	sess := session.Session{
		Token:   "tok",
		Role:    nav.RoleSchoolAdmin,
		Profile: session.Profile{UserID: 9, Username: "principal", OrgID: 5},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", nil)
	req = req.WithContext(session.ContextWithSession(req.Context(), sess))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	require.Equal(t, "principal", entry.Username)
	require.EqualValues(t, 5, entry.OrgID)
	require.Equal(t, http.MethodPost, entry.Method)
	require.Equal(t, "/api/v1/accounts", entry.Path)
	require.Equal(t, http.StatusCreated, entry.StatusCode)
}

func TestMiddlewareSkipsReadsAndAnonymous(t *testing.T) {
	repo := &memoryLogRepo{}
	svc := NewService(repo, nil, nil)

	handler := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	sess := session.Session{Token: "tok", Role: nav.RoleSchoolAdmin}
	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/logs", nil)
	getReq = getReq.WithContext(session.ContextWithSession(getReq.Context(), sess))
	handler.ServeHTTP(httptest.NewRecorder(), getReq)

	anonReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	handler.ServeHTTP(httptest.NewRecorder(), anonReq)

	require.Empty(t, repo.entries)
}
