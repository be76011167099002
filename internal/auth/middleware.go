package auth

import (
	"net/http"
	"strings"

	"github.com/canteencloud/console/internal/platform/httpx"
	"github.com/canteencloud/console/internal/session"
)

// Middleware restores the session behind the request's bearer token and
// attaches it to the context. Requests without a usable token carry the
// empty session; whether that matters is the guard's call, not this
// layer's.
func Middleware(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := svc.Restore(r.Context(), bearerToken(r))
			next.ServeHTTP(w, r.WithContext(session.ContextWithSession(r.Context(), sess)))
		})
	}
}

// RequireSession rejects requests whose context holds no active session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromContext(r.Context()).Active() {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
