package oplog

import (
	"net/http"

	"github.com/canteencloud/console/internal/session"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records every mutating request made by an authenticated
// user. Reads are not logged; neither are anonymous requests (the login
// endpoint has its own rejection logging).
func Middleware(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			sess := session.FromContext(r.Context())
			if !sess.Active() {
				return
			}
			svc.Record(r.Context(), Entry{
				ActorID:    sess.Profile.UserID,
				OrgID:      sess.Profile.OrgID,
				Username:   sess.Profile.Username,
				Method:     r.Method,
				Path:       r.URL.Path,
				StatusCode: recorder.status,
			})
		})
	}
}
