package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canteencloud/console/internal/accounts"
	"github.com/canteencloud/console/internal/auth"
	navhttp "github.com/canteencloud/console/internal/nav/http"
	"github.com/canteencloud/console/internal/observability"
	"github.com/canteencloud/console/internal/oplog"
	"github.com/canteencloud/console/internal/orgs"
	"github.com/canteencloud/console/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthService      *auth.Service
	OpLogService     *oplog.Service
	AuthHandler      *auth.Handler
	NavHandler       *navhttp.Handler
	AccountsHandler  *accounts.Handler
	SchoolsHandler   *orgs.Handler
	SuppliersHandler *orgs.Handler
	OpLogHandler     *oplog.Handler
	JobsHandler      *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with console defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Auth:    params.AuthService,
		OpLog:   params.OpLogService,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.MountRoutes)
		api.Route("/nav", params.NavHandler.MountRoutes)

		api.Group(func(protected chi.Router) {
			protected.Use(auth.RequireSession)
			protected.Route("/accounts", params.AccountsHandler.MountRoutes)
			protected.Route("/schools", params.SchoolsHandler.MountRoutes)
			protected.Route("/suppliers", params.SuppliersHandler.MountRoutes)
			protected.Route("/logs", params.OpLogHandler.MountRoutes)
			if params.JobsHandler != nil {
				protected.Route("/jobs", params.JobsHandler.MountRoutes)
			}
		})
	})

	return r
}
