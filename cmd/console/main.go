package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/canteencloud/console/internal/accounts"
	"github.com/canteencloud/console/internal/app"
	"github.com/canteencloud/console/internal/auth"
	"github.com/canteencloud/console/internal/nav"
	navhttp "github.com/canteencloud/console/internal/nav/http"
	"github.com/canteencloud/console/internal/observability"
	"github.com/canteencloud/console/internal/oplog"
	"github.com/canteencloud/console/internal/orgs"
	"github.com/canteencloud/console/internal/platform/cache"
	"github.com/canteencloud/console/internal/platform/db"
	"github.com/canteencloud/console/internal/session"
	"github.com/canteencloud/console/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalog := nav.DefaultCatalog()
	menuStore := nav.NewStore()
	guard := nav.NewGuard(catalog, menuStore, logger)

	sessionStore := session.NewStore(redisClient, cfg.SessionTTL, menuStore)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, sessionStore, tokens)
	authHandler := auth.NewHandler(logger, authService, cfg.LoginRateLimitPerMinute)

	queueClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	opLogRepo := oplog.NewRepository(pool)
	opLogService := oplog.NewService(opLogRepo, queueClient, logger)
	opLogHandler := oplog.NewHandler(logger, opLogService)

	metrics := observability.NewMetrics()
	navHandler := navhttp.NewHandler(logger, guard, authService, metrics)

	accountsRepo := accounts.NewRepository(pool)
	accountsService := accounts.NewService(accountsRepo)
	accountsHandler := accounts.NewHandler(logger, accountsService)

	orgsRepo := orgs.NewRepository(pool)
	orgsService := orgs.NewService(orgsRepo)
	schoolsHandler := orgs.NewHandler(logger, orgsService, nav.OrgSchool)
	suppliersHandler := orgs.NewHandler(logger, orgsService, nav.OrgSupplier)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthService:      authService,
		OpLogService:     opLogService,
		AuthHandler:      authHandler,
		NavHandler:       navHandler,
		AccountsHandler:  accountsHandler,
		SchoolsHandler:   schoolsHandler,
		SuppliersHandler: suppliersHandler,
		OpLogHandler:     opLogHandler,
		JobsHandler:      jobsHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
