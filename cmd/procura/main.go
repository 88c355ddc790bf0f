package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/procura-platform/procura/internal/app"
	"github.com/procura-platform/procura/internal/auth"
	"github.com/procura-platform/procura/internal/authz"
	"github.com/procura-platform/procura/internal/grants"
	"github.com/procura-platform/procura/internal/observability"
	"github.com/procura-platform/procura/internal/platform/cache"
	"github.com/procura-platform/procura/internal/platform/db"
	"github.com/procura-platform/procura/internal/suppliers"
	"github.com/procura-platform/procura/internal/users"
	"github.com/procura-platform/procura/jobs"
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

	metrics := observability.NewMetrics()
	guard := authz.Middleware{
		Logger: logger,
		Observe: func(d authz.Decision) {
			metrics.ObserveDecision(decisionLabel(d))
		},
	}

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	catalog := authz.DefaultCatalog()
	tokens := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	store := auth.NewSessionStore(redisClient)

	grantsRepo := grants.NewRepository(pool)
	grantsService := grants.NewService(grantsRepo, jobs.NewGrantNotifier(jobsClient, logger))
	grantsHandler := grants.NewHandler(logger, grantsService, guard)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, grantsRepo, catalog, tokens, store)
	authHandler := auth.NewHandler(logger, authService)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, grantsService)
	usersHandler := users.NewHandler(logger, usersService, guard)

	suppliersRepo := suppliers.NewRepository(pool)
	suppliersService := suppliers.NewService(suppliersRepo)
	suppliersHandler := suppliers.NewHandler(logger, suppliersService, guard)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthService:      authService,
		AuthHandler:      authHandler,
		GrantsHandler:    grantsHandler,
		UsersHandler:     usersHandler,
		SuppliersHandler: suppliersHandler,
		Guard:            guard,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("http server", slog.Any("error", err))
		os.Exit(1)
	}
}

func decisionLabel(d authz.Decision) string {
	switch d {
	case authz.RedirectToLogin:
		return "redirect_login"
	case authz.RedirectToRoleDefault:
		return "redirect_default"
	default:
		return "allow"
	}
}
