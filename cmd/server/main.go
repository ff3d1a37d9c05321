package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/code-sharad/expense-tracker/docs" // Swagger docs
	"github.com/code-sharad/expense-tracker/internal/api"
	"github.com/code-sharad/expense-tracker/internal/api/handler"
	"github.com/code-sharad/expense-tracker/internal/core/service"
	"github.com/code-sharad/expense-tracker/internal/infrastructure/db"
	"github.com/code-sharad/expense-tracker/internal/pkg/config"
	"github.com/code-sharad/expense-tracker/internal/pkg/token"
	"github.com/code-sharad/expense-tracker/pkg/logger"
)

// @title Expense Tracker API
// @version 1.0
// @description Expense submission and approval for employees, managers and admins.
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "expense-tracker",
	})

	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("failed to close storage")
		}
	}()

	tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid token configuration")
	}

	userService := service.NewUserService(store.Users, log)
	if cfg.StorageDriver == config.StorageMemory {
		// Nothing persists between runs, so seed the admin every start.
		if _, err := userService.SeedAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin")
		}
	}

	checks := make(map[string]handler.HealthCheck, len(store.Checks))
	for name, check := range store.Checks {
		checks[name] = check
	}

	e := api.NewRouter(api.Deps{
		Log:            log,
		Auth:           service.NewAuthService(store.Users, tokens, store.Revoker, log),
		Users:          userService,
		Expenses:       service.NewExpenseService(store.Expenses, store.Users, log),
		HealthChecks:   checks,
		CORSOrigins:    cfg.CORSOrigins,
		LoginRateLimit: cfg.LoginRateLimit,
		Registerer:     prometheus.DefaultRegisterer,
		Gatherer:       prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("storage", cfg.StorageDriver).Msg("server starting")
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
		os.Exit(1)
	}
	log.Info().Msg("server stopped gracefully")
}
