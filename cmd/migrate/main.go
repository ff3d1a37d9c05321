// Command migrate prepares a database for the API: it creates the indexes
// and the bootstrap administrator account. Running it twice is harmless.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/code-sharad/expense-tracker/internal/core/service"
	"github.com/code-sharad/expense-tracker/internal/infrastructure/db"
	"github.com/code-sharad/expense-tracker/internal/pkg/config"
	"github.com/code-sharad/expense-tracker/pkg/logger"
)

func main() {
	envFile := flag.String("env", ".env", "path to an optional .env file")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	_ = godotenv.Load(*envFile)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log := logger.New(logger.Options{Pretty: true, Service: "expense-tracker-migrate"})

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.StorageDriver != config.StorageMongo {
		log.Info().Str("storage", cfg.StorageDriver).Msg("nothing to migrate")
		return
	}

	// Revocation is not needed here.
	cfg.Redis.Addr = ""
	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer store.Close(context.Background())

	created, err := service.NewUserService(store.Users, log).
		SeedAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to seed admin")
		os.Exit(1)
	}
	if !created {
		log.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("admin already exists")
		return
	}
	log.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("admin created")
}
