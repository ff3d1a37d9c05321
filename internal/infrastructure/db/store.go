// Package db opens the persistence backends selected by configuration.
package db

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/code-sharad/expense-tracker/internal/core/ports"
	"github.com/code-sharad/expense-tracker/internal/infrastructure/db/memory"
	"github.com/code-sharad/expense-tracker/internal/infrastructure/db/mongo"
	"github.com/code-sharad/expense-tracker/internal/infrastructure/db/redis"
	"github.com/code-sharad/expense-tracker/internal/pkg/config"
)

// Store bundles the repositories and the revocation list behind the ports.
type Store struct {
	Users    ports.UserRepository
	Expenses ports.ExpenseRepository
	Revoker  ports.TokenRevoker
	// Checks are the readiness probes of the opened backends.
	Checks map[string]func(context.Context) error

	mongoClient *gomongo.Client
	redisClient *goredis.Client
}

// Open connects the backends chosen by cfg. With the memory driver nothing
// is dialled and revocation is kept in process.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	s := &Store{Checks: make(map[string]func(context.Context) error)}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		s.Users = memory.NewUserRepository()
		s.Expenses = memory.NewExpenseRepository()
		s.Revoker = memory.NewTokenRevoker()
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return s, nil

	case config.StorageMongo:
		client, database, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		s.mongoClient = client
		if err := mongo.EnsureIndexes(ctx, database); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.Users = mongo.NewUserRepository(database)
		s.Expenses = mongo.NewExpenseRepository(database)
		s.Checks["mongodb"] = func(ctx context.Context) error { return mongo.Ping(ctx, client) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if cfg.Redis.Addr == "" {
		log.Warn().Msg("REDIS_ADDR is empty, logout will not revoke tokens")
		return s, nil
	}
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	s.redisClient = rdb
	s.Revoker = redis.NewTokenRevoker(rdb)
	s.Checks["redis"] = func(ctx context.Context) error { return redis.Ping(ctx, rdb) }
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	return s, nil
}

// Close releases every connection opened by Open.
func (s *Store) Close(ctx context.Context) error {
	var firstErr error
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			firstErr = fmt.Errorf("close redis: %w", err)
		}
	}
	if s.mongoClient != nil {
		if err := s.mongoClient.Disconnect(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close mongo: %w", err)
		}
	}
	return firstErr
}
