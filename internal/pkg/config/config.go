package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Port            string        `env:"PORT, default=8080"`
	Env             string        `env:"ENV, default=development"`
	LogLevel        string        `env:"LOG_LEVEL, default=info"`
	StorageDriver   string        `env:"STORAGE_DRIVER, default=mongo"`
	CORSOrigins     []string      `env:"CORS_ORIGINS, default=*"`
	LoginRateLimit  float64       `env:"LOGIN_RATE_LIMIT, default=5"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	JWT       JWTConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Bootstrap BootstrapConfig
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET, required"`
	TTL    time.Duration `env:"JWT_TTL, default=24h"`
	Issuer string        `env:"JWT_ISSUER, default=expense-tracker"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=expense_tracker"`
}

type RedisConfig struct {
	// Addr may be empty to run without token revocation.
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// BootstrapConfig holds the credentials of the administrator created on an
// empty database.
type BootstrapConfig struct {
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL, default=admin@gmail.com"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD, default=admin123"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case StorageMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when STORAGE_DRIVER=%s", StorageMongo)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWT.TTL)
	}
	if c.LoginRateLimit < 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT must not be negative")
	}
	return nil
}
