package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadWith(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"JWT_SECRET": "s3cret",
		"MONGO_URI":  "mongodb://localhost:27017",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development environment")
	}
	if cfg.StorageDriver != StorageMongo {
		t.Errorf("StorageDriver = %q", cfg.StorageDriver)
	}
	if cfg.JWT.TTL != 24*time.Hour || cfg.JWT.Issuer != "expense-tracker" {
		t.Errorf("unexpected JWT config %+v", cfg.JWT)
	}
	if cfg.Mongo.Database != "expense_tracker" {
		t.Errorf("Mongo.Database = %q", cfg.Mongo.Database)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.LoginRateLimit != 5 || cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected limits %v %v", cfg.LoginRateLimit, cfg.ShutdownTimeout)
	}
	if cfg.Bootstrap.AdminEmail != "admin@gmail.com" || cfg.Bootstrap.AdminPassword != "admin123" {
		t.Errorf("unexpected bootstrap %+v", cfg.Bootstrap)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"JWT_SECRET":     "s3cret",
		"JWT_TTL":        "1h",
		"STORAGE_DRIVER": "Memory",
		"ENV":            "production",
		"CORS_ORIGINS":   "http://a.test,http://b.test",
		"REDIS_ADDR":     "",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Errorf("StorageDriver = %q", cfg.StorageDriver)
	}
	if cfg.JWT.TTL != time.Hour {
		t.Errorf("JWT.TTL = %s", cfg.JWT.TTL)
	}
	if cfg.IsDevelopment() {
		t.Errorf("production must not be development")
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{"MONGO_URI": "mongodb://x"}, "JWT_SECRET"},
		{"missing mongo uri", map[string]string{"JWT_SECRET": "s"}, "MONGO_URI"},
		{"unknown driver", map[string]string{"JWT_SECRET": "s", "STORAGE_DRIVER": "sqlite"}, "STORAGE_DRIVER"},
		{"bad ttl", map[string]string{"JWT_SECRET": "s", "STORAGE_DRIVER": "memory", "JWT_TTL": "-1h"}, "JWT_TTL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := load(t, tc.env)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}
