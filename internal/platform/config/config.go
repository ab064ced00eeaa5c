// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, cache, broker) via constructors.
  - Optional Collaborators: An empty AMQP_URL or JWT_PUBLIC_KEY_PATH switches
    the matching subsystem off instead of failing startup.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported values for [Config.CacheBackend].
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
	CacheBackendNone   = "none"
)

// # Configuration Schema

// Config holds all runtime configuration for the Songatlas API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// QueryTimeout bounds every catalogue query issued by the engine.
	QueryTimeout time.Duration `env:"QUERY_TIMEOUT" envDefault:"10s"`

	// Schema migrations applied at startup
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Response cache
	CacheBackend        string        `env:"CACHE_BACKEND"         envDefault:"redis"`
	CachePrefix         string        `env:"CACHE_PREFIX"          envDefault:"songatlas-cache"`
	CacheTTL            time.Duration `env:"CACHE_TTL"             envDefault:"1h"`
	CacheMemoryCapacity int           `env:"CACHE_MEMORY_CAPACITY" envDefault:"10000"`

	// Key-Value Cache (Redis), required when CacheBackend is "redis"
	RedisURL string `env:"REDIS_URL"`

	// GuardTitleLimit caps the blocking song titles listed in a delete conflict.
	GuardTitleLimit int `env:"GUARD_TITLE_LIMIT" envDefault:"10"`

	// Admin mutation events (RabbitMQ)
	AMQPURL   string `env:"AMQP_URL"`
	AMQPQueue string `env:"AMQP_QUEUE" envDefault:"catalog.mutations"`

	// Public key used to verify admin bearer tokens
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH"`

	// Per-client rate limiting
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Cross-Origin Resource Sharing
	ExtraOrigins      string `env:"EXTRA_ORIGINS"`
	CORSAllowedSuffix string `env:"CORS_ALLOWED_SUFFIX"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cross-field rules that struct tags cannot express.
func (c *Config) validate() error {
	switch c.CacheBackend {
	case CacheBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: REDIS_URL is required when CACHE_BACKEND=%s", CacheBackendRedis)
		}
	case CacheBackendMemory, CacheBackendNone:
	default:
		return fmt.Errorf("config: unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("config: QUERY_TIMEOUT must be positive, got %s", c.QueryTimeout)
	}
	if c.GuardTitleLimit < 1 {
		return fmt.Errorf("config: GUARD_TITLE_LIMIT must be at least 1, got %d", c.GuardTitleLimit)
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AdminEnabled reports whether admin routes can verify bearer tokens.
func (c *Config) AdminEnabled() bool {
	return c.JWTPubKeyPath != ""
}

// ConsumerEnabled reports whether the mutation event consumer should run.
func (c *Config) ConsumerEnabled() bool {
	return c.AMQPURL != ""
}
