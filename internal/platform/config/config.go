// Copyright (c) 2026 Yomira. All rights reserved.
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
  - DI-Friendly: Passed to core components (DB, Redis, session codec) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrWeakSessionSecret is returned when SESSION_SECRET is shorter than 32 bytes.
var ErrWeakSessionSecret = errors.New("config: SESSION_SECRET must be at least 32 bytes")

// # Configuration Schema

// Config holds all runtime configuration for the Castly API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// RoleCacheTTL bounds how long a cached role set may lag behind the database.
	RoleCacheTTL time.Duration `env:"ROLE_CACHE_TTL" envDefault:"10m"`

	// SessionSecret keys the HMAC over every session cookie field.
	SessionSecret string `env:"SESSION_SECRET,required,notEmpty"`

	// CookieSecure marks session cookies Secure. Only disable for plain-HTTP local runs.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"true"`

	// AdminEmails lists accounts provisioned with the full role set at sign-up.
	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate applies the cross-field checks the env tags cannot express.
func (c *Config) validate() error {
	if len(c.SessionSecret) < 32 {
		return ErrWeakSessionSecret
	}

	normalized := make([]string, 0, len(c.AdminEmails))
	for _, email := range c.AdminEmails {
		if trimmed := strings.TrimSpace(email); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	c.AdminEmails = normalized

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins returns the EXTRA_ORIGINS list, trimmed and without blanks.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
