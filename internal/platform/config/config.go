// Copyright (c) 2026 Librarium. All rights reserved.
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
  - DI-Friendly: Passed to core components (datastore, resolver) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Librarium API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// DataDir is the directory holding the flat-file entity collections
	// (books.json, users.json, issues.json).
	DataDir string `env:"DATA_DIR" envDefault:"./data"`

	// TokenSecret signs the identity tokens handed out at login.
	TokenSecret string `env:"TOKEN_SECRET,required"`

	// Bibliographic provider (Open Library)
	OpenLibraryBaseURL string        `env:"OPENLIBRARY_BASE_URL" envDefault:"https://openlibrary.org"`
	OpenLibraryTimeout time.Duration `env:"OPENLIBRARY_TIMEOUT"  envDefault:"10s"`

	// Key-Value Cache (Redis) for metadata lookups. Optional: when unset,
	// the resolver runs uncached.
	RedisURL string `env:"REDIS_URL"`

	// ExtraOrigins lists additional origins allowed through CORS in
	// production, beyond the librarium.app domain.
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
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

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra origins permitted through CORS in
// production.
func (c *Config) AllowedOrigins() []string {
	return c.ExtraOrigins
}
