// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

// Package config loads CyclingDB configuration.
//
// Values are layered with koanf: struct defaults, then an optional YAML file
// (CONFIG_PATH, ./config.yaml or /etc/cyclingdb/config.yaml), then a fixed set
// of environment variables. The result is validated before it is returned.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Invalid configuration")
//	}
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Data     DataConfig     `koanf:"data"`
	API      APIConfig      `koanf:"api"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`

	// SlowRequest is the latency above which a request is logged and kept in
	// the performance report.
	SlowRequest time.Duration `koanf:"slow_request"`
}

// DataConfig describes where the rider CSV comes from.
type DataConfig struct {
	// Path is the local copy. When it exists the remote source is never contacted.
	Path string `koanf:"path"`

	// SourceURL is the remote CSV export downloaded when Path is missing.
	SourceURL string `koanf:"source_url"`

	// FetchTimeout bounds the remote download.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// ReloadInterval is the minimum time between manual reloads.
	ReloadInterval time.Duration `koanf:"reload_interval"`

	// RefreshInterval reloads the dataset in the background. Zero disables it.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// BreakerFailures consecutive download failures open the circuit breaker.
	BreakerFailures uint32 `koanf:"breaker_failures"`

	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// APIConfig holds pagination settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// CacheConfig holds search result cache settings.
type CacheConfig struct {
	Enabled   bool          `koanf:"enabled"`
	SearchTTL time.Duration `koanf:"search_ttl"`

	// MaxEntries bounds the number of cached searches. The least recently
	// used one is dropped first.
	MaxEntries int `koanf:"max_entries"`
}

// SecurityConfig holds CORS, rate limiting and the admin token.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// AdminToken guards POST /api/v1/admin/reload. Empty disables the check.
	AdminToken string `koanf:"admin_token"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
