// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package config

import (
	"fmt"
	"net/url"
	"time"
)

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
	minFetchTimeout      = time.Second
	maxFetchTimeout      = 10 * time.Minute
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks the configuration for out-of-range or inconsistent values.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateData(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.SlowRequest < 0 {
		return fmt.Errorf("SLOW_REQUEST_THRESHOLD must not be negative")
	}
	return nil
}

func (c *Config) validateData() error {
	if c.Data.Path == "" {
		return fmt.Errorf("RIDERS_CSV_PATH is required")
	}
	if c.Data.SourceURL != "" {
		if err := validateSourceURL(c.Data.SourceURL, "RIDERS_SOURCE_URL"); err != nil {
			return fmt.Errorf("RIDERS_SOURCE_URL is invalid: %w", err)
		}
	}
	if c.Data.FetchTimeout < minFetchTimeout || c.Data.FetchTimeout > maxFetchTimeout {
		return fmt.Errorf("RIDERS_FETCH_TIMEOUT must be between %v and %v", minFetchTimeout, maxFetchTimeout)
	}
	if c.Data.ReloadInterval < 0 {
		return fmt.Errorf("RIDERS_RELOAD_INTERVAL must not be negative")
	}
	if c.Data.RefreshInterval < 0 {
		return fmt.Errorf("RIDERS_REFRESH_INTERVAL must not be negative")
	}
	if c.Data.BreakerFailures == 0 {
		return fmt.Errorf("RIDERS_BREAKER_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must be >= API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.SearchTTL <= 0 {
		return fmt.Errorf("CACHE_SEARCH_TTL must be positive when the cache is enabled")
	}
	if c.Cache.Enabled && c.Cache.MaxEntries < 1 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be at least 1 when the cache is enabled")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.IsProduction() && c.hasWildcardCORS() && c.Security.AdminToken == "" {
		return fmt.Errorf("CORS_ORIGINS=* requires ADMIN_TOKEN in production; " +
			"set specific origins or protect the reload endpoint")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateSourceURL checks scheme and host. Unlike service base URLs, a CSV
// export URL legitimately carries a path and query string.
func validateSourceURL(rawURL, fieldName string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	return nil
}
