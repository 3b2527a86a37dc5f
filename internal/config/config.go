// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

// Package config loads and validates Casavia configuration.
//
// Configuration is layered with Koanf v2: built-in defaults, then an optional
// YAML config file, then environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Casavia server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Database DatabaseConfig `koanf:"database"`
	Media    MediaConfig    `koanf:"media"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// SecurityConfig holds authentication and rate-limit settings.
type SecurityConfig struct {
	// AdminAPIKey is the static service key accepted via the X-API-Key header.
	AdminAPIKey string `koanf:"admin_api_key"`

	// JWTSecret signs admin bearer tokens (HMAC-SHA256).
	// Minimum 32 characters in production.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the lifetime of issued bearer tokens.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// AdminUsername and AdminPasswordHash authenticate the login endpoint.
	// The hash is a bcrypt hash, never a plain password.
	AdminUsername     string `koanf:"admin_username"`
	AdminPasswordHash string `koanf:"admin_password_hash"`

	RateLimit RateLimitConfig `koanf:"rate_limit"`

	CORSOrigins    []string `koanf:"cors_origins"`
	TrustedProxies []string `koanf:"trusted_proxies"`
}

// RateLimitConfig holds the windowed rate limiter policy.
// Window length and block duration are policy, not mechanism; they are
// configurable here and fixed for the life of the process.
type RateLimitConfig struct {
	// PublicMax is the per-window request ceiling for public paths.
	PublicMax int `koanf:"public_max"`

	// AdminMax is the per-window ceiling for privileged paths. Must be
	// at least PublicMax so an admin is never throttled harder than the
	// public it serves.
	AdminMax int `koanf:"admin_max"`

	Window        time.Duration `koanf:"window"`
	BlockDuration time.Duration `koanf:"block_duration"`

	// CacheCapacity bounds the number of tracked clients.
	CacheCapacity int `koanf:"cache_capacity"`

	// Disabled turns rate limiting off (CI and local development only).
	Disabled bool `koanf:"disabled"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// MediaConfig holds external media CDN settings.
type MediaConfig struct {
	CloudName    string        `koanf:"cloud_name"`
	APIKey       string        `koanf:"api_key"`
	APISecret    string        `koanf:"api_secret"`
	UploadFolder string        `koanf:"upload_folder"`
	Timeout      time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// defaultConfig returns a Config with all default values applied.
// Defaults are layered first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			AdminAPIKey:       "",
			JWTSecret:         "",
			TokenTTL:          24 * time.Hour,
			AdminUsername:     "",
			AdminPasswordHash: "",
			RateLimit: RateLimitConfig{
				PublicMax:     100,
				AdminMax:      300,
				Window:        15 * time.Minute,
				BlockDuration: time.Hour,
				CacheCapacity: 1000,
				Disabled:      false,
			},
			CORSOrigins:    []string{"*"},
			TrustedProxies: []string{},
		},
		Database: DatabaseConfig{
			Path: "/data/casavia.db",
		},
		Media: MediaConfig{
			CloudName:    "",
			APIKey:       "",
			APISecret:    "",
			UploadFolder: "casavia",
			Timeout:      30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// IsProduction reports whether the server runs with production checks.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Validate checks the loaded configuration for internal consistency.
// Missing credentials are a ConfigurationError surfaced at startup, not a
// silent 401 at request time.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	rl := c.Security.RateLimit
	if !rl.Disabled {
		if rl.PublicMax <= 0 {
			return fmt.Errorf("security.rate_limit.public_max must be positive, got %d", rl.PublicMax)
		}
		if rl.AdminMax < rl.PublicMax {
			return fmt.Errorf("security.rate_limit.admin_max %d below public_max %d", rl.AdminMax, rl.PublicMax)
		}
		if rl.Window <= 0 || rl.BlockDuration <= 0 {
			return fmt.Errorf("security.rate_limit window and block_duration must be positive")
		}
	}

	if c.IsProduction() {
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("security.jwt_secret must be at least 32 characters in production")
		}
		if c.Security.AdminAPIKey == "" {
			return fmt.Errorf("security.admin_api_key is required in production")
		}
	}

	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("security.token_ttl must be positive")
	}

	return nil
}
