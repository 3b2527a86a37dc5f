// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/casavia/config.yaml",
	"/etc/casavia/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration using Koanf v2 with layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Environment variable names map to koanf paths through an explicit
	// table; underscores inside field names make a generic transform
	// ambiguous (ADMIN_API_KEY is one key, not three path segments).
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	processSliceFields(k)

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps flat environment variable names (lower-cased) to koanf
// config paths. Variables not in this table are ignored, which keeps
// unrelated host environment out of the config tree.
var envMappings = map[string]string{
	"host":        "server.host",
	"port":        "server.port",
	"environment": "server.environment",

	"admin_api_key":       "security.admin_api_key",
	"jwt_secret":          "security.jwt_secret",
	"token_ttl":           "security.token_ttl",
	"admin_username":      "security.admin_username",
	"admin_password_hash": "security.admin_password_hash",
	"cors_origins":        "security.cors_origins",
	"trusted_proxies":     "security.trusted_proxies",

	"rate_limit_public_max":     "security.rate_limit.public_max",
	"rate_limit_admin_max":      "security.rate_limit.admin_max",
	"rate_limit_window":         "security.rate_limit.window",
	"rate_limit_block_duration": "security.rate_limit.block_duration",
	"rate_limit_cache_capacity": "security.rate_limit.cache_capacity",
	"rate_limit_disabled":       "security.rate_limit.disabled",

	"database_path": "database.path",

	"media_cloud_name":    "media.cloud_name",
	"media_api_key":       "media.api_key",
	"media_api_secret":    "media.api_secret",
	"media_upload_folder": "media.upload_folder",
	"media_timeout":       "media.timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
}

// envTransformFunc maps environment variable names to koanf paths.
// Returning "" skips the variable.
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// supplied as plain strings (env vars cannot carry YAML lists).
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values into slices.
func processSliceFields(k *koanf.Koanf) {
	for _, path := range sliceConfigPaths {
		raw := k.Get(path)
		s, ok := raw.(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				values = append(values, trimmed)
			}
		}
		_ = k.Set(path, values)
	}
}
