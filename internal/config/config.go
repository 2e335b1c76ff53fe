// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"CMS_DB_PATH" envDefault:"./data/reunioncms.db"`
	SessionSecret string `env:"CMS_SESSION_SECRET,required"`
	ServerHost    string `env:"CMS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"CMS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"CMS_ENV" envDefault:"development"`
	LogLevel      string `env:"CMS_LOG_LEVEL" envDefault:"info"`
	SiteURL       string `env:"CMS_SITE_URL" envDefault:"http://localhost:8080"`
	UploadsDir    string `env:"CMS_UPLOADS_DIR" envDefault:"./uploads"`

	// CronSecret authorizes the external /api/cron/publish caller.
	CronSecret string `env:"CMS_CRON_SECRET,required"`

	// Legacy bootstrap admin credentials. Accepted on login only when no
	// database user matches the email, for backward compatibility with
	// deployments that predate the users table.
	AdminEmail    string `env:"CMS_ADMIN_EMAIL"`
	AdminPassword string `env:"CMS_ADMIN_PASSWORD"`

	// Cache configuration
	RedisURL     string `env:"CMS_REDIS_URL"`                        // Optional Redis URL for distributed caching
	CachePrefix  string `env:"CMS_CACHE_PREFIX" envDefault:"rcms:"`  // Redis key prefix
	CacheTTL     int    `env:"CMS_CACHE_TTL" envDefault:"300"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"CMS_CACHE_MAX_SIZE" envDefault:"5000"` // Max memory cache entries

	// GeoIP configuration
	GeoIPDBPath string `env:"CMS_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Seeding configuration
	DoSeed bool `env:"CMS_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// LegacyAdminEnabled returns true if the legacy env-based admin fallback is configured.
func (c Config) LegacyAdminEnabled() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// The HMAC token signer needs 32 bytes minimum for a secure key.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("CMS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("CMS_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CMS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
