// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// New selects the cache backend: Redis when a URL is configured and
// reachable, memory otherwise. A Redis connection failure falls back to
// memory so the app still starts.
func New(redisURL string, defaultTTL time.Duration, logger *slog.Logger) Cache {
	if redisURL != "" {
		redisCache, err := NewRedisCache(redisURL, defaultTTL)
		if err == nil {
			logger.Info("cache backend: redis")
			return redisCache
		}
		logger.Warn("redis cache unavailable, using memory cache", "error", err)
	}
	logger.Info("cache backend: memory")
	return NewMemoryCache(defaultTTL)
}
