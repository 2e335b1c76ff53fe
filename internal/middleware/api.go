// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, rate limiting and request hardening.
package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"reunioncms/internal/util"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// APIError represents a JSON error response for the API.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message
	apiErr.Error.Details = details

	_ = json.NewEncoder(w).Encode(apiErr)
}

// limiterCache keeps one token bucket per key with periodic eviction of
// idle entries.
type limiterCache struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterCache(r float64, burst int) *limiterCache {
	c := &limiterCache{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(r),
		burst:    burst,
	}
	go c.evictLoop()
	return c
}

func (c *limiterCache) get(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(c.rate, c.burst)}
		c.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (c *limiterCache) evictLoop() {
	for range time.Tick(10 * time.Minute) {
		cutoff := time.Now().Add(-30 * time.Minute)
		c.mu.Lock()
		for key, entry := range c.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(c.limiters, key)
			}
		}
		c.mu.Unlock()
	}
}

// RateLimit limits requests per client IP.
func RateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	cache := newLimiterCache(perSecond, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cache.get(util.ClientIP(r)).Allow() {
				WriteAPIError(w, http.StatusTooManyRequests, "rate_limited",
					"Too many requests, slow down", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
