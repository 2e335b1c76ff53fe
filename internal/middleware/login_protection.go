// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"time"

	"reunioncms/internal/util"
)

// LoginProtectionConfig tunes the per-IP throttle on the login endpoint.
// Failed-attempt lockout per account is handled separately by the login
// handler against the login_attempts table.
type LoginProtectionConfig struct {
	// IPRateLimit is the sustained rate of login requests per second per IP.
	IPRateLimit float64

	// IPBurst is the burst allowance per IP.
	IPBurst int

	// MaxFailedAttempts locks an account after this many failures
	// inside AttemptWindow.
	MaxFailedAttempts int

	// AttemptWindow is the sliding window for counting failures.
	AttemptWindow time.Duration
}

// DefaultLoginProtectionConfig returns the production defaults.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5, // one request every 2 seconds sustained
		IPBurst:           5,
		MaxFailedAttempts: 5,
		AttemptWindow:     15 * time.Minute,
	}
}

// LoginProtection rate-limits login requests by client IP. It sits in
// front of the credential check so brute-force traffic is rejected
// before touching the database.
func LoginProtection(cfg LoginProtectionConfig) func(http.Handler) http.Handler {
	limiters := newLimiterCache(cfg.IPRateLimit, cfg.IPBurst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := util.ClientIP(r)
			if !limiters.get(ip).Allow() {
				w.Header().Set("Retry-After", "2")
				WriteAPIError(w, http.StatusTooManyRequests, "rate_limited",
					"too many login attempts, slow down", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
