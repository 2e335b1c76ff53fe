// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"

	"filippo.io/csrf/gorilla"
)

// CSRFConfig holds configuration for the CSRF protection middleware.
// filippo.io/csrf/gorilla works off Fetch metadata headers, so there are
// no token cookies to configure.
type CSRFConfig struct {
	// AuthKey is the 32-byte key. Shared with the session secret.
	AuthKey []byte

	// IsDevelopment trusts localhost origins for local HTTP serving.
	IsDevelopment bool

	// TrustedOrigins lists host:port values allowed to make
	// cross-origin state-changing requests.
	TrustedOrigins []string
}

// CSRF returns cross-site request forgery protection for session routes.
// Non-browser clients without Fetch metadata headers pass through.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	opts := []csrf.Option{
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	}
	trusted := cfg.TrustedOrigins
	if cfg.IsDevelopment {
		trusted = append(trusted, "localhost:8080", "127.0.0.1:8080")
	}
	if len(trusted) > 0 {
		opts = append(opts, csrf.TrustedOrigins(trusted))
	}
	return csrf.Protect(cfg.AuthKey, opts...)
}

// csrfErrorHandler logs the rejection reason and returns the standard
// API error envelope instead of the library's plain-text body.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	slog.Warn("CSRF validation failed",
		"category", "security",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"))
	WriteAPIError(w, http.StatusForbidden, "csrf_failed",
		"cross-origin request rejected", nil)
}
