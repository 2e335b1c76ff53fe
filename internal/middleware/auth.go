// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"

	"reunioncms/internal/auth"
	"reunioncms/internal/scope"
)

// ContextKeyAccess is the context key for the request's authorization scope.
const ContextKeyAccess ContextKey = "access"

// ContextKeyClaims is the context key for the full session claims.
const ContextKeyClaims ContextKey = "claims"

// Authenticate verifies the session cookie and stores the claims and the
// derived scope in the request context. Requests without a valid cookie
// get 401; invalid tokens never fall through as anonymous.
func Authenticate(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
				return
			}

			claims, err := tokens.Verify(cookie.Value)
			if err != nil {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired session", nil)
				return
			}

			access := scope.Access{
				UserID:   claims.UserID,
				Role:     claims.Role,
				TenantID: claims.TenantIDValue(),
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			ctx = context.WithValue(ctx, ContextKeyAccess, access)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose session role ranks below the minimum.
func RequireRole(minRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access, ok := GetAccess(r)
			if !ok || !access.AtLeast(minRole) {
				WriteAPIError(w, http.StatusForbidden, "forbidden", "Insufficient permissions", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetAccess retrieves the authorization scope from the request context.
func GetAccess(r *http.Request) (scope.Access, bool) {
	access, ok := r.Context().Value(ContextKeyAccess).(scope.Access)
	return access, ok
}

// GetClaims retrieves the session claims from the request context.
func GetClaims(r *http.Request) *auth.Claims {
	claims, ok := r.Context().Value(ContextKeyClaims).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
