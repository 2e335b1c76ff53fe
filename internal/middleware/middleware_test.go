// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reunioncms/internal/auth"
	"reunioncms/internal/model"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func issueTestCookie(t *testing.T, role string, tenantID sql.NullInt64) *http.Cookie {
	t.Helper()
	tokens := auth.NewTokenManager(testSecret)
	token, err := tokens.Issue(auth.IssueParams{
		UserID:   1,
		Email:    "admin@example.com",
		Name:     "Admin",
		Role:     role,
		TenantID: tenantID,
	}, time.Now())
	require.NoError(t, err)
	return auth.NewCookie(token, false)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateMissingCookie(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret)
	h := Authenticate(tokens)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestAuthenticateInvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret)
	h := Authenticate(tokens)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "not-a-token"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateStoresAccess(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret)
	tenant := sql.NullInt64{Int64: 3, Valid: true}

	var gotOK bool
	h := Authenticate(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access, ok := GetAccess(r)
		require.True(t, ok)
		assert.Equal(t, int64(1), access.UserID)
		assert.Equal(t, model.RoleAdmin, access.Role)
		assert.Equal(t, tenant, access.TenantID)

		claims := GetClaims(r)
		require.NotNil(t, claims)
		assert.Equal(t, "admin@example.com", claims.Email)
		gotOK = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(issueTestCookie(t, model.RoleAdmin, tenant))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotOK)
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret)

	cases := []struct {
		name string
		role string
		min  string
		want int
	}{
		{"editor denied admin", model.RoleEditor, model.RoleAdmin, http.StatusForbidden},
		{"admin allowed admin", model.RoleAdmin, model.RoleAdmin, http.StatusOK},
		{"super admin allowed admin", model.RoleSuperAdmin, model.RoleAdmin, http.StatusOK},
		{"admin denied super admin", model.RoleAdmin, model.RoleSuperAdmin, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := Authenticate(tokens)(RequireRole(tc.min)(okHandler()))
			req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
			req.AddCookie(issueTestCookie(t, tc.role, sql.NullInt64{}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	h := RequireRole(model.RoleEditor)(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(1, 2)(okHandler())

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	// Burst of 2 passes, the rest of the tight loop is throttled.
	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusOK, statuses[1])
	assert.Equal(t, http.StatusTooManyRequests, statuses[3])
}

func TestRateLimitSeparateIPs(t *testing.T) {
	h := RateLimit(1, 1)(okHandler())

	for i, addr := range []string{"10.0.0.1:1", "10.0.0.2:1", "10.0.0.3:1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestLoginProtectionThrottles(t *testing.T) {
	h := LoginProtection(LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           2,
		MaxFailedAttempts: 5,
		AttemptWindow:     15 * time.Minute,
	})(okHandler())

	var last int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.168.1.50:9999"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(DefaultSecurityHeadersConfig(false))(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=31536000")
}

func TestSecurityHeadersDevSkipsHSTS(t *testing.T) {
	h := SecurityHeaders(DefaultSecurityHeadersConfig(true))(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	h := Timeout(50 * time.Millisecond)(slow)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTimeoutFastHandlerUnaffected(t *testing.T) {
	h := Timeout(time.Second)(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
