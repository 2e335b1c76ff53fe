// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret)
	now := time.Now()

	token, err := m.Issue(IssueParams{
		UserID:     42,
		Email:      "admin@example.com",
		Name:       "Admin",
		Role:       "admin",
		TenantID:   sql.NullInt64{Int64: 7, Valid: true},
		TenantName: "Reunion",
	}, now)
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, int64(7), *claims.TenantID)
	assert.Equal(t, "Reunion", claims.TenantName)
	assert.True(t, claims.TenantIDValue().Valid)
}

func TestTokenSuperAdminHasNoTenant(t *testing.T) {
	m := NewTokenManager(testSecret)

	token, err := m.Issue(IssueParams{
		UserID: 1, Email: "root@example.com", Name: "Root", Role: "super_admin",
	}, time.Now())
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Nil(t, claims.TenantID)
	assert.False(t, claims.TenantIDValue().Valid)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := NewTokenManager(testSecret)

	token, err := m.Issue(IssueParams{UserID: 42, Email: "a@b.c", Name: "A", Role: "editor"}, time.Now())
	require.NoError(t, err)

	_, err = m.Verify(token[:len(token)-4] + "AAAA")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager(testSecret).Issue(
		IssueParams{UserID: 42, Email: "a@b.c", Name: "A", Role: "editor"}, time.Now())
	require.NoError(t, err)

	_, err = NewTokenManager([]byte("another-secret-another-secret-32")).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager(testSecret)

	token, err := m.Issue(IssueParams{UserID: 42, Email: "a@b.c", Name: "A", Role: "editor"},
		time.Now().Add(-TokenTTL-time.Hour))
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnsignedClaims(t *testing.T) {
	m := NewTokenManager(testSecret)

	// A bare base64 JSON blob is not a signed token and must fail closed.
	blob, err := json.Marshal(map[string]any{"userId": 1, "role": "super_admin"})
	require.NoError(t, err)

	_, err = m.Verify(base64.StdEncoding.EncodeToString(blob))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCookieAttributes(t *testing.T) {
	c := NewCookie("tok", true)
	assert.Equal(t, CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, int(TokenTTL/time.Second), c.MaxAge)

	cleared := ClearCookie(false)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
}
