// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the admin session cookie.
const CookieName = "cms_auth"

// TokenTTL is how long a session token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, wrong algorithm, expired, or malformed. Callers treat
// all of these as "not logged in".
var ErrInvalidToken = errors.New("invalid session token")

// Claims is the payload of the session cookie. TenantID is nil for
// super admins, who operate platform-wide.
type Claims struct {
	UserID     int64  `json:"userId"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	TenantID   *int64 `json:"tenantId,omitempty"`
	TenantName string `json:"tenantName,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens with an HMAC secret.
type TokenManager struct {
	secret []byte
}

// NewTokenManager creates a TokenManager with the given signing secret.
func NewTokenManager(secret []byte) *TokenManager {
	return &TokenManager{secret: secret}
}

// IssueParams describes the session to encode.
type IssueParams struct {
	UserID     int64
	Email      string
	Name       string
	Role       string
	TenantID   sql.NullInt64
	TenantName string
}

// Issue signs a session token for the given user, valid for TokenTTL.
func (m *TokenManager) Issue(arg IssueParams, now time.Time) (string, error) {
	claims := Claims{
		UserID:     arg.UserID,
		Email:      arg.Email,
		Name:       arg.Name,
		Role:       arg.Role,
		TenantName: arg.TenantName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	if arg.TenantID.Valid {
		claims.TenantID = &arg.TenantID.Int64
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token. Any failure, including an
// unexpected signing algorithm, returns ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 || claims.Role == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NewCookie builds the session cookie for a signed token.
func NewCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds an expired session cookie for logout.
func ClearCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// TenantIDValue converts the claims tenant pointer into a sql.NullInt64.
func (c *Claims) TenantIDValue() sql.NullInt64 {
	if c.TenantID == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *c.TenantID, Valid: true}
}
