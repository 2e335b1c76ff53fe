// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including User, Tenant, Post, and reunion content structures.
package model

import (
	"database/sql"
	"time"
)

// User roles.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
)

// User represents a CMS user.
type User struct {
	ID           int64         `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	PasswordHash string        `json:"-"` // Never expose in JSON
	Role         string        `json:"role"`
	TenantID     sql.NullInt64 `json:"tenant_id,omitempty"`
	IsActive     bool          `json:"is_active"`
	LastLoginAt  sql.NullTime  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// IsSuperAdmin returns true if the user has the super_admin role.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// IsAdmin returns true if the user has at least admin privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleEditor:
		return true
	}
	return false
}

// LoginAttempt is an append-only record of a login attempt, used for the
// rate-limit window query (5 failures per email in 15 minutes).
type LoginAttempt struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	IPAddress string    `json:"ip_address"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}
