// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scope carries the authorization context derived from a verified
// session. Every store access on behalf of a user goes through an Access
// value, so tenant isolation is decided in one place instead of per
// handler.
package scope

import (
	"database/sql"

	"reunioncms/internal/model"
)

// Access is the authorization context for one request.
type Access struct {
	UserID   int64
	Role     string
	TenantID sql.NullInt64
}

// System returns the access used by background jobs. It sees all tenants.
func System() Access {
	return Access{Role: model.RoleSuperAdmin}
}

// IsSuperAdmin reports whether the access is platform-wide.
func (a Access) IsSuperAdmin() bool {
	return a.Role == model.RoleSuperAdmin
}

// TenantFilter returns the tenant restriction for read queries: invalid
// (match everything) for super admins, the caller's own tenant otherwise.
func (a Access) TenantFilter() sql.NullInt64 {
	if a.IsSuperAdmin() {
		return sql.NullInt64{}
	}
	return a.TenantID
}

// StampTenant returns the tenant to write on a new row. Super admins may
// target any tenant; everyone else writes into their own regardless of
// what the request claimed.
func (a Access) StampTenant(requested sql.NullInt64) sql.NullInt64 {
	if a.IsSuperAdmin() {
		return requested
	}
	return a.TenantID
}

// CanAccess reports whether a row owned by rowTenant is visible to this
// access. It applies the same predicate as TenantFilter, so a by-ID read
// never reaches a row the list queries would hide: tenant-bound callers
// see only their own tenant's rows, platform-wide (NULL tenant) rows
// included among them only for callers without a tenant binding.
func (a Access) CanAccess(rowTenant sql.NullInt64) bool {
	filter := a.TenantFilter()
	if !filter.Valid {
		return true
	}
	return rowTenant.Valid && rowTenant.Int64 == filter.Int64
}

// roleRank orders roles for AtLeast. Unknown roles rank below everything.
func roleRank(role string) int {
	switch role {
	case model.RoleSuperAdmin:
		return 3
	case model.RoleAdmin:
		return 2
	case model.RoleEditor:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether the access role meets a minimum role.
func (a Access) AtLeast(role string) bool {
	return roleRank(a.Role) >= roleRank(role) && roleRank(a.Role) > 0
}
