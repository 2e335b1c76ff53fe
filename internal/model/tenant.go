// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Tenant plan tiers.
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Tenant is an isolated customer/organization scope. Content rows carry a
// tenant identifier so one deployment can serve several customer datasets.
// A NULL tenant reference on content means platform-wide, owned by a
// super admin.
type Tenant struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Slug      string         `json:"slug"`
	Domain    sql.NullString `json:"domain,omitempty"`
	Plan      string         `json:"plan"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// IsValidPlan reports whether plan is one of the known tenant plans.
func IsValidPlan(plan string) bool {
	switch plan {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}
