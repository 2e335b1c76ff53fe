// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Activity log levels.
const (
	ActivityLevelInfo    = "info"
	ActivityLevelWarning = "warning"
	ActivityLevelError   = "error"
)

// Activity categories.
const (
	ActivityCategoryAuth    = "auth"
	ActivityCategoryPost    = "post"
	ActivityCategoryUser    = "user"
	ActivityCategoryTenant  = "tenant"
	ActivityCategoryConfig  = "config"
	ActivityCategorySystem  = "system"
	ActivityCategoryReunion = "reunion"
)

// Activity is an append-only audit trail entry. Details holds a free-form
// JSON object (parsed user agent, changed fields, sweep metadata).
type Activity struct {
	ID         int64          `json:"id"`
	UserID     sql.NullInt64  `json:"user_id,omitempty"`
	TenantID   sql.NullInt64  `json:"tenant_id,omitempty"`
	Level      string         `json:"level"`
	Category   string         `json:"category"`
	Action     string         `json:"action"`
	EntityType sql.NullString `json:"entity_type,omitempty"`
	EntityID   sql.NullInt64  `json:"entity_id,omitempty"`
	Details    string         `json:"details"` // JSON string
	IPAddress  string         `json:"ip_address"`
	CreatedAt  time.Time      `json:"created_at"`
}
