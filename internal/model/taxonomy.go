// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Category groups posts. Deleting a category does not cascade to posts;
// a post keeps a dangling category_id until edited.
type Category struct {
	ID          int64          `json:"id"`
	TenantID    sql.NullInt64  `json:"tenant_id,omitempty"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description sql.NullString `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Tag labels posts. Post rows reference tags by name in their tags column,
// so deleting a tag never touches post rows.
type Tag struct {
	ID          int64          `json:"id"`
	TenantID    sql.NullInt64  `json:"tenant_id,omitempty"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description sql.NullString `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
