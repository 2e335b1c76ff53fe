// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Scheduled content (editorial calendar) types.
const (
	ScheduledTypeArticle   = "article"
	ScheduledTypeUpdate    = "update"
	ScheduledTypePromotion = "promotion"
	ScheduledTypeReview    = "review"
)

// Scheduled content statuses.
const (
	ScheduledStatusDraft     = "draft"
	ScheduledStatusScheduled = "scheduled"
	ScheduledStatusPublished = "published"
	ScheduledStatusOverdue   = "overdue"
)

// ScheduledContent is an editorial calendar entry. It plans work for a
// future post; it is not the post itself and is never auto-published.
type ScheduledContent struct {
	ID            int64          `json:"id"`
	TenantID      sql.NullInt64  `json:"tenant_id,omitempty"`
	Title         string         `json:"title"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	ScheduledDate time.Time      `json:"scheduled_date"`
	Author        string         `json:"author"`
	Category      string         `json:"category"`
	Notes         sql.NullString `json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// PageContent is an editable section of a static page, keyed by section_id.
// Data holds a flat JSON object of field name to text value.
type PageContent struct {
	ID        int64     `json:"id"`
	SectionID string    `json:"section_id"`
	PagePath  string    `json:"page_path"`
	Data      string    `json:"data"` // JSON object string
	UpdatedAt time.Time `json:"updated_at"`
}

// SiteSetting is a key/value row with a JSON value, optionally scoped to a
// tenant. NULL tenant means platform-wide.
type SiteSetting struct {
	ID       int64         `json:"id"`
	TenantID sql.NullInt64 `json:"tenant_id,omitempty"`
	Key      string        `json:"key"`
	Value    string        `json:"value"` // JSON string
}
