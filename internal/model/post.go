// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Post body formats.
const (
	BodyFormatHTML     = "html"
	BodyFormatMarkdown = "markdown"
)

// Post logical states. A post is always in exactly one of these.
const (
	PostStateDraft     = "draft"
	PostStateScheduled = "scheduled"
	PostStatePublished = "published"
)

// Post represents a blog post with SEO metadata.
type Post struct {
	ID               int64          `json:"id"`
	TenantID         sql.NullInt64  `json:"tenant_id,omitempty"`
	Title            string         `json:"title"`
	Slug             string         `json:"slug"`
	Body             string         `json:"body"`
	BodyFormat       string         `json:"body_format"`
	Excerpt          string         `json:"excerpt"`
	FeaturedImage    sql.NullString `json:"featured_image,omitempty"`
	FeaturedImageAlt sql.NullString `json:"featured_image_alt,omitempty"`
	CategoryID       sql.NullInt64  `json:"category_id,omitempty"`
	Tags             string         `json:"-"` // JSON array string, see TagList
	Author           sql.NullString `json:"author,omitempty"`
	MetaTitle        sql.NullString `json:"meta_title,omitempty"`
	MetaDescription  sql.NullString `json:"meta_description,omitempty"`
	IsPublished      bool           `json:"is_published"`
	PublishedAt      sql.NullTime   `json:"published_at,omitempty"`
	ScheduledAt      sql.NullTime   `json:"scheduled_at,omitempty"`
	DeletedAt        sql.NullTime   `json:"deleted_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// State returns the logical publication state of the post at the given time.
func (p *Post) State(now time.Time) string {
	if p.IsPublished {
		return PostStatePublished
	}
	if p.ScheduledAt.Valid && p.ScheduledAt.Time.After(now) {
		return PostStateScheduled
	}
	return PostStateDraft
}

// TagList decodes the tags JSON column into a string slice.
// Returns an empty slice for an empty or malformed column.
func (p *Post) TagList() []string {
	if p.Tags == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(p.Tags), &tags); err != nil {
		return []string{}
	}
	return tags
}

// EncodeTags encodes a tag slice into the JSON column representation.
func EncodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// EffectiveMetaTitle returns the meta title, falling back to the post title.
func (p *Post) EffectiveMetaTitle() string {
	if p.MetaTitle.Valid && p.MetaTitle.String != "" {
		return p.MetaTitle.String
	}
	return p.Title
}
