// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer exports and imports site content as a single JSON
// backup document.
package transfer

import "time"

// Meta describes the backup document.
type Meta struct {
	App        string    `json:"app"`
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
}

// ExportPost is one post row in the backup.
type ExportPost struct {
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Body             string     `json:"body"`
	BodyFormat       string     `json:"body_format"`
	Excerpt          string     `json:"excerpt,omitempty"`
	FeaturedImage    string     `json:"featured_image,omitempty"`
	FeaturedImageAlt string     `json:"featured_image_alt,omitempty"`
	Category         string     `json:"category,omitempty"` // category slug
	Tags             []string   `json:"tags,omitempty"`
	Author           string     `json:"author,omitempty"`
	MetaTitle        string     `json:"meta_title,omitempty"`
	MetaDescription  string     `json:"meta_description,omitempty"`
	IsPublished      bool       `json:"is_published"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	ScheduledAt      *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ExportTaxonomy is a category or tag row in the backup.
type ExportTaxonomy struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// ExportScheduledContent is an editorial calendar row in the backup.
type ExportScheduledContent struct {
	Title         string    `json:"title"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Author        string    `json:"author,omitempty"`
	Category      string    `json:"category,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// ExportPageContent is a page content block in the backup.
type ExportPageContent struct {
	SectionID string `json:"section_id"`
	PagePath  string `json:"page_path"`
	Data      string `json:"data"`
}

// ExportSetting is a site setting row in the backup.
type ExportSetting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Backup is the complete backup document.
type Backup struct {
	Meta             Meta                     `json:"_meta"`
	Posts            []ExportPost             `json:"posts"`
	Categories       []ExportTaxonomy         `json:"categories"`
	Tags             []ExportTaxonomy         `json:"tags"`
	ScheduledContent []ExportScheduledContent `json:"scheduled_content"`
	PageContent      []ExportPageContent      `json:"page_content"`
	SiteSettings     []ExportSetting          `json:"site_settings"`
}

// ImportResult counts rows written per table.
type ImportResult struct {
	Posts            int `json:"posts"`
	Categories       int `json:"categories"`
	Tags             int `json:"tags"`
	ScheduledContent int `json:"scheduled_content"`
	PageContent      int `json:"page_content"`
	SiteSettings     int `json:"site_settings"`
}
