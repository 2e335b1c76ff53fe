// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Class is a graduating class shown on the reunion microsite roster pages.
type Class struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description sql.NullString `json:"description,omitempty"`
	TeacherName sql.NullString `json:"teacher_name,omitempty"`
	SortOrder   int64          `json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Alumnus is a single roster entry belonging to a class.
type Alumnus struct {
	ID         int64          `json:"id"`
	ClassID    int64          `json:"class_id"`
	FullName   string         `json:"full_name"`
	Nickname   sql.NullString `json:"nickname,omitempty"`
	Occupation sql.NullString `json:"occupation,omitempty"`
	City       sql.NullString `json:"city,omitempty"`
	AvatarURL  sql.NullString `json:"avatar_url,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// GalleryImage is a photo gallery entry, optionally tied to a class.
type GalleryImage struct {
	ID        int64          `json:"id"`
	ClassID   sql.NullInt64  `json:"class_id,omitempty"`
	URL       string         `json:"url"`
	Caption   sql.NullString `json:"caption,omitempty"`
	SortOrder int64          `json:"sort_order"`
	CreatedAt time.Time      `json:"created_at"`
}

// GuestbookEntry is a visitor message. Entries are hidden from the public
// site until an editor approves them.
type GuestbookEntry struct {
	ID         int64          `json:"id"`
	AuthorName string         `json:"author_name"`
	ClassName  sql.NullString `json:"class_name,omitempty"`
	Message    string         `json:"message"`
	IsApproved bool           `json:"is_approved"`
	CreatedAt  time.Time      `json:"created_at"`
}

// EventScheduleItem is one row of the reunion day programme.
type EventScheduleItem struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description sql.NullString `json:"description,omitempty"`
	StartsAt    sql.NullTime   `json:"starts_at,omitempty"`
	Location    sql.NullString `json:"location,omitempty"`
	SortOrder   int64          `json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
}
