// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"reunioncms/internal/model"
)

// GetPageContent returns the content block for a section.
func (q *Queries) GetPageContent(ctx context.Context, sectionID string) (model.PageContent, error) {
	var pc model.PageContent
	err := q.db.QueryRowContext(ctx,
		`SELECT id, section_id, page_path, data, updated_at FROM page_content WHERE section_id = ?`,
		sectionID).Scan(&pc.ID, &pc.SectionID, &pc.PagePath, &pc.Data, &pc.UpdatedAt)
	return pc, err
}

// ListPageContentByPath returns all content blocks for a page path.
func (q *Queries) ListPageContentByPath(ctx context.Context, pagePath string) ([]model.PageContent, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, section_id, page_path, data, updated_at FROM page_content WHERE page_path = ? ORDER BY section_id`,
		pagePath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []model.PageContent
	for rows.Next() {
		var pc model.PageContent
		if err := rows.Scan(&pc.ID, &pc.SectionID, &pc.PagePath, &pc.Data, &pc.UpdatedAt); err != nil {
			return nil, err
		}
		blocks = append(blocks, pc)
	}
	return blocks, rows.Err()
}

// UpsertPageContent writes a section's data blob, creating the row on first
// write.
func (q *Queries) UpsertPageContent(ctx context.Context, sectionID, pagePath, data string, now time.Time) (model.PageContent, error) {
	var pc model.PageContent
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO page_content (section_id, page_path, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (section_id) DO UPDATE SET
			page_path = excluded.page_path,
			data = excluded.data,
			updated_at = excluded.updated_at
		RETURNING id, section_id, page_path, data, updated_at`,
		sectionID, pagePath, data, now).
		Scan(&pc.ID, &pc.SectionID, &pc.PagePath, &pc.Data, &pc.UpdatedAt)
	return pc, err
}

const scheduledContentColumns = `id, tenant_id, title, type, status, scheduled_date,
	author, category, notes, created_at, updated_at`

func scanScheduledContent(row interface{ Scan(...any) error }) (model.ScheduledContent, error) {
	var sc model.ScheduledContent
	err := row.Scan(&sc.ID, &sc.TenantID, &sc.Title, &sc.Type, &sc.Status, &sc.ScheduledDate,
		&sc.Author, &sc.Category, &sc.Notes, &sc.CreatedAt, &sc.UpdatedAt)
	return sc, err
}

// CreateScheduledContentParams holds fields for CreateScheduledContent.
type CreateScheduledContentParams struct {
	TenantID      sql.NullInt64
	Title         string
	Type          string
	Status        string
	ScheduledDate time.Time
	Author        string
	Category      string
	Notes         sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateScheduledContent inserts an editorial calendar entry.
func (q *Queries) CreateScheduledContent(ctx context.Context, arg CreateScheduledContentParams) (model.ScheduledContent, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO scheduled_content (tenant_id, title, type, status, scheduled_date,
			author, category, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+scheduledContentColumns,
		arg.TenantID, arg.Title, arg.Type, arg.Status, arg.ScheduledDate,
		arg.Author, arg.Category, arg.Notes, arg.CreatedAt, arg.UpdatedAt)
	return scanScheduledContent(row)
}

// GetScheduledContentByID returns a calendar entry by primary key.
func (q *Queries) GetScheduledContentByID(ctx context.Context, id int64) (model.ScheduledContent, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+scheduledContentColumns+` FROM scheduled_content WHERE id = ?`, id)
	return scanScheduledContent(row)
}

// ListScheduledContent returns calendar entries by schedule date, scoped by
// the tenant filter.
func (q *Queries) ListScheduledContent(ctx context.Context, tenantFilter sql.NullInt64) ([]model.ScheduledContent, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+scheduledContentColumns+` FROM scheduled_content
		WHERE (? IS NULL OR tenant_id = ?)
		ORDER BY scheduled_date`,
		tenantFilter, tenantFilter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.ScheduledContent
	for rows.Next() {
		sc, err := scanScheduledContent(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, sc)
	}
	return entries, rows.Err()
}

// UpdateScheduledContentParams holds fields for UpdateScheduledContent.
type UpdateScheduledContentParams struct {
	ID            int64
	Title         string
	Type          string
	Status        string
	ScheduledDate time.Time
	Author        string
	Category      string
	Notes         sql.NullString
	UpdatedAt     time.Time
}

// UpdateScheduledContent updates a calendar entry and returns the stored row.
func (q *Queries) UpdateScheduledContent(ctx context.Context, arg UpdateScheduledContentParams) (model.ScheduledContent, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE scheduled_content SET title = ?, type = ?, status = ?, scheduled_date = ?,
			author = ?, category = ?, notes = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+scheduledContentColumns,
		arg.Title, arg.Type, arg.Status, arg.ScheduledDate,
		arg.Author, arg.Category, arg.Notes, arg.UpdatedAt, arg.ID)
	return scanScheduledContent(row)
}

// DeleteScheduledContent removes a calendar entry.
func (q *Queries) DeleteScheduledContent(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM scheduled_content WHERE id = ?`, id)
	return err
}
