// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"reunioncms/internal/model"
)

const categoryColumns = `id, tenant_id, name, slug, description, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateCategoryParams holds fields for CreateCategory.
type CreateCategoryParams struct {
	TenantID    sql.NullInt64
	Name        string
	Slug        string
	Description sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateCategory inserts a category and returns the stored row.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO categories (tenant_id, name, slug, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+categoryColumns,
		arg.TenantID, arg.Name, arg.Slug, arg.Description, arg.CreatedAt, arg.UpdatedAt)
	return scanCategory(row)
}

// GetCategoryByID returns a category by primary key.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	return scanCategory(row)
}

// GetCategoryBySlug returns a category by slug within a tenant filter.
func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string, tenantFilter sql.NullInt64) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE slug = ? AND (? IS NULL OR tenant_id = ?)
		LIMIT 1`,
		slug, tenantFilter, tenantFilter)
	return scanCategory(row)
}

// ListCategories returns categories by name, scoped by the tenant filter.
func (q *Queries) ListCategories(ctx context.Context, tenantFilter sql.NullInt64) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE (? IS NULL OR tenant_id = ?)
		ORDER BY name`,
		tenantFilter, tenantFilter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategoryParams holds fields for UpdateCategory.
type UpdateCategoryParams struct {
	ID          int64
	Name        string
	Slug        string
	Description sql.NullString
	UpdatedAt   time.Time
}

// UpdateCategory updates a category and returns the stored row.
func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE categories SET name = ?, slug = ?, description = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+categoryColumns,
		arg.Name, arg.Slug, arg.Description, arg.UpdatedAt, arg.ID)
	return scanCategory(row)
}

// DeleteCategory removes a category. Posts referencing it keep a dangling
// category_id which listings treat as uncategorized.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return err
}

const tagColumns = `id, tenant_id, name, slug, description, created_at, updated_at`

func scanTag(row interface{ Scan(...any) error }) (model.Tag, error) {
	var t model.Tag
	err := row.Scan(&t.ID, &t.TenantID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// CreateTagParams holds fields for CreateTag.
type CreateTagParams struct {
	TenantID    sql.NullInt64
	Name        string
	Slug        string
	Description sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateTag inserts a tag and returns the stored row.
func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (model.Tag, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO tags (tenant_id, name, slug, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+tagColumns,
		arg.TenantID, arg.Name, arg.Slug, arg.Description, arg.CreatedAt, arg.UpdatedAt)
	return scanTag(row)
}

// GetTagByID returns a tag by primary key.
func (q *Queries) GetTagByID(ctx context.Context, id int64) (model.Tag, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)
	return scanTag(row)
}

// ListTags returns tags by name, scoped by the tenant filter.
func (q *Queries) ListTags(ctx context.Context, tenantFilter sql.NullInt64) ([]model.Tag, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+tagColumns+` FROM tags
		WHERE (? IS NULL OR tenant_id = ?)
		ORDER BY name`,
		tenantFilter, tenantFilter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// UpdateTagParams holds fields for UpdateTag.
type UpdateTagParams struct {
	ID          int64
	Name        string
	Slug        string
	Description sql.NullString
	UpdatedAt   time.Time
}

// UpdateTag updates a tag and returns the stored row.
func (q *Queries) UpdateTag(ctx context.Context, arg UpdateTagParams) (model.Tag, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE tags SET name = ?, slug = ?, description = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+tagColumns,
		arg.Name, arg.Slug, arg.Description, arg.UpdatedAt, arg.ID)
	return scanTag(row)
}

// DeleteTag removes a tag.
func (q *Queries) DeleteTag(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	return err
}
