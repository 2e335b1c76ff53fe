// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"reunioncms/internal/model"
)

const postColumns = `id, tenant_id, title, slug, body, body_format, excerpt,
	featured_image, featured_image_alt, category_id, tags, author,
	meta_title, meta_description, is_published, published_at, scheduled_at,
	deleted_at, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (model.Post, error) {
	var p model.Post
	err := row.Scan(&p.ID, &p.TenantID, &p.Title, &p.Slug, &p.Body, &p.BodyFormat,
		&p.Excerpt, &p.FeaturedImage, &p.FeaturedImageAlt, &p.CategoryID, &p.Tags,
		&p.Author, &p.MetaTitle, &p.MetaDescription, &p.IsPublished, &p.PublishedAt,
		&p.ScheduledAt, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectPosts(rows *sql.Rows) ([]model.Post, error) {
	defer rows.Close()
	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpsertPostParams holds fields for UpsertPost.
type UpsertPostParams struct {
	TenantID         sql.NullInt64
	Title            string
	Slug             string
	Body             string
	BodyFormat       string
	Excerpt          string
	FeaturedImage    sql.NullString
	FeaturedImageAlt sql.NullString
	CategoryID       sql.NullInt64
	Tags             string
	Author           sql.NullString
	MetaTitle        sql.NullString
	MetaDescription  sql.NullString
	IsPublished      bool
	PublishedAt      sql.NullTime
	ScheduledAt      sql.NullTime
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// UpsertPost inserts a post, replacing any existing post with the same
// (tenant, slug) pair. The replace keeps the original id and created_at and
// clears any soft-delete marker.
func (q *Queries) UpsertPost(ctx context.Context, arg UpsertPostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO posts (tenant_id, title, slug, body, body_format, excerpt,
			featured_image, featured_image_alt, category_id, tags, author,
			meta_title, meta_description, is_published, published_at, scheduled_at,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (COALESCE(tenant_id, 0), slug) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			body_format = excluded.body_format,
			excerpt = excluded.excerpt,
			featured_image = excluded.featured_image,
			featured_image_alt = excluded.featured_image_alt,
			category_id = excluded.category_id,
			tags = excluded.tags,
			author = excluded.author,
			meta_title = excluded.meta_title,
			meta_description = excluded.meta_description,
			is_published = excluded.is_published,
			published_at = excluded.published_at,
			scheduled_at = excluded.scheduled_at,
			deleted_at = NULL,
			updated_at = excluded.updated_at
		RETURNING `+postColumns,
		arg.TenantID, arg.Title, arg.Slug, arg.Body, arg.BodyFormat, arg.Excerpt,
		arg.FeaturedImage, arg.FeaturedImageAlt, arg.CategoryID, arg.Tags, arg.Author,
		arg.MetaTitle, arg.MetaDescription, arg.IsPublished, arg.PublishedAt, arg.ScheduledAt,
		arg.CreatedAt, arg.UpdatedAt)
	return scanPost(row)
}

// GetPostByID returns a post by primary key, excluding soft-deleted rows.
func (q *Queries) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ? AND deleted_at IS NULL`, id)
	return scanPost(row)
}

// GetPublishedPostBySlug returns a published post by slug within a tenant
// filter. An invalid filter searches across all tenants.
func (q *Queries) GetPublishedPostBySlug(ctx context.Context, slug string, tenantFilter sql.NullInt64) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE slug = ? AND is_published = 1 AND deleted_at IS NULL
		  AND (? IS NULL OR tenant_id = ?)
		LIMIT 1`,
		slug, tenantFilter, tenantFilter)
	return scanPost(row)
}

// ListPublishedPostsParams holds filters for ListPublishedPosts.
type ListPublishedPostsParams struct {
	TenantID sql.NullInt64
	Category sql.NullString // category slug
	Tag      sql.NullString
	Limit    int64
	Offset   int64
}

// ListPublishedPosts returns published, non-deleted posts newest first.
// Category filters by category slug, Tag by membership in the tags array.
func (q *Queries) ListPublishedPosts(ctx context.Context, arg ListPublishedPostsParams) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts p
		WHERE p.is_published = 1 AND p.deleted_at IS NULL
		  AND (? IS NULL OR p.tenant_id = ?)
		  AND (? IS NULL OR p.category_id IN (SELECT id FROM categories WHERE slug = ?))
		  AND (? IS NULL OR EXISTS (SELECT 1 FROM json_each(p.tags) WHERE json_each.value = ?))
		ORDER BY p.published_at DESC, p.id DESC
		LIMIT ? OFFSET ?`,
		arg.TenantID, arg.TenantID,
		arg.Category, arg.Category,
		arg.Tag, arg.Tag,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// CountPublishedPosts counts published, non-deleted posts matching the same
// filters as ListPublishedPosts.
func (q *Queries) CountPublishedPosts(ctx context.Context, arg ListPublishedPostsParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM posts p
		WHERE p.is_published = 1 AND p.deleted_at IS NULL
		  AND (? IS NULL OR p.tenant_id = ?)
		  AND (? IS NULL OR p.category_id IN (SELECT id FROM categories WHERE slug = ?))
		  AND (? IS NULL OR EXISTS (SELECT 1 FROM json_each(p.tags) WHERE json_each.value = ?))`,
		arg.TenantID, arg.TenantID,
		arg.Category, arg.Category,
		arg.Tag, arg.Tag).Scan(&count)
	return count, err
}

// ListAllPosts returns all non-deleted posts for the admin view, newest
// first, scoped by the tenant filter.
func (q *Queries) ListAllPosts(ctx context.Context, tenantFilter sql.NullInt64) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE deleted_at IS NULL AND (? IS NULL OR tenant_id = ?)
		ORDER BY created_at DESC`,
		tenantFilter, tenantFilter)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// ListScheduledPostsDue returns unpublished posts whose schedule time has
// arrived. Ordered by schedule time so the oldest backlog publishes first.
func (q *Queries) ListScheduledPostsDue(ctx context.Context, now time.Time) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE is_published = 0 AND deleted_at IS NULL
		  AND scheduled_at IS NOT NULL AND scheduled_at <= ?
		ORDER BY scheduled_at`,
		now)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// PublishScheduledPost flips a scheduled post to published, stamping
// published_at and clearing the schedule marker.
func (q *Queries) PublishScheduledPost(ctx context.Context, id int64, now time.Time) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE posts SET is_published = 1, published_at = ?, scheduled_at = NULL, updated_at = ?
		WHERE id = ? AND is_published = 0`,
		now, now, id)
	return err
}

// SoftDeletePost marks a post deleted. Reads filter on deleted_at, so the
// row disappears from every listing without losing the data.
func (q *Queries) SoftDeletePost(ctx context.Context, id int64, now time.Time) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE posts SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id)
	return err
}

// PostCounts aggregates posts by logical state for the stats endpoint.
type PostCounts struct {
	Total     int64
	Published int64
	Scheduled int64
	Draft     int64
}

// CountPostsByState returns post counts by state at the given time, scoped
// by the tenant filter.
func (q *Queries) CountPostsByState(ctx context.Context, tenantFilter sql.NullInt64, now time.Time) (PostCounts, error) {
	var c PostCounts
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(is_published), 0),
			COALESCE(SUM(CASE WHEN is_published = 0 AND scheduled_at IS NOT NULL AND scheduled_at > ? THEN 1 ELSE 0 END), 0)
		FROM posts
		WHERE deleted_at IS NULL AND (? IS NULL OR tenant_id = ?)`,
		now, tenantFilter, tenantFilter).Scan(&c.Total, &c.Published, &c.Scheduled)
	if err != nil {
		return PostCounts{}, err
	}
	c.Draft = c.Total - c.Published - c.Scheduled
	return c, nil
}
