// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reunioncms/internal/model"
)

func newTestQueries(t *testing.T) *Queries {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))
	return New(db)
}

func testTenant(t *testing.T, q *Queries, name, slug string) model.Tenant {
	t.Helper()
	now := time.Now().UTC()
	tenant, err := q.CreateTenant(context.Background(), CreateTenantParams{
		Name:      name,
		Slug:      slug,
		Plan:      model.PlanFree,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return tenant
}

func testPost(t *testing.T, q *Queries, tenantID sql.NullInt64, title, slug string, published bool) model.Post {
	t.Helper()
	now := time.Now().UTC()
	arg := UpsertPostParams{
		TenantID:    tenantID,
		Title:       title,
		Slug:        slug,
		Body:        "<p>body</p>",
		BodyFormat:  model.BodyFormatHTML,
		Tags:        "[]",
		IsPublished: published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if published {
		arg.PublishedAt = sql.NullTime{Time: now, Valid: true}
	}
	post, err := q.UpsertPost(context.Background(), arg)
	require.NoError(t, err)
	return post
}

func TestUpsertPostReplacesOnSlugConflict(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	tenant := testTenant(t, q, "Reunion", "reunion")
	tid := sql.NullInt64{Int64: tenant.ID, Valid: true}

	first := testPost(t, q, tid, "First Title", "shared-slug", false)
	second := testPost(t, q, tid, "Second Title", "shared-slug", true)

	assert.Equal(t, first.ID, second.ID, "conflict keeps the original row")
	assert.Equal(t, "Second Title", second.Title)
	assert.True(t, second.IsPublished)

	posts, err := q.ListAllPosts(ctx, tid)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestUpsertPostReplacesGlobalSlug(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	// Platform-wide posts have a NULL tenant_id; the slug must still be
	// unique among them.
	first := testPost(t, q, sql.NullInt64{}, "First Title", "shared-slug", false)
	second := testPost(t, q, sql.NullInt64{}, "Second Title", "shared-slug", true)

	assert.Equal(t, first.ID, second.ID, "conflict keeps the original row")
	assert.Equal(t, "Second Title", second.Title)

	posts, err := q.ListAllPosts(ctx, sql.NullInt64{})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestUpsertPostSameSlugDifferentTenants(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	a := testTenant(t, q, "Tenant A", "tenant-a")
	b := testTenant(t, q, "Tenant B", "tenant-b")

	testPost(t, q, sql.NullInt64{Int64: a.ID, Valid: true}, "Post A", "welcome", true)
	testPost(t, q, sql.NullInt64{Int64: b.ID, Valid: true}, "Post B", "welcome", true)

	fromA, err := q.GetPublishedPostBySlug(ctx, "welcome", sql.NullInt64{Int64: a.ID, Valid: true})
	require.NoError(t, err)
	assert.Equal(t, "Post A", fromA.Title)

	fromB, err := q.GetPublishedPostBySlug(ctx, "welcome", sql.NullInt64{Int64: b.ID, Valid: true})
	require.NoError(t, err)
	assert.Equal(t, "Post B", fromB.Title)
}

func TestListPublishedPostsTenantIsolation(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	a := testTenant(t, q, "Tenant A", "tenant-a")
	b := testTenant(t, q, "Tenant B", "tenant-b")
	tidA := sql.NullInt64{Int64: a.ID, Valid: true}
	tidB := sql.NullInt64{Int64: b.ID, Valid: true}

	testPost(t, q, tidA, "A One", "a-one", true)
	testPost(t, q, tidA, "A Two", "a-two", true)
	testPost(t, q, tidB, "B One", "b-one", true)

	posts, err := q.ListPublishedPosts(ctx, ListPublishedPostsParams{
		TenantID: tidA, Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, a.ID, p.TenantID.Int64)
	}

	// Unscoped listing sees everything.
	all, err := q.ListPublishedPosts(ctx, ListPublishedPostsParams{Limit: 50})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListPublishedPostsExcludesDraftsAndDeleted(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	tenant := testTenant(t, q, "Reunion", "reunion")
	tid := sql.NullInt64{Int64: tenant.ID, Valid: true}

	published := testPost(t, q, tid, "Published", "published", true)
	testPost(t, q, tid, "Draft", "draft", false)

	posts, err := q.ListPublishedPosts(ctx, ListPublishedPostsParams{TenantID: tid, Limit: 50})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Published", posts[0].Title)

	require.NoError(t, q.SoftDeletePost(ctx, published.ID, time.Now().UTC()))

	posts, err = q.ListPublishedPosts(ctx, ListPublishedPostsParams{TenantID: tid, Limit: 50})
	require.NoError(t, err)
	assert.Empty(t, posts)

	_, err = q.GetPostByID(ctx, published.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListPublishedPostsTagFilter(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := q.UpsertPost(ctx, UpsertPostParams{
		Title: "Tagged", Slug: "tagged", BodyFormat: model.BodyFormatHTML,
		Tags: model.EncodeTags([]string{"news", "reunion"}), IsPublished: true,
		PublishedAt: sql.NullTime{Time: now, Valid: true},
		CreatedAt:   now, UpdatedAt: now,
	})
	require.NoError(t, err)
	_, err = q.UpsertPost(ctx, UpsertPostParams{
		Title: "Untagged", Slug: "untagged", BodyFormat: model.BodyFormatHTML,
		Tags: "[]", IsPublished: true,
		PublishedAt: sql.NullTime{Time: now, Valid: true},
		CreatedAt:   now, UpdatedAt: now,
	})
	require.NoError(t, err)

	posts, err := q.ListPublishedPosts(ctx, ListPublishedPostsParams{
		Tag: sql.NullString{String: "news", Valid: true}, Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Tagged", posts[0].Title)
}

func TestScheduledPostsDueAndPublish(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := q.UpsertPost(ctx, UpsertPostParams{
		Title: "Due", Slug: "due", BodyFormat: model.BodyFormatHTML, Tags: "[]",
		ScheduledAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
		CreatedAt:   now, UpdatedAt: now,
	})
	require.NoError(t, err)
	_, err = q.UpsertPost(ctx, UpsertPostParams{
		Title: "Future", Slug: "future", BodyFormat: model.BodyFormatHTML, Tags: "[]",
		ScheduledAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
		CreatedAt:   now, UpdatedAt: now,
	})
	require.NoError(t, err)

	due, err := q.ListScheduledPostsDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "Due", due[0].Title)

	require.NoError(t, q.PublishScheduledPost(ctx, due[0].ID, now))

	published, err := q.GetPostByID(ctx, due[0].ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	assert.True(t, published.PublishedAt.Valid)
	assert.False(t, published.ScheduledAt.Valid)

	// Second pass finds nothing, so a repeated sweep is a no-op.
	due, err = q.ListScheduledPostsDue(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestCountPostsByState(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	now := time.Now().UTC()

	testPost(t, q, sql.NullInt64{}, "Published", "published", true)
	testPost(t, q, sql.NullInt64{}, "Draft", "draft", false)
	_, err := q.UpsertPost(ctx, UpsertPostParams{
		Title: "Scheduled", Slug: "scheduled", BodyFormat: model.BodyFormatHTML, Tags: "[]",
		ScheduledAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
		CreatedAt:   now, UpdatedAt: now,
	})
	require.NoError(t, err)

	counts, err := q.CountPostsByState(ctx, sql.NullInt64{}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts.Total)
	assert.Equal(t, int64(1), counts.Published)
	assert.Equal(t, int64(1), counts.Scheduled)
	assert.Equal(t, int64(1), counts.Draft)
}

func TestCountFailedLoginAttemptsWindow(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.CreateLoginAttempt(ctx, "admin@example.com", "127.0.0.1", false, now.Add(-time.Minute)))
	}
	// Outside the window and a success, neither counts.
	require.NoError(t, q.CreateLoginAttempt(ctx, "admin@example.com", "127.0.0.1", false, now.Add(-time.Hour)))
	require.NoError(t, q.CreateLoginAttempt(ctx, "admin@example.com", "127.0.0.1", true, now))
	require.NoError(t, q.CreateLoginAttempt(ctx, "other@example.com", "127.0.0.1", false, now))

	count, err := q.CountFailedLoginAttempts(ctx, "admin@example.com", now.Add(-15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestGuestbookApprovalFlow(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	now := time.Now().UTC()

	entry, err := q.CreateGuestbookEntry(ctx, "Nguyen Van A", sql.NullString{String: "12A1", Valid: true}, "Hello!", now)
	require.NoError(t, err)
	assert.False(t, entry.IsApproved)

	visible, err := q.ListGuestbookEntries(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, visible)

	require.NoError(t, q.ApproveGuestbookEntry(ctx, entry.ID))

	visible, err = q.ListGuestbookEntries(ctx, true)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Nguyen Van A", visible[0].AuthorName)
}

func TestClassCascadeDeletesAlumni(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	now := time.Now().UTC()

	class, err := q.CreateClass(ctx, CreateClassParams{Name: "12A1", Slug: "12a1", CreatedAt: now})
	require.NoError(t, err)
	_, err = q.CreateAlumnus(ctx, CreateAlumnusParams{ClassID: class.ID, FullName: "Tran Thi B", CreatedAt: now})
	require.NoError(t, err)

	require.NoError(t, q.DeleteClass(ctx, class.ID))

	alumni, err := q.ListAlumniByClass(ctx, class.ID)
	require.NoError(t, err)
	assert.Empty(t, alumni)
}

func TestSettingsUpsert(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()

	require.NoError(t, q.UpsertSetting(ctx, sql.NullInt64{}, "site_title", `"Reunion 2026"`))
	require.NoError(t, q.UpsertSetting(ctx, sql.NullInt64{}, "site_title", `"Reunion 2027"`))

	s, err := q.GetSetting(ctx, "site_title")
	require.NoError(t, err)
	assert.Equal(t, `"Reunion 2027"`, s.Value)
}

func TestPageContentUpsert(t *testing.T) {
	q := newTestQueries(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first, err := q.UpsertPageContent(ctx, "home-hero", "/", `{"title":"Welcome"}`, now)
	require.NoError(t, err)
	second, err := q.UpsertPageContent(ctx, "home-hero", "/", `{"title":"Updated"}`, now.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, `{"title":"Updated"}`, second.Data)

	blocks, err := q.ListPageContentByPath(ctx, "/")
	require.NoError(t, err)
	assert.Len(t, blocks, 1)
}
