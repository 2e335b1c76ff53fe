// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reunioncms/internal/model"
	"reunioncms/internal/scope"
	"reunioncms/internal/store"
)

func setupTest(t *testing.T) (*Exporter, *Importer, *store.Queries) {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))

	q := store.New(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewExporter(q, logger), NewImporter(q, logger), q
}

func TestExportEmptyDatabase(t *testing.T) {
	exporter, _, _ := setupTest(t)

	backup, err := exporter.Export(context.Background(), scope.System())
	require.NoError(t, err)

	assert.Equal(t, "reunioncms", backup.Meta.App)
	assert.False(t, backup.Meta.ExportedAt.IsZero())
	assert.Empty(t, backup.Posts)
	assert.NotNil(t, backup.Posts, "arrays encode as [] not null")
}

func TestExportToWriterProducesJSON(t *testing.T) {
	exporter, _, _ := setupTest(t)

	var buf bytes.Buffer
	require.NoError(t, exporter.ExportToWriter(context.Background(), scope.System(), &buf))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, doc, "_meta")
	assert.Contains(t, doc, "posts")
	assert.Contains(t, doc, "site_settings")
}

func TestRoundTrip(t *testing.T) {
	exporter, _, q := setupTest(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	cat, err := q.CreateCategory(ctx, store.CreateCategoryParams{
		Name: "News", Slug: "news", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	_, err = q.UpsertPost(ctx, store.UpsertPostParams{
		Title: "Reunion Recap", Slug: "reunion-recap", Body: "<p>hello</p>",
		BodyFormat: model.BodyFormatHTML,
		CategoryID: sql.NullInt64{Int64: cat.ID, Valid: true},
		Tags:       model.EncodeTags([]string{"recap"}),
		IsPublished: true, PublishedAt: sql.NullTime{Time: now, Valid: true},
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, q.UpsertSetting(ctx, sql.NullInt64{}, "site_title", `"Reunion"`))

	var buf bytes.Buffer
	require.NoError(t, exporter.ExportToWriter(ctx, scope.System(), &buf))

	// Import into a fresh database.
	_, importer2, q2 := setupTest(t)
	result, err := importer2.ImportFromReader(ctx, scope.System(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Posts)
	assert.Equal(t, 1, result.Categories)
	assert.Equal(t, 1, result.SiteSettings)

	post, err := q2.GetPublishedPostBySlug(ctx, "reunion-recap", sql.NullInt64{})
	require.NoError(t, err)
	assert.Equal(t, "Reunion Recap", post.Title)
	assert.Equal(t, []string{"recap"}, post.TagList())
	assert.True(t, post.CategoryID.Valid, "category resolved by slug")

	setting, err := q2.GetSetting(ctx, "site_title")
	require.NoError(t, err)
	assert.Equal(t, `"Reunion"`, setting.Value)
}

func TestImportUpsertsBySlug(t *testing.T) {
	_, importer, q := setupTest(t)
	ctx := context.Background()

	backup := &Backup{
		Meta:  Meta{App: "reunioncms"},
		Posts: []ExportPost{{Title: "First Version", Slug: "same-slug"}},
	}
	_, err := importer.Import(ctx, scope.System(), backup)
	require.NoError(t, err)

	backup.Posts[0].Title = "Second Version"
	_, err = importer.Import(ctx, scope.System(), backup)
	require.NoError(t, err)

	posts, err := q.ListAllPosts(ctx, sql.NullInt64{})
	require.NoError(t, err)
	require.Len(t, posts, 1, "repeated import updates in place")
	assert.Equal(t, "Second Version", posts[0].Title)
}

func TestImportRejectsForeignBackup(t *testing.T) {
	_, importer, _ := setupTest(t)

	_, err := importer.Import(context.Background(), scope.System(), &Backup{
		Meta: Meta{App: "wordpress"},
	})
	assert.Error(t, err)
}

func TestImportStampsCallerTenant(t *testing.T) {
	_, importer, q := setupTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	tenant, err := q.CreateTenant(ctx, store.CreateTenantParams{
		Name: "Reunion", Slug: "reunion", Plan: model.PlanFree, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	tid := sql.NullInt64{Int64: tenant.ID, Valid: true}

	_, err = importer.Import(ctx, scope.Access{Role: model.RoleAdmin, TenantID: tid}, &Backup{
		Posts: []ExportPost{{Title: "Tenant Post", Slug: "tenant-post"}},
	})
	require.NoError(t, err)

	posts, err := q.ListAllPosts(ctx, tid)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, tenant.ID, posts[0].TenantID.Int64)
}
