// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reunioncms/internal/model"
	"reunioncms/internal/scope"
	"reunioncms/internal/store"
)

func newTestQueries(t *testing.T) *store.Queries {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))
	return store.New(db)
}

func testTenant(t *testing.T, q *store.Queries, name, slug string) model.Tenant {
	t.Helper()
	now := time.Now().UTC()
	tenant, err := q.CreateTenant(context.Background(), store.CreateTenantParams{
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

func testUser(t *testing.T, q *store.Queries, email string, tenantID sql.NullInt64) model.User {
	t.Helper()
	now := time.Now().UTC()
	user, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "unused",
		Role:         model.RoleAdmin,
		TenantID:     tenantID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return user
}

func TestActivityRecordParsesUserAgent(t *testing.T) {
	q := newTestQueries(t)
	svc := NewActivityService(q, nil)
	ctx := context.Background()
	user := testUser(t, q, "admin@example.com", sql.NullInt64{})

	err := svc.Record(ctx, RecordParams{
		Access:    scope.Access{UserID: user.ID, Role: model.RoleAdmin},
		Category:  model.ActivityCategoryAuth,
		Action:    "auth.login",
		IPAddress: "203.0.113.9",
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	})
	require.NoError(t, err)

	entries, _, err := svc.List(ctx, ListParams{Access: scope.System()})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "auth.login", entries[0].Action)
	assert.Contains(t, entries[0].Details, `"browser":"Chrome"`)
	assert.Contains(t, entries[0].Details, `"os":"Windows"`)
	assert.Equal(t, "203.0.113.9", entries[0].IPAddress)
}

func TestActivityListTenantScoped(t *testing.T) {
	q := newTestQueries(t)
	svc := NewActivityService(q, nil)
	ctx := context.Background()

	tenantA := sql.NullInt64{Int64: testTenant(t, q, "Tenant A", "tenant-a").ID, Valid: true}
	tenantB := sql.NullInt64{Int64: testTenant(t, q, "Tenant B", "tenant-b").ID, Valid: true}
	userA := testUser(t, q, "a@example.com", tenantA)
	userB := testUser(t, q, "b@example.com", tenantB)

	require.NoError(t, svc.Record(ctx, RecordParams{
		Access: scope.Access{UserID: userA.ID, Role: model.RoleAdmin, TenantID: tenantA},
		Action: "post.created",
	}))
	require.NoError(t, svc.Record(ctx, RecordParams{
		Access: scope.Access{UserID: userB.ID, Role: model.RoleAdmin, TenantID: tenantB},
		Action: "post.deleted",
	}))

	entries, total, err := svc.List(ctx, ListParams{
		Access: scope.Access{Role: model.RoleAdmin, TenantID: tenantA},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "post.created", entries[0].Action)

	_, total, err = svc.List(ctx, ListParams{Access: scope.System()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestStatsDashboard(t *testing.T) {
	q := newTestQueries(t)
	svc := NewStatsService(q)
	ctx := context.Background()
	now := time.Now().UTC()

	tenant, err := q.CreateTenant(ctx, store.CreateTenantParams{
		Name: "Reunion", Slug: "reunion", Plan: model.PlanFree, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	tid := sql.NullInt64{Int64: tenant.ID, Valid: true}

	_, err = q.UpsertPost(ctx, store.UpsertPostParams{
		TenantID: tid, Title: "Live", Slug: "live", BodyFormat: model.BodyFormatHTML,
		Tags: "[]", IsPublished: true, PublishedAt: sql.NullTime{Time: now, Valid: true},
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	_, err = q.CreateCategory(ctx, store.CreateCategoryParams{
		TenantID: tid, Name: "News", Slug: "news", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	// Tenant-scoped admin sees own counts, no tenant total.
	adminStats, err := svc.Dashboard(ctx, scope.Access{Role: model.RoleAdmin, TenantID: tid})
	require.NoError(t, err)
	assert.Equal(t, int64(1), adminStats.TotalPosts)
	assert.Equal(t, int64(1), adminStats.PublishedPosts)
	assert.Equal(t, int64(1), adminStats.Categories)
	assert.Zero(t, adminStats.Tenants)

	superStats, err := svc.Dashboard(ctx, scope.System())
	require.NoError(t, err)
	assert.Equal(t, int64(1), superStats.Tenants)
}
