// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reunioncms/internal/model"
	"reunioncms/internal/store"
)

func newTestLogger(t *testing.T) (*slog.Logger, *store.Queries) {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))

	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewActivityLogHandler(inner, db)), store.New(db)
}

func TestWarnRecordsActivity(t *testing.T) {
	logger, q := newTestLogger(t)

	logger.Warn("login failed", "category", model.ActivityCategoryAuth, "email", "a@b.c")

	entries, err := q.ListActivity(context.Background(), store.ListActivityParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActivityLevelWarning, entries[0].Level)
	assert.Equal(t, model.ActivityCategoryAuth, entries[0].Category)
	assert.Equal(t, "login failed", entries[0].Action)
	assert.Contains(t, entries[0].Details, `"email":"a@b.c"`)
}

func TestInfoBelowThresholdNotRecorded(t *testing.T) {
	logger, q := newTestLogger(t)

	logger.Info("server started")

	entries, err := q.ListActivity(context.Background(), store.ListActivityParams{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestErrorLevelAndInferredCategory(t *testing.T) {
	logger, q := newTestLogger(t)

	logger.Error("publish sweep failed")

	entries, err := q.ListActivity(context.Background(), store.ListActivityParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActivityLevelError, entries[0].Level)
	assert.Equal(t, model.ActivityCategoryPost, entries[0].Category)
}
