// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// seededSettingKey marks a database that has already been seeded so the
// seed runs at most once per database file.
const seededSettingKey = "seeded_at"

// Seed populates a fresh database with the starter content the reunion
// microsite needs: the default reunion event setting, an empty class and
// the blog category. It is a no-op unless enabled, and a no-op on a
// database that was seeded before.
func Seed(ctx context.Context, db *sql.DB, enabled bool) error {
	if !enabled {
		return nil
	}

	queries := New(db)
	if _, err := queries.GetSetting(ctx, seededSettingKey); err == nil {
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking seed marker: %w", err)
	}

	now := time.Now()

	if err := queries.UpsertSetting(ctx, sql.NullInt64{}, "reunion_event",
		`{"title":"Reunion","venue":"","date":"`+now.AddDate(1, 0, 0).Format(time.RFC3339)+`"}`); err != nil {
		return fmt.Errorf("seeding event setting: %w", err)
	}

	if _, err := queries.CreateCategory(ctx, CreateCategoryParams{
		Name:      "News",
		Slug:      "news",
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("seeding category: %w", err)
	}

	if err := queries.UpsertSetting(ctx, sql.NullInt64{}, seededSettingKey,
		`"`+now.Format(time.RFC3339)+`"`); err != nil {
		return fmt.Errorf("writing seed marker: %w", err)
	}

	slog.Info("database seeded")
	return nil
}
