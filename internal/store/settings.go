// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"reunioncms/internal/model"
)

// GetSetting returns the setting row for a key.
func (q *Queries) GetSetting(ctx context.Context, key string) (model.SiteSetting, error) {
	var s model.SiteSetting
	err := q.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, key, value FROM site_settings WHERE key = ?`, key).
		Scan(&s.ID, &s.TenantID, &s.Key, &s.Value)
	return s, err
}

// ListSettings returns all settings ordered by key.
func (q *Queries) ListSettings(ctx context.Context) ([]model.SiteSetting, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, tenant_id, key, value FROM site_settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []model.SiteSetting
	for rows.Next() {
		var s model.SiteSetting
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// UpsertSetting writes a JSON value under a key, creating the row on first
// write.
func (q *Queries) UpsertSetting(ctx context.Context, tenantID sql.NullInt64, key, value string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO site_settings (tenant_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		tenantID, key, value)
	return err
}

// DeleteSetting removes a setting row.
func (q *Queries) DeleteSetting(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM site_settings WHERE key = ?`, key)
	return err
}
