// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"reunioncms/internal/model"
)

const activityColumns = `id, user_id, tenant_id, level, category, action,
	entity_type, entity_id, details, ip_address, created_at`

func scanActivity(row interface{ Scan(...any) error }) (model.Activity, error) {
	var a model.Activity
	err := row.Scan(&a.ID, &a.UserID, &a.TenantID, &a.Level, &a.Category, &a.Action,
		&a.EntityType, &a.EntityID, &a.Details, &a.IPAddress, &a.CreatedAt)
	return a, err
}

// CreateActivityParams holds fields for CreateActivity.
type CreateActivityParams struct {
	UserID     sql.NullInt64
	TenantID   sql.NullInt64
	Level      string
	Category   string
	Action     string
	EntityType sql.NullString
	EntityID   sql.NullInt64
	Details    string
	IPAddress  string
	CreatedAt  time.Time
}

// CreateActivity appends an audit trail entry.
func (q *Queries) CreateActivity(ctx context.Context, arg CreateActivityParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO activity_logs (user_id, tenant_id, level, category, action,
			entity_type, entity_id, details, ip_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.UserID, arg.TenantID, arg.Level, arg.Category, arg.Action,
		arg.EntityType, arg.EntityID, arg.Details, arg.IPAddress, arg.CreatedAt)
	return err
}

// ListActivityParams holds filters for ListActivity.
type ListActivityParams struct {
	TenantID sql.NullInt64
	Category sql.NullString
	Level    sql.NullString
	Limit    int64
	Offset   int64
}

// ListActivity returns audit entries newest first.
func (q *Queries) ListActivity(ctx context.Context, arg ListActivityParams) ([]model.Activity, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+activityColumns+` FROM activity_logs
		WHERE (? IS NULL OR tenant_id = ?)
		  AND (? IS NULL OR category = ?)
		  AND (? IS NULL OR level = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		arg.TenantID, arg.TenantID,
		arg.Category, arg.Category,
		arg.Level, arg.Level,
		arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

// CountActivity counts audit entries matching the same filters as
// ListActivity.
func (q *Queries) CountActivity(ctx context.Context, arg ListActivityParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM activity_logs
		WHERE (? IS NULL OR tenant_id = ?)
		  AND (? IS NULL OR category = ?)
		  AND (? IS NULL OR level = ?)`,
		arg.TenantID, arg.TenantID,
		arg.Category, arg.Category,
		arg.Level, arg.Level).Scan(&count)
	return count, err
}

// PurgeActivityBefore deletes audit entries older than the cutoff. Used by
// the retention sweep.
func (q *Queries) PurgeActivityBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM activity_logs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
