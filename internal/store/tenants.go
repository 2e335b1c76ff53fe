// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"reunioncms/internal/model"
)

const tenantColumns = `id, name, slug, domain, plan, is_active, created_at, updated_at`

func scanTenant(row interface{ Scan(...any) error }) (model.Tenant, error) {
	var t model.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Domain, &t.Plan,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// CreateTenantParams holds fields for CreateTenant.
type CreateTenantParams struct {
	Name      string
	Slug      string
	Domain    sql.NullString
	Plan      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateTenant inserts a tenant and returns the stored row.
func (q *Queries) CreateTenant(ctx context.Context, arg CreateTenantParams) (model.Tenant, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO tenants (name, slug, domain, plan, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING `+tenantColumns,
		arg.Name, arg.Slug, arg.Domain, arg.Plan, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanTenant(row)
}

// GetTenantByID returns a tenant by primary key.
func (q *Queries) GetTenantByID(ctx context.Context, id int64) (model.Tenant, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = ?`, id)
	return scanTenant(row)
}

// GetTenantBySlug returns a tenant by its URL slug.
func (q *Queries) GetTenantBySlug(ctx context.Context, slug string) (model.Tenant, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE slug = ?`, slug)
	return scanTenant(row)
}

// ListTenants returns all tenants ordered by name.
func (q *Queries) ListTenants(ctx context.Context) ([]model.Tenant, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []model.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// UpdateTenantParams holds fields for UpdateTenant.
type UpdateTenantParams struct {
	ID        int64
	Name      string
	Slug      string
	Domain    sql.NullString
	Plan      string
	IsActive  bool
	UpdatedAt time.Time
}

// UpdateTenant updates a tenant and returns the stored row.
func (q *Queries) UpdateTenant(ctx context.Context, arg UpdateTenantParams) (model.Tenant, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE tenants SET name = ?, slug = ?, domain = ?, plan = ?, is_active = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+tenantColumns,
		arg.Name, arg.Slug, arg.Domain, arg.Plan, arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanTenant(row)
}

// DeleteTenant removes a tenant. Content rows keep their tenant_id and
// become orphaned until reassigned.
func (q *Queries) DeleteTenant(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = ?`, id)
	return err
}

// CountTenants returns the number of tenants.
func (q *Queries) CountTenants(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&count)
	return count, err
}
