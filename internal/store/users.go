// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"reunioncms/internal/model"
)

const userColumns = `id, email, name, password_hash, role, tenant_id, is_active, last_login_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
		&u.TenantID, &u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateUserParams holds fields for CreateUser.
type CreateUserParams struct {
	Email        string
	Name         string
	PasswordHash string
	Role         string
	TenantID     sql.NullInt64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO users (email, name, password_hash, role, tenant_id, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		arg.Email, arg.Name, arg.PasswordHash, arg.Role, arg.TenantID, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanUser(row)
}

// GetUserByID returns a user by primary key.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetActiveUserByEmail returns an active user by email.
func (q *Queries) GetActiveUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? AND is_active = 1`, email)
	return scanUser(row)
}

// ListUsers returns users, newest first. A valid tenantFilter restricts the
// list to one tenant; an invalid filter returns all users.
func (q *Queries) ListUsers(ctx context.Context, tenantFilter sql.NullInt64) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE (? IS NULL OR tenant_id = ?)
		ORDER BY created_at DESC`,
		tenantFilter, tenantFilter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserParams holds fields for UpdateUser.
type UpdateUserParams struct {
	ID        int64
	Name      string
	Role      string
	TenantID  sql.NullInt64
	IsActive  bool
	UpdatedAt time.Time
}

// UpdateUser updates profile, role, tenant assignment and active flag.
func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE users SET name = ?, role = ?, tenant_id = ?, is_active = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+userColumns,
		arg.Name, arg.Role, arg.TenantID, arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanUser(row)
}

// UpdateUserPassword replaces the stored password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, updatedAt, id)
	return err
}

// UpdateUserLastLogin stamps the last successful login time.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, at, id)
	return err
}

// CreateLoginAttempt appends a login attempt record.
func (q *Queries) CreateLoginAttempt(ctx context.Context, email, ip string, success bool, at time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO login_attempts (email, ip_address, success, created_at) VALUES (?, ?, ?, ?)`,
		email, ip, success, at)
	return err
}

// CountFailedLoginAttempts counts failed attempts for an email since the
// given time. Used for the 5-failures-in-15-minutes window check.
func (q *Queries) CountFailedLoginAttempts(ctx context.Context, email string, since time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM login_attempts WHERE email = ? AND success = 0 AND created_at >= ?`,
		email, since).Scan(&count)
	return count, err
}
