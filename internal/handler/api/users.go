// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"reunioncms/internal/auth"
	"reunioncms/internal/model"
	"reunioncms/internal/store"
	"reunioncms/internal/util"
	"reunioncms/internal/validate"
)

// CreateUserRequest is the payload for POST /api/admin/users.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	TenantID *int64 `json:"tenant_id,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// UpdateUserRequest is the payload for PUT /api/admin/users/{id}.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	TenantID *int64 `json:"tenant_id,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// ListUsers handles GET /api/admin/users, scoped to the caller's tenant.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	users, err := h.queries.ListUsers(r.Context(), access.TenantFilter())
	if err != nil {
		WriteInternalError(w, "Failed to list users")
		return
	}
	WriteSuccess(w, users, nil)
}

// CreateUser handles POST /api/admin/users. Admins may not create a role
// above their own, and the new user is stamped with the caller's tenant
// unless the caller is a super admin.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v := validate.New().
		Required("email", req.Email).
		Email("email", req.Email).
		Required("name", req.Name).
		MaxLen("name", req.Name, validate.MaxNameLen).
		Required("password", req.Password).
		MinLen("password", req.Password, validate.MinPasswordLen).
		Check(model.IsValidRole(req.Role), "role", "must be one of: super_admin, admin, editor")
	if v.Err() != nil {
		WriteValidationError(w, v.Fields())
		return
	}
	if !access.AtLeast(req.Role) {
		WriteForbidden(w, "Cannot create a user with a higher role than your own")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		WriteInternalError(w, "Failed to hash password")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	now := time.Now()
	user, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		TenantID:     access.StampTenant(util.NullInt64FromPtr(req.TenantID)),
		IsActive:     isActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create user")
		return
	}

	h.recordActivity(ctx, access, model.ActivityCategoryUser,
		"user.created", "user", user.ID, map[string]any{"email": user.Email, "role": user.Role}, r)
	WriteCreated(w, user)
}

// UpdateUser handles PUT /api/admin/users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	existing, ok := requireEntityByID(w, r, "user", func(id int64) (model.User, error) {
		return h.queries.GetUserByID(ctx, id)
	})
	if !ok {
		return
	}
	if !access.CanAccess(existing.TenantID) {
		WriteNotFound(w, "user not found")
		return
	}

	var req UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v := validate.New().
		Required("name", req.Name).
		MaxLen("name", req.Name, validate.MaxNameLen).
		Check(model.IsValidRole(req.Role), "role", "must be one of: super_admin, admin, editor")
	if v.Err() != nil {
		WriteValidationError(w, v.Fields())
		return
	}
	if !access.AtLeast(req.Role) || !access.AtLeast(existing.Role) {
		WriteForbidden(w, "Cannot change roles above your own")
		return
	}

	isActive := existing.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	user, err := h.queries.UpdateUser(ctx, store.UpdateUserParams{
		ID:        existing.ID,
		Name:      req.Name,
		Role:      req.Role,
		TenantID:  access.StampTenant(util.NullInt64FromPtr(req.TenantID)),
		IsActive:  isActive,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to update user")
		return
	}

	h.recordActivity(ctx, access, model.ActivityCategoryUser,
		"user.updated", "user", user.ID, map[string]any{"email": user.Email, "role": user.Role}, r)
	WriteSuccess(w, user, nil)
}
