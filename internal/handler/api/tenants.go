// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"reunioncms/internal/model"
	"reunioncms/internal/store"
	"reunioncms/internal/util"
	"reunioncms/internal/validate"
)

// TenantRequest is the payload for creating or updating a tenant.
// Tenant management is restricted to super admins by the router.
type TenantRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Plan     string `json:"plan,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func validateTenant(w http.ResponseWriter, req *TenantRequest) bool {
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Name)
	}
	if req.Plan == "" {
		req.Plan = model.PlanFree
	}
	v := validate.New().
		Required("name", req.Name).
		MaxLen("name", req.Name, validate.MaxNameLen).
		Required("slug", req.Slug).
		Slug("slug", req.Slug).
		Check(model.IsValidPlan(req.Plan), "plan", "must be one of: free, pro, enterprise")
	if v.Err() != nil {
		WriteValidationError(w, v.Fields())
		return false
	}
	return true
}

// ListTenants handles GET /api/admin/tenants.
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.queries.ListTenants(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list tenants")
		return
	}
	WriteSuccess(w, tenants, nil)
}

// CreateTenant handles POST /api/admin/tenants.
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	var req TenantRequest
	if !decodeJSON(w, r, &req) || !validateTenant(w, &req) {
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	now := time.Now()
	tenant, err := h.queries.CreateTenant(r.Context(), store.CreateTenantParams{
		Name:      req.Name,
		Slug:      req.Slug,
		Domain:    util.NullStringFromValue(req.Domain),
		Plan:      req.Plan,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create tenant")
		return
	}
	h.recordActivity(r.Context(), access, model.ActivityCategoryTenant,
		"tenant.created", "tenant", tenant.ID, map[string]any{"slug": tenant.Slug}, r)
	WriteCreated(w, tenant)
}

// UpdateTenant handles PUT /api/admin/tenants/{id}.
func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	existing, ok := requireEntityByID(w, r, "tenant", func(id int64) (model.Tenant, error) {
		return h.queries.GetTenantByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req TenantRequest
	if !decodeJSON(w, r, &req) || !validateTenant(w, &req) {
		return
	}

	isActive := existing.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	tenant, err := h.queries.UpdateTenant(r.Context(), store.UpdateTenantParams{
		ID:        existing.ID,
		Name:      req.Name,
		Slug:      req.Slug,
		Domain:    util.NullStringFromValue(req.Domain),
		Plan:      req.Plan,
		IsActive:  isActive,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to update tenant")
		return
	}
	h.recordActivity(r.Context(), access, model.ActivityCategoryTenant,
		"tenant.updated", "tenant", tenant.ID, map[string]any{"slug": tenant.Slug}, r)
	WriteSuccess(w, tenant, nil)
}

// DeleteTenant handles DELETE /api/admin/tenants/{id}. Content rows keep
// their tenant_id; the rows become unreachable rather than removed.
func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	existing, ok := requireEntityByID(w, r, "tenant", func(id int64) (model.Tenant, error) {
		return h.queries.GetTenantByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if err := h.queries.DeleteTenant(r.Context(), existing.ID); err != nil {
		WriteInternalError(w, "Failed to delete tenant")
		return
	}
	h.recordActivity(r.Context(), access, model.ActivityCategoryTenant,
		"tenant.deleted", "tenant", existing.ID, map[string]any{"slug": existing.Slug}, r)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
