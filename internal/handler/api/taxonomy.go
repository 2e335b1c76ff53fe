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

// TaxonomyRequest is the payload for creating or updating a category or tag.
type TaxonomyRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	TenantID    *int64 `json:"tenant_id,omitempty"`
}

func (h *Handler) validateTaxonomy(w http.ResponseWriter, req *TaxonomyRequest) bool {
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Name)
	}
	v := validate.New().
		Required("name", req.Name).
		MaxLen("name", req.Name, validate.MaxNameLen).
		Required("slug", req.Slug).
		Slug("slug", req.Slug)
	if v.Err() != nil {
		WriteValidationError(w, v.Fields())
		return false
	}
	return true
}

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	tenantFilter, ok := h.resolveTenantParam(r.Context(), w, r)
	if !ok {
		return
	}
	categories, err := h.queries.ListCategories(r.Context(), tenantFilter)
	if err != nil {
		WriteInternalError(w, "Failed to list categories")
		return
	}
	WriteSuccess(w, categories, nil)
}

// AdminCreateCategory handles POST /api/admin/categories.
func (h *Handler) AdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	var req TaxonomyRequest
	if !decodeJSON(w, r, &req) || !h.validateTaxonomy(w, &req) {
		return
	}

	now := time.Now()
	category, err := h.queries.CreateCategory(r.Context(), store.CreateCategoryParams{
		TenantID:    access.StampTenant(util.NullInt64FromPtr(req.TenantID)),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: util.NullStringFromValue(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create category")
		return
	}
	h.recordContentActivity(r.Context(), access, "category.created", "category",
		category.ID, map[string]any{"slug": category.Slug}, r)
	WriteCreated(w, category)
}

// AdminUpdateCategory handles PUT /api/admin/categories/{id}.
func (h *Handler) AdminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	existing, ok := requireEntityByID(w, r, "category", func(id int64) (model.Category, error) {
		return h.queries.GetCategoryByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if !access.CanAccess(existing.TenantID) {
		WriteNotFound(w, "category not found")
		return
	}

	var req TaxonomyRequest
	if !decodeJSON(w, r, &req) || !h.validateTaxonomy(w, &req) {
		return
	}

	category, err := h.queries.UpdateCategory(r.Context(), store.UpdateCategoryParams{
		ID:          existing.ID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: util.NullStringFromValue(req.Description),
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to update category")
		return
	}
	WriteSuccess(w, category, nil)
}

// AdminDeleteCategory handles DELETE /api/admin/categories/{id}. Posts
// referencing the category keep their category_id.
func (h *Handler) AdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	existing, ok := requireEntityByID(w, r, "category", func(id int64) (model.Category, error) {
		return h.queries.GetCategoryByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if !access.CanAccess(existing.TenantID) {
		WriteNotFound(w, "category not found")
		return
	}
	if err := h.queries.DeleteCategory(r.Context(), existing.ID); err != nil {
		WriteInternalError(w, "Failed to delete category")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// ListTags handles GET /api/tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tenantFilter, ok := h.resolveTenantParam(r.Context(), w, r)
	if !ok {
		return
	}
	tags, err := h.queries.ListTags(r.Context(), tenantFilter)
	if err != nil {
		WriteInternalError(w, "Failed to list tags")
		return
	}
	WriteSuccess(w, tags, nil)
}

// AdminCreateTag handles POST /api/admin/tags.
func (h *Handler) AdminCreateTag(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	var req TaxonomyRequest
	if !decodeJSON(w, r, &req) || !h.validateTaxonomy(w, &req) {
		return
	}

	now := time.Now()
	tag, err := h.queries.CreateTag(r.Context(), store.CreateTagParams{
		TenantID:    access.StampTenant(util.NullInt64FromPtr(req.TenantID)),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: util.NullStringFromValue(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create tag")
		return
	}
	h.recordContentActivity(r.Context(), access, "tag.created", "tag",
		tag.ID, map[string]any{"slug": tag.Slug}, r)
	WriteCreated(w, tag)
}

// AdminUpdateTag handles PUT /api/admin/tags/{id}.
func (h *Handler) AdminUpdateTag(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	existing, ok := requireEntityByID(w, r, "tag", func(id int64) (model.Tag, error) {
		return h.queries.GetTagByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if !access.CanAccess(existing.TenantID) {
		WriteNotFound(w, "tag not found")
		return
	}

	var req TaxonomyRequest
	if !decodeJSON(w, r, &req) || !h.validateTaxonomy(w, &req) {
		return
	}

	tag, err := h.queries.UpdateTag(r.Context(), store.UpdateTagParams{
		ID:          existing.ID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: util.NullStringFromValue(req.Description),
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to update tag")
		return
	}
	WriteSuccess(w, tag, nil)
}

// AdminDeleteTag handles DELETE /api/admin/tags/{id}. Post rows keep the
// tag name in their tags column; deleting a tag only removes the label row.
func (h *Handler) AdminDeleteTag(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	existing, ok := requireEntityByID(w, r, "tag", func(id int64) (model.Tag, error) {
		return h.queries.GetTagByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if !access.CanAccess(existing.TenantID) {
		WriteNotFound(w, "tag not found")
		return
	}
	if err := h.queries.DeleteTag(r.Context(), existing.ID); err != nil {
		WriteInternalError(w, "Failed to delete tag")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
