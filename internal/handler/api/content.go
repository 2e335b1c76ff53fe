// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"reunioncms/internal/model"
	"reunioncms/internal/store"
	"reunioncms/internal/util"
	"reunioncms/internal/validate"
)

// PageContentRequest is the payload for PUT /api/admin/page-content.
// Data must be a flat JSON object of field name to text value.
type PageContentRequest struct {
	SectionID string          `json:"section_id"`
	PagePath  string          `json:"page_path"`
	Data      json.RawMessage `json:"data"`
}

// GetPageContent handles GET /api/page-content?path= or ?section=.
func (h *Handler) GetPageContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if section := r.URL.Query().Get("section"); section != "" {
		content, err := h.queries.GetPageContent(ctx, section)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				WriteNotFound(w, "section not found")
			} else {
				WriteInternalError(w, "Failed to load page content")
			}
			return
		}
		WriteSuccess(w, content, nil)
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		WriteBadRequest(w, "path or section query parameter required", nil)
		return
	}
	sections, err := h.queries.ListPageContentByPath(ctx, path)
	if err != nil {
		WriteInternalError(w, "Failed to load page content")
		return
	}
	WriteSuccess(w, sections, nil)
}

// AdminUpsertPageContent handles PUT /api/admin/page-content. Sections are
// keyed by section_id: an existing section is replaced in place.
func (h *Handler) AdminUpsertPageContent(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	var req PageContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v := validate.New().
		Required("section_id", req.SectionID).
		Required("page_path", req.PagePath)
	if v.Err() != nil {
		WriteValidationError(w, v.Fields())
		return
	}

	var fields map[string]string
	if err := json.Unmarshal(req.Data, &fields); err != nil {
		WriteValidationError(w, map[string]string{"data": "must be a flat JSON object of string values"})
		return
	}
	for k, val := range fields {
		fields[k] = validate.SanitizeHTML(val)
	}
	data, err := json.Marshal(fields)
	if err != nil {
		WriteInternalError(w, "Failed to encode page content")
		return
	}

	content, err := h.queries.UpsertPageContent(r.Context(), req.SectionID, req.PagePath, string(data), time.Now())
	if err != nil {
		WriteInternalError(w, "Failed to save page content")
		return
	}

	h.recordContentActivity(r.Context(), access, "page_content.saved", "page_content",
		content.ID, map[string]any{"section_id": content.SectionID}, r)
	WriteSuccess(w, content, nil)
}

// ScheduledContentRequest is the payload for the editorial calendar.
type ScheduledContentRequest struct {
	Title         string `json:"title"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	ScheduledDate string `json:"scheduled_date"`
	Author        string `json:"author"`
	Category      string `json:"category"`
	Notes         string `json:"notes,omitempty"`
	TenantID      *int64 `json:"tenant_id,omitempty"`
}

func validateScheduledContent(w http.ResponseWriter, req *ScheduledContentRequest) (time.Time, bool) {
	if req.Status == "" {
		req.Status = model.ScheduledStatusDraft
	}
	v := validate.New().
		Required("title", req.Title).
		MaxLen("title", req.Title, validate.MaxTitleLen).
		OneOf("type", req.Type, model.ScheduledTypeArticle, model.ScheduledTypeUpdate,
			model.ScheduledTypePromotion, model.ScheduledTypeReview).
		OneOf("status", req.Status, model.ScheduledStatusDraft, model.ScheduledStatusScheduled,
			model.ScheduledStatusPublished, model.ScheduledStatusOverdue).
		Required("scheduled_date", req.ScheduledDate)
	if v.Err() != nil {
		WriteValidationError(w, v.Fields())
		return time.Time{}, false
	}
	date, err := time.Parse(time.RFC3339, req.ScheduledDate)
	if err != nil {
		// Calendar entries may carry a bare date.
		date, err = time.Parse("2006-01-02", req.ScheduledDate)
	}
	if err != nil {
		WriteValidationError(w, map[string]string{"scheduled_date": "must be an RFC 3339 timestamp or YYYY-MM-DD date"})
		return time.Time{}, false
	}
	return date, true
}

// ListScheduledContent handles GET /api/admin/scheduled-content.
func (h *Handler) ListScheduledContent(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	entries, err := h.queries.ListScheduledContent(r.Context(), access.TenantFilter())
	if err != nil {
		WriteInternalError(w, "Failed to list scheduled content")
		return
	}
	WriteSuccess(w, entries, nil)
}

// CreateScheduledContent handles POST /api/admin/scheduled-content.
func (h *Handler) CreateScheduledContent(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	var req ScheduledContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	date, ok := validateScheduledContent(w, &req)
	if !ok {
		return
	}

	now := time.Now()
	entry, err := h.queries.CreateScheduledContent(r.Context(), store.CreateScheduledContentParams{
		TenantID:      access.StampTenant(util.NullInt64FromPtr(req.TenantID)),
		Title:         req.Title,
		Type:          req.Type,
		Status:        req.Status,
		ScheduledDate: date,
		Author:        req.Author,
		Category:      req.Category,
		Notes:         util.NullStringFromValue(req.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create calendar entry")
		return
	}
	WriteCreated(w, entry)
}

// UpdateScheduledContent handles PUT /api/admin/scheduled-content/{id}.
func (h *Handler) UpdateScheduledContent(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	existing, ok := requireEntityByID(w, r, "calendar entry", func(id int64) (model.ScheduledContent, error) {
		return h.queries.GetScheduledContentByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if !access.CanAccess(existing.TenantID) {
		WriteNotFound(w, "calendar entry not found")
		return
	}

	var req ScheduledContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	date, ok := validateScheduledContent(w, &req)
	if !ok {
		return
	}

	entry, err := h.queries.UpdateScheduledContent(r.Context(), store.UpdateScheduledContentParams{
		ID:            existing.ID,
		Title:         req.Title,
		Type:          req.Type,
		Status:        req.Status,
		ScheduledDate: date,
		Author:        req.Author,
		Category:      req.Category,
		Notes:         util.NullStringFromValue(req.Notes),
		UpdatedAt:     time.Now(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to update calendar entry")
		return
	}
	WriteSuccess(w, entry, nil)
}

// DeleteScheduledContent handles DELETE /api/admin/scheduled-content/{id}.
func (h *Handler) DeleteScheduledContent(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	existing, ok := requireEntityByID(w, r, "calendar entry", func(id int64) (model.ScheduledContent, error) {
		return h.queries.GetScheduledContentByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if !access.CanAccess(existing.TenantID) {
		WriteNotFound(w, "calendar entry not found")
		return
	}
	if err := h.queries.DeleteScheduledContent(r.Context(), existing.ID); err != nil {
		WriteInternalError(w, "Failed to delete calendar entry")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// SettingRequest is the payload for PUT /api/admin/settings/{key}.
type SettingRequest struct {
	Value json.RawMessage `json:"value"`
}

// ListSettings handles GET /api/admin/settings.
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.queries.ListSettings(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list settings")
		return
	}
	WriteSuccess(w, settings, nil)
}

// UpsertSetting handles PUT /api/admin/settings/{key}. The value is stored
// as JSON under the URL key.
func (h *Handler) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	key := settingKeyParam(r)
	if key == "" {
		WriteBadRequest(w, "setting key required", nil)
		return
	}

	var req SettingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !json.Valid(req.Value) {
		WriteValidationError(w, map[string]string{"value": "must be valid JSON"})
		return
	}

	tenant := access.StampTenant(sql.NullInt64{})
	if err := h.queries.UpsertSetting(r.Context(), tenant, key, string(req.Value)); err != nil {
		WriteInternalError(w, "Failed to save setting")
		return
	}

	h.recordActivity(r.Context(), access, model.ActivityCategoryConfig,
		"setting.saved", "setting", 0, map[string]any{"key": key}, r)
	WriteSuccess(w, map[string]string{"key": key}, nil)
}

// DeleteSetting handles DELETE /api/admin/settings/{key}.
func (h *Handler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	key := settingKeyParam(r)
	if key == "" {
		WriteBadRequest(w, "setting key required", nil)
		return
	}
	if err := h.queries.DeleteSetting(r.Context(), key); err != nil {
		WriteInternalError(w, "Failed to delete setting")
		return
	}
	h.recordActivity(r.Context(), access, model.ActivityCategoryConfig,
		"setting.deleted", "setting", 0, map[string]any{"key": key}, r)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
