// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"reunioncms/internal/metrics"
	"reunioncms/internal/model"
	"reunioncms/internal/service"
	"reunioncms/internal/validate"
)

// Stats handles GET /api/admin/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	stats, err := h.stats.Dashboard(r.Context(), access)
	if err != nil {
		WriteInternalError(w, "Failed to compute stats")
		return
	}
	WriteSuccess(w, stats, nil)
}

// Activity handles GET /api/admin/activity with category, level and
// pagination filters.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 50, 200)

	entries, total, err := h.activity.List(r.Context(), service.ListParams{
		Access:   access,
		Category: r.URL.Query().Get("category"),
		Level:    r.URL.Query().Get("level"),
		Limit:    int64(perPage),
		Offset:   int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list activity")
		return
	}

	WriteSuccess(w, entries, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pageCount(total, perPage),
	})
}

// RecordActivityRequest is the payload for POST /api/admin/activity.
type RecordActivityRequest struct {
	Action   string         `json:"action"`
	Category string         `json:"category,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// RecordActivity handles POST /api/admin/activity. Clients log domain
// events that happen outside the API with it, such as bulk edits done
// through external tooling.
func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	var req RecordActivityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v := validate.New().
		Required("action", req.Action).
		MaxLen("action", req.Action, validate.MaxNameLen)
	if req.Category != "" {
		v.OneOf("category", req.Category,
			model.ActivityCategoryPost, model.ActivityCategoryConfig,
			model.ActivityCategoryReunion, model.ActivityCategorySystem)
	}
	if err := v.Err(); err != nil {
		WriteValidationError(w, v.Fields())
		return
	}

	category := req.Category
	if category == "" {
		category = model.ActivityCategorySystem
	}
	h.recordActivity(r.Context(), access, category, req.Action, "", 0, req.Details, r)
	WriteCreated(w, map[string]string{"status": "recorded"})
}

// CronPublish handles GET and POST /api/cron/publish?key=. It runs the same sweep
// the internal scheduler runs every minute, for deployments that prefer
// an external cron trigger. The key must match CMS_CRON_SECRET.
func (h *Handler) CronPublish(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.cfg.CronSecret)) != 1 {
		WriteUnauthorized(w, "Invalid cron key")
		return
	}

	metrics.SweepRuns.WithLabelValues("http").Inc()
	result, err := h.scheduler.Sweep(r.Context(), time.Now())
	if err != nil {
		WriteInternalError(w, "Sweep failed")
		return
	}
	WriteSuccess(w, result, nil)
}

// ExportBackup handles GET /api/admin/backup and streams the caller's
// content as a JSON document.
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		`attachment; filename="reunioncms-backup-`+time.Now().Format("2006-01-02")+`.json"`)
	if err := h.exporter.ExportToWriter(r.Context(), access, w); err != nil {
		h.logger.Error("backup export failed", "error", err)
		// Headers are already out; nothing sane to write.
	}
}

// ImportBackup handles POST /api/admin/backup. Rows are upserted by their
// natural keys, so importing the same backup twice is a no-op.
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)
	result, err := h.importer.ImportFromReader(r.Context(), access, r.Body)
	if err != nil {
		WriteBadRequest(w, "Import failed: "+err.Error(), nil)
		return
	}

	h.invalidateSitemap(r.Context())
	h.recordActivity(r.Context(), access, model.ActivityCategorySystem,
		"backup.imported", "backup", 0, map[string]any{
			"posts":      result.Posts,
			"categories": result.Categories,
			"tags":       result.Tags,
		}, r)
	WriteSuccess(w, result, nil)
}

// PurgeActivity handles POST /api/admin/activity/purge and deletes audit
// rows older than the given number of days (default 90).
func (h *Handler) PurgeActivity(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	days := 90
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteBadRequest(w, "Invalid days parameter", nil)
			return
		}
		days = parsed
	}

	purged, err := h.queries.PurgeActivityBefore(r.Context(),
		time.Now().AddDate(0, 0, -days))
	if err != nil {
		WriteInternalError(w, "Failed to purge activity")
		return
	}

	h.recordActivity(r.Context(), access, model.ActivityCategorySystem,
		"activity.purged", "activity", 0, map[string]any{"purged": purged, "days": days}, r)
	WriteSuccess(w, map[string]int64{"purged": purged}, nil)
}
