// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"reunioncms/internal/model"
	"reunioncms/internal/store"
	"reunioncms/internal/util"
	"reunioncms/internal/validate"
)

// reunionEventSettingKey holds the event metadata consumed by the
// countdown endpoint: {"date": "...", "venue": "...", "title": "..."}.
const reunionEventSettingKey = "reunion_event"

// ClassRequest is the payload for creating or updating a class.
type ClassRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	TeacherName string `json:"teacher_name,omitempty"`
	SortOrder   int64  `json:"sort_order"`
}

// ClassResponse is a class together with its roster.
type ClassResponse struct {
	model.Class
	Alumni []model.Alumnus `json:"alumni,omitempty"`
}

// ListClasses handles GET /api/reunion/classes.
func (h *Handler) ListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.queries.ListClasses(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list classes")
		return
	}
	WriteSuccess(w, classes, nil)
}

// GetClass handles GET /api/reunion/classes/{slug} and includes the roster.
func (h *Handler) GetClass(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	class, err := h.queries.GetClassBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "class not found")
		} else {
			WriteInternalError(w, "Failed to load class")
		}
		return
	}

	alumni, err := h.queries.ListAlumniByClass(ctx, class.ID)
	if err != nil {
		WriteInternalError(w, "Failed to load roster")
		return
	}
	WriteSuccess(w, ClassResponse{Class: class, Alumni: alumni}, nil)
}

// AdminCreateClass handles POST /api/admin/reunion/classes.
func (h *Handler) AdminCreateClass(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	var req ClassRequest
	if !decodeJSON(w, r, &req) {
		return
	}
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
		return
	}

	class, err := h.queries.CreateClass(r.Context(), store.CreateClassParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: util.NullStringFromValue(req.Description),
		TeacherName: util.NullStringFromValue(req.TeacherName),
		SortOrder:   req.SortOrder,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to create class")
		return
	}
	h.recordActivity(r.Context(), access, model.ActivityCategoryReunion,
		"class.created", "class", class.ID, map[string]any{"slug": class.Slug}, r)
	WriteCreated(w, class)
}

// AdminUpdateClass handles PUT /api/admin/reunion/classes/{id}.
func (h *Handler) AdminUpdateClass(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccess(w, r); !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid class ID", nil)
		return
	}
	var req ClassRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Name)
	}

	class, err := h.queries.UpdateClass(r.Context(), store.UpdateClassParams{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: util.NullStringFromValue(req.Description),
		TeacherName: util.NullStringFromValue(req.TeacherName),
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "class not found")
		} else {
			WriteInternalError(w, "Failed to update class")
		}
		return
	}
	WriteSuccess(w, class, nil)
}

// AdminDeleteClass handles DELETE /api/admin/reunion/classes/{id}.
// Deleting a class cascades to its roster entries.
func (h *Handler) AdminDeleteClass(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid class ID", nil)
		return
	}
	if err := h.queries.DeleteClass(r.Context(), id); err != nil {
		WriteInternalError(w, "Failed to delete class")
		return
	}
	h.recordActivity(r.Context(), access, model.ActivityCategoryReunion,
		"class.deleted", "class", id, nil, r)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// AlumnusRequest is the payload for roster entries.
type AlumnusRequest struct {
	ClassID    int64  `json:"class_id"`
	FullName   string `json:"full_name"`
	Nickname   string `json:"nickname,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	City       string `json:"city,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// SearchAlumni handles GET /api/reunion/alumni?q=.
func (h *Handler) SearchAlumni(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		WriteBadRequest(w, "q query parameter required", nil)
		return
	}
	results, err := h.queries.SearchAlumni(r.Context(), q, 50)
	if err != nil {
		WriteInternalError(w, "Search failed")
		return
	}
	WriteSuccess(w, results, nil)
}

// AdminCreateAlumnus handles POST /api/admin/reunion/alumni.
func (h *Handler) AdminCreateAlumnus(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccess(w, r); !ok {
		return
	}
	var req AlumnusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v := validate.New().
		Required("full_name", req.FullName).
		MaxLen("full_name", req.FullName, validate.MaxNameLen).
		Check(req.ClassID > 0, "class_id", "is required")
	if v.Err() != nil {
		WriteValidationError(w, v.Fields())
		return
	}

	alumnus, err := h.queries.CreateAlumnus(r.Context(), store.CreateAlumnusParams{
		ClassID:    req.ClassID,
		FullName:   req.FullName,
		Nickname:   util.NullStringFromValue(req.Nickname),
		Occupation: util.NullStringFromValue(req.Occupation),
		City:       util.NullStringFromValue(req.City),
		AvatarURL:  util.NullStringFromValue(req.AvatarURL),
		CreatedAt:  time.Now(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to create roster entry")
		return
	}
	WriteCreated(w, alumnus)
}

// AdminUpdateAlumnus handles PUT /api/admin/reunion/alumni/{id}.
func (h *Handler) AdminUpdateAlumnus(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccess(w, r); !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid roster entry ID", nil)
		return
	}
	var req AlumnusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	alumnus, err := h.queries.UpdateAlumnus(r.Context(), store.UpdateAlumnusParams{
		ID:         id,
		ClassID:    req.ClassID,
		FullName:   req.FullName,
		Nickname:   util.NullStringFromValue(req.Nickname),
		Occupation: util.NullStringFromValue(req.Occupation),
		City:       util.NullStringFromValue(req.City),
		AvatarURL:  util.NullStringFromValue(req.AvatarURL),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "roster entry not found")
		} else {
			WriteInternalError(w, "Failed to update roster entry")
		}
		return
	}
	WriteSuccess(w, alumnus, nil)
}

// AdminDeleteAlumnus handles DELETE /api/admin/reunion/alumni/{id}.
func (h *Handler) AdminDeleteAlumnus(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccess(w, r); !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid roster entry ID", nil)
		return
	}
	if err := h.queries.DeleteAlumnus(r.Context(), id); err != nil {
		WriteInternalError(w, "Failed to delete roster entry")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// GalleryImageRequest is the payload for gallery entries.
type GalleryImageRequest struct {
	ClassID   *int64 `json:"class_id,omitempty"`
	URL       string `json:"url"`
	Caption   string `json:"caption,omitempty"`
	SortOrder int64  `json:"sort_order"`
}

// ListGallery handles GET /api/reunion/gallery with optional ?class_id=.
func (h *Handler) ListGallery(w http.ResponseWriter, r *http.Request) {
	var classFilter sql.NullInt64
	if raw := r.URL.Query().Get("class_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteBadRequest(w, "Invalid class ID", nil)
			return
		}
		classFilter = sql.NullInt64{Int64: id, Valid: true}
	}
	images, err := h.queries.ListGalleryImages(r.Context(), classFilter)
	if err != nil {
		WriteInternalError(w, "Failed to list gallery")
		return
	}
	WriteSuccess(w, images, nil)
}

// AdminCreateGalleryImage handles POST /api/admin/reunion/gallery.
func (h *Handler) AdminCreateGalleryImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccess(w, r); !ok {
		return
	}
	var req GalleryImageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.URL == "" {
		WriteValidationError(w, map[string]string{"url": "is required"})
		return
	}

	image, err := h.queries.CreateGalleryImage(r.Context(), store.CreateGalleryImageParams{
		ClassID:   util.NullInt64FromPtr(req.ClassID),
		URL:       req.URL,
		Caption:   util.NullStringFromValue(req.Caption),
		SortOrder: req.SortOrder,
		CreatedAt: time.Now(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to create gallery entry")
		return
	}
	WriteCreated(w, image)
}

// AdminDeleteGalleryImage handles DELETE /api/admin/reunion/gallery/{id}.
func (h *Handler) AdminDeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccess(w, r); !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid gallery entry ID", nil)
		return
	}
	if err := h.queries.DeleteGalleryImage(r.Context(), id); err != nil {
		WriteInternalError(w, "Failed to delete gallery entry")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// GuestbookRequest is the public payload for signing the guestbook.
type GuestbookRequest struct {
	AuthorName string `json:"author_name"`
	ClassName  string `json:"class_name,omitempty"`
	Message    string `json:"message"`
}

// ListGuestbook handles GET /api/reunion/guestbook. Only approved entries
// are shown to the public.
func (h *Handler) ListGuestbook(w http.ResponseWriter, r *http.Request) {
	entries, err := h.queries.ListGuestbookEntries(r.Context(), true)
	if err != nil {
		WriteInternalError(w, "Failed to list guestbook")
		return
	}
	WriteSuccess(w, entries, nil)
}

// SignGuestbook handles POST /api/reunion/guestbook. New entries start
// unapproved and stay hidden until an editor approves them.
func (h *Handler) SignGuestbook(w http.ResponseWriter, r *http.Request) {
	var req GuestbookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v := validate.New().
		Required("author_name", req.AuthorName).
		MaxLen("author_name", req.AuthorName, validate.MaxNameLen).
		Required("message", req.Message).
		MaxLen("message", req.Message, validate.MaxMessageLen)
	if v.Err() != nil {
		WriteValidationError(w, v.Fields())
		return
	}

	entry, err := h.queries.CreateGuestbookEntry(r.Context(),
		req.AuthorName,
		util.NullStringFromValue(req.ClassName),
		validate.SanitizeHTML(req.Message),
		time.Now())
	if err != nil {
		WriteInternalError(w, "Failed to sign guestbook")
		return
	}
	WriteCreated(w, entry)
}

// AdminListGuestbook handles GET /api/admin/reunion/guestbook and includes
// entries still awaiting moderation.
func (h *Handler) AdminListGuestbook(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccess(w, r); !ok {
		return
	}
	entries, err := h.queries.ListGuestbookEntries(r.Context(), false)
	if err != nil {
		WriteInternalError(w, "Failed to list guestbook")
		return
	}
	WriteSuccess(w, entries, nil)
}

// AdminApproveGuestbookEntry handles POST /api/admin/reunion/guestbook/{id}/approve.
func (h *Handler) AdminApproveGuestbookEntry(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid guestbook entry ID", nil)
		return
	}
	if err := h.queries.ApproveGuestbookEntry(r.Context(), id); err != nil {
		WriteInternalError(w, "Failed to approve entry")
		return
	}
	h.recordActivity(r.Context(), access, model.ActivityCategoryReunion,
		"guestbook.approved", "guestbook", id, nil, r)
	WriteSuccess(w, map[string]string{"status": "approved"}, nil)
}

// AdminDeleteGuestbookEntry handles DELETE /api/admin/reunion/guestbook/{id}.
func (h *Handler) AdminDeleteGuestbookEntry(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccess(w, r); !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid guestbook entry ID", nil)
		return
	}
	if err := h.queries.DeleteGuestbookEntry(r.Context(), id); err != nil {
		WriteInternalError(w, "Failed to delete entry")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// EventItemRequest is the payload for programme rows.
type EventItemRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	StartsAt    *string `json:"starts_at,omitempty"`
	Location    string  `json:"location,omitempty"`
	SortOrder   int64   `json:"sort_order"`
}

// ListEventSchedule handles GET /api/reunion/schedule.
func (h *Handler) ListEventSchedule(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListEventItems(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list schedule")
		return
	}
	WriteSuccess(w, items, nil)
}

func (h *Handler) eventItemFromRequest(w http.ResponseWriter, req EventItemRequest) (store.CreateEventItemParams, bool) {
	var startsAt sql.NullTime
	if req.StartsAt != nil && *req.StartsAt != "" {
		t, err := time.Parse(time.RFC3339, *req.StartsAt)
		if err != nil {
			WriteValidationError(w, map[string]string{"starts_at": "must be an RFC 3339 timestamp"})
			return store.CreateEventItemParams{}, false
		}
		startsAt = sql.NullTime{Time: t, Valid: true}
	}
	if req.Title == "" {
		WriteValidationError(w, map[string]string{"title": "is required"})
		return store.CreateEventItemParams{}, false
	}
	return store.CreateEventItemParams{
		Title:       req.Title,
		Description: util.NullStringFromValue(req.Description),
		StartsAt:    startsAt,
		Location:    util.NullStringFromValue(req.Location),
		SortOrder:   req.SortOrder,
		CreatedAt:   time.Now(),
	}, true
}

// AdminCreateEventItem handles POST /api/admin/reunion/schedule.
func (h *Handler) AdminCreateEventItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccess(w, r); !ok {
		return
	}
	var req EventItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	params, ok := h.eventItemFromRequest(w, req)
	if !ok {
		return
	}
	item, err := h.queries.CreateEventItem(r.Context(), params)
	if err != nil {
		WriteInternalError(w, "Failed to create programme item")
		return
	}
	WriteCreated(w, item)
}

// AdminUpdateEventItem handles PUT /api/admin/reunion/schedule/{id}.
func (h *Handler) AdminUpdateEventItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccess(w, r); !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid programme item ID", nil)
		return
	}
	var req EventItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	params, ok := h.eventItemFromRequest(w, req)
	if !ok {
		return
	}
	item, err := h.queries.UpdateEventItem(r.Context(), store.UpdateEventItemParams{
		ID:          id,
		Title:       params.Title,
		Description: params.Description,
		StartsAt:    params.StartsAt,
		Location:    params.Location,
		SortOrder:   params.SortOrder,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "programme item not found")
		} else {
			WriteInternalError(w, "Failed to update programme item")
		}
		return
	}
	WriteSuccess(w, item, nil)
}

// AdminDeleteEventItem handles DELETE /api/admin/reunion/schedule/{id}.
func (h *Handler) AdminDeleteEventItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccess(w, r); !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid programme item ID", nil)
		return
	}
	if err := h.queries.DeleteEventItem(r.Context(), id); err != nil {
		WriteInternalError(w, "Failed to delete programme item")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// CountdownResponse is the payload for GET /api/reunion/countdown.
type CountdownResponse struct {
	Title     string `json:"title,omitempty"`
	Venue     string `json:"venue,omitempty"`
	EventDate string `json:"event_date"`
	Days      int64  `json:"days"`
	Hours     int64  `json:"hours"`
	Minutes   int64  `json:"minutes"`
	Seconds   int64  `json:"seconds"`
	Past      bool   `json:"past"`
}

// Countdown handles GET /api/reunion/countdown. The event metadata lives
// in the reunion_event site setting.
func (h *Handler) Countdown(w http.ResponseWriter, r *http.Request) {
	setting, err := h.queries.GetSetting(r.Context(), reunionEventSettingKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "reunion event not configured")
		} else {
			WriteInternalError(w, "Failed to load event settings")
		}
		return
	}

	var event struct {
		Title string `json:"title"`
		Venue string `json:"venue"`
		Date  string `json:"date"`
	}
	if err := json.Unmarshal([]byte(setting.Value), &event); err != nil {
		WriteInternalError(w, "Malformed event settings")
		return
	}
	eventTime, err := time.Parse(time.RFC3339, event.Date)
	if err != nil {
		WriteInternalError(w, "Malformed event date")
		return
	}

	resp := CountdownResponse{
		Title:     event.Title,
		Venue:     event.Venue,
		EventDate: event.Date,
	}
	remaining := time.Until(eventTime)
	if remaining <= 0 {
		resp.Past = true
	} else {
		resp.Days = int64(remaining / (24 * time.Hour))
		remaining -= time.Duration(resp.Days) * 24 * time.Hour
		resp.Hours = int64(remaining / time.Hour)
		remaining -= time.Duration(resp.Hours) * time.Hour
		resp.Minutes = int64(remaining / time.Minute)
		remaining -= time.Duration(resp.Minutes) * time.Minute
		resp.Seconds = int64(remaining / time.Second)
	}
	WriteSuccess(w, resp, nil)
}
