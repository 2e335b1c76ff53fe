// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/yuin/goldmark"

	"reunioncms/internal/model"
	"reunioncms/internal/scope"
	"reunioncms/internal/service"
	"reunioncms/internal/store"
	"reunioncms/internal/util"
	"reunioncms/internal/validate"
)

// PostResponse represents a post in API responses.
type PostResponse struct {
	ID               int64      `json:"id"`
	TenantID         *int64     `json:"tenant_id,omitempty"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Body             string     `json:"body"`
	BodyFormat       string     `json:"body_format"`
	BodyHTML         string     `json:"body_html,omitempty"`
	Excerpt          string     `json:"excerpt,omitempty"`
	FeaturedImage    string     `json:"featured_image,omitempty"`
	FeaturedImageAlt string     `json:"featured_image_alt,omitempty"`
	CategoryID       *int64     `json:"category_id,omitempty"`
	Tags             []string   `json:"tags"`
	Author           string     `json:"author,omitempty"`
	MetaTitle        string     `json:"meta_title,omitempty"`
	MetaDescription  string     `json:"meta_description,omitempty"`
	State            string     `json:"state"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	ScheduledAt      *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// UpsertPostRequest is the payload for creating or replacing a post.
// Posts are keyed by (tenant, slug): submitting an existing slug replaces
// that post in place.
type UpsertPostRequest struct {
	Title            string   `json:"title"`
	Slug             string   `json:"slug,omitempty"`
	Body             string   `json:"body"`
	BodyFormat       string   `json:"body_format,omitempty"`
	Excerpt          string   `json:"excerpt,omitempty"`
	FeaturedImage    string   `json:"featured_image,omitempty"`
	FeaturedImageAlt string   `json:"featured_image_alt,omitempty"`
	CategoryID       *int64   `json:"category_id,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Author           string   `json:"author,omitempty"`
	MetaTitle        string   `json:"meta_title,omitempty"`
	MetaDescription  string   `json:"meta_description,omitempty"`
	IsPublished      bool     `json:"is_published"`
	ScheduledAt      *string  `json:"scheduled_at,omitempty"`
	TenantID         *int64   `json:"tenant_id,omitempty"`
}

func postToResponse(p model.Post, now time.Time) PostResponse {
	resp := PostResponse{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		Body:             p.Body,
		BodyFormat:       p.BodyFormat,
		Excerpt:          p.Excerpt,
		FeaturedImage:    p.FeaturedImage.String,
		FeaturedImageAlt: p.FeaturedImageAlt.String,
		Tags:             p.TagList(),
		Author:           p.Author.String,
		MetaTitle:        p.MetaTitle.String,
		MetaDescription:  p.MetaDescription.String,
		State:            p.State(now),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if p.TenantID.Valid {
		resp.TenantID = &p.TenantID.Int64
	}
	if p.CategoryID.Valid {
		resp.CategoryID = &p.CategoryID.Int64
	}
	resp.PublishedAt = util.TimePtrFromNull(p.PublishedAt)
	resp.ScheduledAt = util.TimePtrFromNull(p.ScheduledAt)
	if p.BodyFormat == model.BodyFormatMarkdown {
		resp.BodyHTML = renderedBody(p)
	}
	return resp
}

// renderedBody returns the post body as sanitized HTML. Markdown bodies
// are converted first; HTML bodies are stored sanitized and pass through.
func renderedBody(p model.Post) string {
	if p.BodyFormat != model.BodyFormatMarkdown {
		return p.Body
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(p.Body), &buf); err != nil {
		return ""
	}
	return validate.SanitizeHTML(buf.String())
}

func postsToResponses(posts []model.Post, now time.Time) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, postToResponse(p, now))
	}
	return out
}

// resolveTenantParam maps an optional ?tenant=<slug> query parameter to a
// tenant filter for public reads.
func (h *Handler) resolveTenantParam(ctx context.Context, w http.ResponseWriter, r *http.Request) (sql.NullInt64, bool) {
	slug := r.URL.Query().Get("tenant")
	if slug == "" {
		return sql.NullInt64{}, true
	}
	tenant, err := h.queries.GetTenantBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "tenant not found")
		} else {
			WriteInternalError(w, "Failed to resolve tenant")
		}
		return sql.NullInt64{}, false
	}
	return sql.NullInt64{Int64: tenant.ID, Valid: true}, true
}

// ListPosts handles GET /api/posts. Only published posts are returned;
// ?slug= fetches a single post, ?category= and ?tag= filter the listing.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()

	tenantFilter, ok := h.resolveTenantParam(ctx, w, r)
	if !ok {
		return
	}

	if slug := r.URL.Query().Get("slug"); slug != "" {
		post, err := h.queries.GetPublishedPostBySlug(ctx, slug, tenantFilter)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				WriteNotFound(w, "post not found")
			} else {
				WriteInternalError(w, "Failed to load post")
			}
			return
		}
		WriteSuccess(w, postToResponse(post, now), nil)
		return
	}

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 10, 50)

	params := store.ListPublishedPostsParams{
		TenantID: tenantFilter,
		Category: util.NullStringFromValue(r.URL.Query().Get("category")),
		Tag:      util.NullStringFromValue(r.URL.Query().Get("tag")),
		Limit:    int64(perPage),
		Offset:   int64((page - 1) * perPage),
	}

	posts, err := h.queries.ListPublishedPosts(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to list posts")
		return
	}
	total, err := h.queries.CountPublishedPosts(ctx, params)
	if err != nil {
		WriteInternalError(w, "Failed to count posts")
		return
	}

	WriteSuccess(w, postsToResponses(posts, now), &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pageCount(total, perPage),
	})
}

// AdminListPosts handles GET /api/admin/posts and returns every
// non-deleted post visible to the caller, drafts included.
func (h *Handler) AdminListPosts(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	posts, err := h.queries.ListAllPosts(r.Context(), access.TenantFilter())
	if err != nil {
		WriteInternalError(w, "Failed to list posts")
		return
	}
	WriteSuccess(w, postsToResponses(posts, time.Now()), nil)
}

// AdminGetPost handles GET /api/admin/posts/{id}.
func (h *Handler) AdminGetPost(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	post, ok := requireEntityByID(w, r, "post", func(id int64) (model.Post, error) {
		return h.queries.GetPostByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if !access.CanAccess(post.TenantID) {
		WriteNotFound(w, "post not found")
		return
	}
	WriteSuccess(w, postToResponse(post, time.Now()), nil)
}

// AdminUpsertPost handles POST /api/admin/posts. The slug defaults to a
// slugified title; an existing (tenant, slug) pair is replaced in place.
func (h *Handler) AdminUpsertPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	var req UpsertPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}
	if req.BodyFormat == "" {
		req.BodyFormat = model.BodyFormatHTML
	}

	v := validate.New().
		Required("title", req.Title).
		MaxLen("title", req.Title, validate.MaxTitleLen).
		Required("slug", req.Slug).
		Slug("slug", req.Slug).
		MaxLen("slug", req.Slug, validate.MaxSlugLen).
		Required("body", req.Body).
		OneOf("body_format", req.BodyFormat, model.BodyFormatHTML, model.BodyFormatMarkdown).
		Tags("tags", req.Tags)
	if err := v.Err(); err != nil {
		WriteValidationError(w, v.Fields())
		return
	}

	var scheduledAt sql.NullTime
	if req.ScheduledAt != nil && *req.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			WriteValidationError(w, map[string]string{"scheduled_at": "must be an RFC 3339 timestamp"})
			return
		}
		scheduledAt = sql.NullTime{Time: t, Valid: true}
	}
	if req.IsPublished && scheduledAt.Valid {
		WriteValidationError(w, map[string]string{"scheduled_at": "cannot schedule an already published post"})
		return
	}

	body := req.Body
	if req.BodyFormat == model.BodyFormatHTML {
		body = validate.SanitizeHTML(body)
	}

	now := time.Now()
	var publishedAt sql.NullTime
	if req.IsPublished {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}

	post, err := h.queries.UpsertPost(ctx, store.UpsertPostParams{
		TenantID:         access.StampTenant(util.NullInt64FromPtr(req.TenantID)),
		Title:            req.Title,
		Slug:             req.Slug,
		Body:             body,
		BodyFormat:       req.BodyFormat,
		Excerpt:          req.Excerpt,
		FeaturedImage:    util.NullStringFromValue(req.FeaturedImage),
		FeaturedImageAlt: util.NullStringFromValue(req.FeaturedImageAlt),
		CategoryID:       util.NullInt64FromPtr(req.CategoryID),
		Tags:             model.EncodeTags(req.Tags),
		Author:           util.NullStringFromValue(req.Author),
		MetaTitle:        util.NullStringFromValue(req.MetaTitle),
		MetaDescription:  util.NullStringFromValue(req.MetaDescription),
		IsPublished:      req.IsPublished,
		PublishedAt:      publishedAt,
		ScheduledAt:      scheduledAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to save post")
		return
	}

	h.invalidateSitemap(ctx)
	h.recordContentActivity(ctx, access, "post.saved", "post", post.ID, map[string]any{
		"slug":  post.Slug,
		"state": post.State(now),
	}, r)
	WriteCreated(w, postToResponse(post, now))
}

// AdminDeletePost handles DELETE /api/admin/posts/{id}. Posts are
// soft-deleted: the row survives but leaves every listing and lookup.
func (h *Handler) AdminDeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	post, ok := requireEntityByID(w, r, "post", func(id int64) (model.Post, error) {
		return h.queries.GetPostByID(ctx, id)
	})
	if !ok {
		return
	}
	if !access.CanAccess(post.TenantID) {
		WriteNotFound(w, "post not found")
		return
	}

	if err := h.queries.SoftDeletePost(ctx, post.ID, time.Now()); err != nil {
		WriteInternalError(w, "Failed to delete post")
		return
	}

	h.invalidateSitemap(ctx)
	h.recordContentActivity(ctx, access, "post.deleted", "post", post.ID,
		map[string]any{"slug": post.Slug}, r)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

func (h *Handler) recordContentActivity(ctx context.Context, access scope.Access, action, entityType string, entityID int64, details map[string]any, r *http.Request) {
	category := model.ActivityCategoryPost
	if entityType != "post" {
		category = model.ActivityCategoryConfig
	}
	h.recordActivity(ctx, access, category, action, entityType, entityID, details, r)
}

func (h *Handler) recordActivity(ctx context.Context, access scope.Access, category, action, entityType string, entityID int64, details map[string]any, r *http.Request) {
	if h.activity == nil {
		return
	}
	if err := h.activity.Record(ctx, service.RecordParams{
		Access:     access,
		Level:      model.ActivityLevelInfo,
		Category:   category,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IPAddress:  util.ClientIP(r),
		UserAgent:  r.UserAgent(),
	}); err != nil {
		h.logger.Error("failed to record activity", "action", action, "error", err)
	}
}
