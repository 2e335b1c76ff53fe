// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"time"

	"reunioncms/internal/linkcheck"
	"reunioncms/internal/model"
	"reunioncms/internal/seo"
	"reunioncms/internal/store"
	"reunioncms/internal/util"
)

// sitemapCacheKey and sitemapCacheTTL control sitemap caching. The cached
// document is dropped on every post write and after each publishing sweep,
// so the TTL only bounds staleness from out-of-band changes.
const (
	sitemapCacheKey = "sitemap"
	sitemapCacheTTL = 10 * time.Minute
	sitemapMaxPosts = 10000
)

// invalidateSitemap drops the cached sitemap after a content change.
func (h *Handler) invalidateSitemap(ctx context.Context) {
	if err := h.cache.Delete(ctx, sitemapCacheKey); err != nil {
		h.logger.Warn("failed to invalidate sitemap cache", "error", err)
	}
}

// Sitemap handles GET /sitemap.xml. The document covers the homepage, the
// reunion microsite pages, blog categories and published posts.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, err := h.cache.Get(ctx, sitemapCacheKey); err == nil {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		_, _ = w.Write(cached)
		return
	}

	builder := seo.NewSitemapBuilder(h.cfg.SiteURL)
	builder.AddHomepage()
	for _, path := range []string{"/classes", "/gallery", "/guestbook", "/schedule"} {
		builder.AddStaticPage(path, "0.8")
	}

	categories, err := h.queries.ListCategories(ctx, sql.NullInt64{})
	if err != nil {
		WriteInternalError(w, "Failed to build sitemap")
		return
	}
	for _, cat := range categories {
		builder.AddCategory(seo.SitemapEntry{Slug: cat.Slug, UpdatedAt: cat.UpdatedAt})
	}

	posts, err := h.queries.ListPublishedPosts(ctx, store.ListPublishedPostsParams{Limit: sitemapMaxPosts})
	if err != nil {
		WriteInternalError(w, "Failed to build sitemap")
		return
	}
	for _, post := range posts {
		builder.AddPost(seo.SitemapEntry{Slug: post.Slug, UpdatedAt: post.UpdatedAt})
	}

	doc, err := builder.Build()
	if err != nil {
		WriteInternalError(w, "Failed to build sitemap")
		return
	}
	_ = h.cache.Set(ctx, sitemapCacheKey, doc, sitemapCacheTTL)

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(doc)
}

// SEOAudit handles GET /api/admin/seo-audit and scores every post visible
// to the caller against the content rubric.
func (h *Handler) SEOAudit(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	posts, err := h.queries.ListAllPosts(r.Context(), access.TenantFilter())
	if err != nil {
		WriteInternalError(w, "Failed to load posts")
		return
	}

	reports := make([]seo.Report, 0, len(posts))
	for i := range posts {
		// Markdown bodies are scored on their rendered HTML so word
		// counts and link checks see what readers see.
		posts[i].Body = renderedBody(posts[i])
		reports = append(reports, seo.Score(&posts[i]))
	}
	WriteSuccess(w, reports, nil)
}

// PostLinks describes the links extracted from one post body.
type PostLinks struct {
	PostID   int64            `json:"post_id"`
	Slug     string           `json:"slug"`
	Internal []linkcheck.Link `json:"internal"`
	External []linkcheck.Link `json:"external"`
}

// Links handles GET /api/admin/links and lists the outbound links of
// every post visible to the caller, split internal/external.
func (h *Handler) Links(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	posts, err := h.queries.ListAllPosts(r.Context(), access.TenantFilter())
	if err != nil {
		WriteInternalError(w, "Failed to load posts")
		return
	}

	siteHost := h.siteHost()
	out := make([]PostLinks, 0, len(posts))
	for _, post := range posts {
		links := linkcheck.ExtractLinks(renderedBody(post), siteHost)
		entry := PostLinks{
			PostID:   post.ID,
			Slug:     post.Slug,
			Internal: []linkcheck.Link{},
			External: []linkcheck.Link{},
		}
		for _, link := range links {
			if link.External {
				entry.External = append(entry.External, link)
			} else {
				entry.Internal = append(entry.Internal, link)
			}
		}
		out = append(out, entry)
	}
	WriteSuccess(w, out, nil)
}

// CheckLinkRequest is the payload for POST /api/admin/check-link.
type CheckLinkRequest struct {
	URL string `json:"url"`
}

// CheckLink handles GET and POST /api/admin/check-link and probes one external
// URL. Private and loopback targets are rejected before any request goes
// out.
func (h *Handler) CheckLink(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccess(w, r); !ok {
		return
	}
	// Simple clients pass the target as GET ?url=; tooling POSTs a JSON body.
	var target string
	if r.Method == http.MethodGet {
		target = r.URL.Query().Get("url")
	} else {
		var req CheckLinkRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		target = req.URL
	}
	if err := util.ValidateCheckURL(target); err != nil {
		WriteValidationError(w, map[string]string{"url": err.Error()})
		return
	}
	WriteSuccess(w, h.checker.Check(r.Context(), target), nil)
}

// BrokenLinkReport is the outcome of auditing one post's links.
type BrokenLinkReport struct {
	PostID   int64                   `json:"post_id"`
	Slug     string                  `json:"slug"`
	Internal []InternalLinkResult    `json:"internal"`
	External []linkcheck.CheckResult `json:"external"`
}

// InternalLinkResult reports whether an internal link resolves to a
// published post or known page.
type InternalLinkResult struct {
	URL string `json:"url"`
	OK  bool   `json:"ok"`
}

// CheckPostLinks handles POST /api/admin/posts/{id}/check-links. Internal
// links are resolved against the store; external ones are probed serially.
func (h *Handler) CheckPostLinks(w http.ResponseWriter, r *http.Request) {
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

	report := BrokenLinkReport{
		PostID:   post.ID,
		Slug:     post.Slug,
		Internal: []InternalLinkResult{},
		External: []linkcheck.CheckResult{},
	}

	var externalURLs []string
	for _, link := range linkcheck.ExtractLinks(renderedBody(post), h.siteHost()) {
		if link.External {
			if util.ValidateCheckURL(link.URL) == nil {
				externalURLs = append(externalURLs, link.URL)
			}
			continue
		}
		slug := linkcheck.InboundSlug(link.URL)
		okInternal := slug == "" // non-post internal pages are not resolved
		if slug != "" {
			_, err := h.queries.GetPublishedPostBySlug(ctx, slug, access.TenantFilter())
			okInternal = err == nil
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				WriteInternalError(w, "Failed to resolve internal link")
				return
			}
		}
		report.Internal = append(report.Internal, InternalLinkResult{URL: link.URL, OK: okInternal})
	}

	report.External = h.checker.CheckAll(ctx, externalURLs)
	WriteSuccess(w, report, nil)
}

// siteHost returns the host portion of the configured site URL for
// internal/external link classification.
func (h *Handler) siteHost() string {
	u, err := url.Parse(h.cfg.SiteURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
