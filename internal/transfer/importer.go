// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"reunioncms/internal/model"
	"reunioncms/internal/scope"
	"reunioncms/internal/store"
	"reunioncms/internal/util"
)

// Importer writes backup documents into the store.
type Importer struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewImporter creates an Importer.
func NewImporter(queries *store.Queries, logger *slog.Logger) *Importer {
	return &Importer{queries: queries, logger: logger}
}

// ImportFromReader decodes a backup JSON document and imports it.
func (i *Importer) ImportFromReader(ctx context.Context, access scope.Access, r io.Reader) (ImportResult, error) {
	var backup Backup
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return ImportResult{}, fmt.Errorf("decoding backup: %w", err)
	}
	return i.Import(ctx, access, &backup)
}

// Import upserts the backup contents. Rows are keyed by slug (posts,
// categories, tags), section_id (page content) or key (settings), so
// repeating an import updates in place instead of duplicating. Rows land
// in the caller's tenant; a super admin import writes platform-wide rows.
func (i *Importer) Import(ctx context.Context, access scope.Access, backup *Backup) (ImportResult, error) {
	if backup.Meta.App != "" && backup.Meta.App != "reunioncms" {
		return ImportResult{}, fmt.Errorf("unrecognized backup source: %q", backup.Meta.App)
	}

	var result ImportResult
	now := time.Now().UTC()
	tenant := access.StampTenant(sql.NullInt64{})

	categoryIDBySlug := make(map[string]int64)
	for _, c := range backup.Categories {
		slug := c.Slug
		if slug == "" {
			slug = util.Slugify(c.Name)
		}
		existing, err := i.queries.GetCategoryBySlug(ctx, slug, tenant)
		switch {
		case err == nil:
			updated, err := i.queries.UpdateCategory(ctx, store.UpdateCategoryParams{
				ID:          existing.ID,
				Name:        c.Name,
				Slug:        slug,
				Description: util.NullStringFromValue(c.Description),
				UpdatedAt:   now,
			})
			if err != nil {
				return result, fmt.Errorf("updating category %q: %w", slug, err)
			}
			categoryIDBySlug[slug] = updated.ID
		case err == sql.ErrNoRows:
			created, err := i.queries.CreateCategory(ctx, store.CreateCategoryParams{
				TenantID:    tenant,
				Name:        c.Name,
				Slug:        slug,
				Description: util.NullStringFromValue(c.Description),
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			if err != nil {
				return result, fmt.Errorf("creating category %q: %w", slug, err)
			}
			categoryIDBySlug[slug] = created.ID
		default:
			return result, fmt.Errorf("looking up category %q: %w", slug, err)
		}
		result.Categories++
	}

	existingTags, err := i.queries.ListTags(ctx, tenant)
	if err != nil {
		return result, fmt.Errorf("listing tags: %w", err)
	}
	tagIDBySlug := make(map[string]int64, len(existingTags))
	for _, t := range existingTags {
		tagIDBySlug[t.Slug] = t.ID
	}
	for _, t := range backup.Tags {
		slug := t.Slug
		if slug == "" {
			slug = util.Slugify(t.Name)
		}
		if id, ok := tagIDBySlug[slug]; ok {
			if _, err := i.queries.UpdateTag(ctx, store.UpdateTagParams{
				ID:          id,
				Name:        t.Name,
				Slug:        slug,
				Description: util.NullStringFromValue(t.Description),
				UpdatedAt:   now,
			}); err != nil {
				return result, fmt.Errorf("updating tag %q: %w", slug, err)
			}
		} else {
			created, err := i.queries.CreateTag(ctx, store.CreateTagParams{
				TenantID:    tenant,
				Name:        t.Name,
				Slug:        slug,
				Description: util.NullStringFromValue(t.Description),
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			if err != nil {
				return result, fmt.Errorf("creating tag %q: %w", slug, err)
			}
			tagIDBySlug[slug] = created.ID
		}
		result.Tags++
	}

	for _, p := range backup.Posts {
		slug := p.Slug
		if slug == "" {
			slug = util.Slugify(p.Title)
		}
		bodyFormat := p.BodyFormat
		if bodyFormat == "" {
			bodyFormat = model.BodyFormatHTML
		}
		createdAt := p.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}

		arg := store.UpsertPostParams{
			TenantID:         tenant,
			Title:            p.Title,
			Slug:             slug,
			Body:             p.Body,
			BodyFormat:       bodyFormat,
			Excerpt:          p.Excerpt,
			FeaturedImage:    util.NullStringFromValue(p.FeaturedImage),
			FeaturedImageAlt: util.NullStringFromValue(p.FeaturedImageAlt),
			Tags:             model.EncodeTags(p.Tags),
			Author:           util.NullStringFromValue(p.Author),
			MetaTitle:        util.NullStringFromValue(p.MetaTitle),
			MetaDescription:  util.NullStringFromValue(p.MetaDescription),
			IsPublished:      p.IsPublished,
			PublishedAt:      util.NullTimeFromPtr(p.PublishedAt),
			ScheduledAt:      util.NullTimeFromPtr(p.ScheduledAt),
			CreatedAt:        createdAt,
			UpdatedAt:        now,
		}
		if p.Category != "" {
			if id, ok := categoryIDBySlug[p.Category]; ok {
				arg.CategoryID = sql.NullInt64{Int64: id, Valid: true}
			} else if existing, err := i.queries.GetCategoryBySlug(ctx, p.Category, tenant); err == nil {
				arg.CategoryID = sql.NullInt64{Int64: existing.ID, Valid: true}
			}
		}

		if _, err := i.queries.UpsertPost(ctx, arg); err != nil {
			return result, fmt.Errorf("importing post %q: %w", slug, err)
		}
		result.Posts++
	}

	for _, sc := range backup.ScheduledContent {
		scType := sc.Type
		if scType == "" {
			scType = model.ScheduledTypeArticle
		}
		status := sc.Status
		if status == "" {
			status = model.ScheduledStatusDraft
		}
		if _, err := i.queries.CreateScheduledContent(ctx, store.CreateScheduledContentParams{
			TenantID:      tenant,
			Title:         sc.Title,
			Type:          scType,
			Status:        status,
			ScheduledDate: sc.ScheduledDate,
			Author:        sc.Author,
			Category:      sc.Category,
			Notes:         util.NullStringFromValue(sc.Notes),
			CreatedAt:     now,
			UpdatedAt:     now,
		}); err != nil {
			return result, fmt.Errorf("importing scheduled content %q: %w", sc.Title, err)
		}
		result.ScheduledContent++
	}

	for _, pc := range backup.PageContent {
		if pc.SectionID == "" {
			continue
		}
		data := pc.Data
		if data == "" {
			data = "{}"
		}
		if _, err := i.queries.UpsertPageContent(ctx, pc.SectionID, pc.PagePath, data, now); err != nil {
			return result, fmt.Errorf("importing page content %q: %w", pc.SectionID, err)
		}
		result.PageContent++
	}

	for _, s := range backup.SiteSettings {
		if s.Key == "" {
			continue
		}
		value := s.Value
		if value == "" {
			value = "null"
		}
		if err := i.queries.UpsertSetting(ctx, tenant, s.Key, value); err != nil {
			return result, fmt.Errorf("importing setting %q: %w", s.Key, err)
		}
		result.SiteSettings++
	}

	i.logger.Info("backup imported",
		"posts", result.Posts,
		"categories", result.Categories,
		"tags", result.Tags,
		"settings", result.SiteSettings,
	)
	return result, nil
}
