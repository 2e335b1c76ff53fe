// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"reunioncms/internal/scope"
	"reunioncms/internal/store"
	"reunioncms/internal/version"
)

// Exporter builds backup documents from the store.
type Exporter struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewExporter creates an Exporter.
func NewExporter(queries *store.Queries, logger *slog.Logger) *Exporter {
	return &Exporter{queries: queries, logger: logger}
}

// Export collects the content visible to the caller into a Backup.
func (e *Exporter) Export(ctx context.Context, access scope.Access) (*Backup, error) {
	backup := &Backup{
		Meta: Meta{
			App:        version.App,
			Version:    version.Current.String(),
			ExportedAt: time.Now().UTC(),
		},
		Posts:            []ExportPost{},
		Categories:       []ExportTaxonomy{},
		Tags:             []ExportTaxonomy{},
		ScheduledContent: []ExportScheduledContent{},
		PageContent:      []ExportPageContent{},
		SiteSettings:     []ExportSetting{},
	}

	filter := access.TenantFilter()

	categories, err := e.queries.ListCategories(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("exporting categories: %w", err)
	}
	categoryslugByID := make(map[int64]string, len(categories))
	for _, c := range categories {
		categoryslugByID[c.ID] = c.Slug
		backup.Categories = append(backup.Categories, ExportTaxonomy{
			Name: c.Name, Slug: c.Slug, Description: c.Description.String,
		})
	}

	tags, err := e.queries.ListTags(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("exporting tags: %w", err)
	}
	for _, t := range tags {
		backup.Tags = append(backup.Tags, ExportTaxonomy{
			Name: t.Name, Slug: t.Slug, Description: t.Description.String,
		})
	}

	posts, err := e.queries.ListAllPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("exporting posts: %w", err)
	}
	for _, p := range posts {
		ep := ExportPost{
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
			IsPublished:      p.IsPublished,
			CreatedAt:        p.CreatedAt,
			UpdatedAt:        p.UpdatedAt,
		}
		if p.CategoryID.Valid {
			ep.Category = categoryslugByID[p.CategoryID.Int64]
		}
		if p.PublishedAt.Valid {
			t := p.PublishedAt.Time
			ep.PublishedAt = &t
		}
		if p.ScheduledAt.Valid {
			t := p.ScheduledAt.Time
			ep.ScheduledAt = &t
		}
		backup.Posts = append(backup.Posts, ep)
	}

	scheduled, err := e.queries.ListScheduledContent(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("exporting scheduled content: %w", err)
	}
	for _, sc := range scheduled {
		backup.ScheduledContent = append(backup.ScheduledContent, ExportScheduledContent{
			Title:         sc.Title,
			Type:          sc.Type,
			Status:        sc.Status,
			ScheduledDate: sc.ScheduledDate,
			Author:        sc.Author,
			Category:      sc.Category,
			Notes:         sc.Notes.String,
		})
	}

	settings, err := e.queries.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting settings: %w", err)
	}
	for _, s := range settings {
		backup.SiteSettings = append(backup.SiteSettings, ExportSetting{Key: s.Key, Value: s.Value})
	}

	// Page content is platform-wide; section IDs are global.
	blocks, err := e.listAllPageContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting page content: %w", err)
	}
	backup.PageContent = blocks

	e.logger.Info("backup exported",
		"posts", len(backup.Posts),
		"categories", len(backup.Categories),
		"tags", len(backup.Tags),
	)
	return backup, nil
}

func (e *Exporter) listAllPageContent(ctx context.Context) ([]ExportPageContent, error) {
	blocks := []ExportPageContent{}
	// Known page paths cover the public site surface.
	for _, path := range []string{"/", "/gallery", "/guestbook", "/schedule", "/classes"} {
		rows, err := e.queries.ListPageContentByPath(ctx, path)
		if err != nil {
			return nil, err
		}
		for _, pc := range rows {
			blocks = append(blocks, ExportPageContent{
				SectionID: pc.SectionID,
				PagePath:  pc.PagePath,
				Data:      pc.Data,
			})
		}
	}
	return blocks, nil
}

// ExportToWriter writes the backup as indented JSON.
func (e *Exporter) ExportToWriter(ctx context.Context, access scope.Access, w io.Writer) error {
	backup, err := e.Export(ctx, access)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(backup)
}
