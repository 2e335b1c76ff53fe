// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
	"time"
)

func TestSitemapBuild(t *testing.T) {
	b := NewSitemapBuilder("https://example.com")
	b.AddHomepage()
	b.AddStaticPage("/gallery", "0.8")
	b.AddCategories([]SitemapEntry{{Slug: "news"}})
	b.AddPosts([]SitemapEntry{{
		Slug:      "reunion-recap",
		UpdatedAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	}})

	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	xml := string(out)

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		XMLNamespace,
		"<loc>https://example.com</loc>",
		"<loc>https://example.com/gallery</loc>",
		"<loc>https://example.com/blog/category/news</loc>",
		"<loc>https://example.com/blog/reunion-recap</loc>",
		"<lastmod>2026-06-01T12:00:00Z</lastmod>",
		"<priority>1.0</priority>",
		"<changefreq>weekly</changefreq>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}
}

func TestSitemapEmptyStillValid(t *testing.T) {
	out, err := NewSitemapBuilder("https://example.com").Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if !strings.Contains(string(out), "urlset") {
		t.Fatal("missing urlset element")
	}
}
