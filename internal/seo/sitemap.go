// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqAlways  ChangeFreq = "always"
	ChangeFreqHourly  ChangeFreq = "hourly"
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
	ChangeFreqNever   ChangeFreq = "never"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapEntry contains the data needed to add a content URL.
type SitemapEntry struct {
	Slug      string
	UpdatedAt time.Time
}

// SitemapBuilder assembles the sitemap document URL by URL.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a builder rooted at the given site URL.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: siteURL,
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the homepage entry.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL,
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddStaticPage adds a static page at the given path with an explicit
// priority.
func (b *SitemapBuilder) AddStaticPage(path, priority string) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + path,
		ChangeFreq: ChangeFreqMonthly,
		Priority:   priority,
	})
}

// AddCategory adds a category archive page.
func (b *SitemapBuilder) AddCategory(cat SitemapEntry) {
	url := SitemapURL{
		Loc:        b.siteURL + "/blog/category/" + cat.Slug,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.7",
	}
	if !cat.UpdatedAt.IsZero() {
		url.LastMod = cat.UpdatedAt.Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddCategories adds multiple category archives.
func (b *SitemapBuilder) AddCategories(categories []SitemapEntry) {
	for _, c := range categories {
		b.AddCategory(c)
	}
}

// AddPost adds a published post page.
func (b *SitemapBuilder) AddPost(post SitemapEntry) {
	url := SitemapURL{
		Loc:        b.siteURL + "/blog/" + post.Slug,
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.6",
	}
	if !post.UpdatedAt.IsZero() {
		url.LastMod = post.UpdatedAt.Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddPosts adds multiple post pages.
func (b *SitemapBuilder) AddPosts(posts []SitemapEntry) {
	for _, p := range posts {
		b.AddPost(p)
	}
}

// Build generates the sitemap XML with the standard header.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}
