// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo provides the post audit score and the sitemap builder.
package seo

import (
	"strings"

	"golang.org/x/net/html"

	"reunioncms/internal/model"
)

// Issue is one scoring deduction with its advice text.
type Issue struct {
	Field   string `json:"field"`
	Penalty int    `json:"penalty"`
	Message string `json:"message"`
}

// Report is the audit result for one post.
type Report struct {
	PostID    int64   `json:"post_id"`
	Slug      string  `json:"slug"`
	Title     string  `json:"title"`
	Score     int     `json:"score"`
	WordCount int     `json:"word_count"`
	Issues    []Issue `json:"issues"`
}

// Score audits a post against the content rubric. The score starts at 100,
// each finding subtracts a fixed penalty, and the result is floored at 0.
// The same post always produces the same score.
func Score(post *model.Post) Report {
	r := Report{
		PostID: post.ID,
		Slug:   post.Slug,
		Title:  post.Title,
		Score:  100,
	}

	deduct := func(field string, penalty int, message string) {
		r.Score -= penalty
		r.Issues = append(r.Issues, Issue{Field: field, Penalty: penalty, Message: message})
	}

	titleLen := len([]rune(post.Title))
	switch {
	case titleLen < 10:
		deduct("title", 15, "title is shorter than 10 characters")
	case titleLen > 70:
		deduct("title", 10, "title is longer than 70 characters")
	}

	metaTitleLen := len([]rune(post.EffectiveMetaTitle()))
	switch {
	case metaTitleLen < 15:
		deduct("meta_title", 10, "meta title is shorter than 15 characters")
	case metaTitleLen > 60:
		deduct("meta_title", 5, "meta title is longer than 60 characters")
	}

	metaDesc := ""
	if post.MetaDescription.Valid {
		metaDesc = post.MetaDescription.String
	}
	metaDescLen := len([]rune(metaDesc))
	switch {
	case metaDescLen == 0:
		deduct("meta_description", 15, "meta description is missing")
	case metaDescLen < 50:
		deduct("meta_description", 10, "meta description is shorter than 50 characters")
	case metaDescLen > 160:
		deduct("meta_description", 5, "meta description is longer than 160 characters")
	}

	hasImage := post.FeaturedImage.Valid && post.FeaturedImage.String != ""
	if !hasImage {
		deduct("featured_image", 10, "post has no featured image")
	} else if !post.FeaturedImageAlt.Valid || post.FeaturedImageAlt.String == "" {
		deduct("featured_image_alt", 5, "featured image has no alt text")
	}

	if strings.TrimSpace(post.Excerpt) == "" {
		deduct("excerpt", 5, "post has no excerpt")
	}

	text := ExtractText(post.Body)
	r.WordCount = len(strings.Fields(text))
	switch {
	case r.WordCount < 100:
		deduct("body", 20, "body has fewer than 100 words")
	case r.WordCount < 300:
		deduct("body", 10, "body has fewer than 300 words")
	}

	if r.WordCount > 300 {
		lower := strings.ToLower(post.Body)
		if !strings.Contains(lower, "<h2") {
			deduct("body", 5, "long post has no H2 heading")
		}
		if !strings.Contains(lower, "<a ") && !strings.Contains(lower, "<a>") {
			deduct("body", 5, "long post has no links")
		}
	}

	if len(post.Slug) > 75 {
		deduct("slug", 5, "slug is longer than 75 characters")
	}

	if r.Score < 0 {
		r.Score = 0
	}
	return r
}

// ExtractText returns the visible text of an HTML fragment, with script
// and style contents dropped.
func ExtractText(fragment string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if tag := string(name); (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
				sb.WriteByte(' ')
			}
		}
	}
}
