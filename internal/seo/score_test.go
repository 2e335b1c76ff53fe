// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"database/sql"
	"strings"
	"testing"

	"reunioncms/internal/model"
)

func perfectPost() *model.Post {
	// 300+ words with an H2 and a link.
	body := "<h2>Section</h2><p>" + strings.Repeat("word ", 310) +
		`</p><p><a href="/blog/other">related</a></p>`
	return &model.Post{
		ID:               1,
		Title:            "A Perfectly Sized Post Title",
		Slug:             "a-perfectly-sized-post-title",
		Body:             body,
		Excerpt:          "A short summary of the post.",
		FeaturedImage:    sql.NullString{String: "/uploads/cover.jpg", Valid: true},
		FeaturedImageAlt: sql.NullString{String: "Cover photo", Valid: true},
		MetaTitle:        sql.NullString{String: "A Perfectly Sized Post Title", Valid: true},
		MetaDescription:  sql.NullString{String: strings.Repeat("Good description. ", 5), Valid: true},
	}
}

func TestScorePerfectPost(t *testing.T) {
	r := Score(perfectPost())
	if r.Score != 100 {
		t.Fatalf("perfect post scored %d, issues: %+v", r.Score, r.Issues)
	}
	if len(r.Issues) != 0 {
		t.Fatalf("perfect post has issues: %+v", r.Issues)
	}
	if r.WordCount < 300 {
		t.Fatalf("word count = %d, want >= 300", r.WordCount)
	}
}

func TestScoreDeterministic(t *testing.T) {
	post := perfectPost()
	post.Title = "Tiny"
	first := Score(post)
	for i := 0; i < 5; i++ {
		if got := Score(post); got.Score != first.Score {
			t.Fatalf("score changed between runs: %d vs %d", got.Score, first.Score)
		}
	}
}

func TestScorePenalties(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Post)
		want   int
	}{
		{"short title", func(p *model.Post) {
			p.Title = "Tiny"
			// Meta title stays valid, so only the title penalty applies.
		}, 85},
		{"long title", func(p *model.Post) {
			p.Title = strings.Repeat("t", 71)
		}, 90},
		{"missing meta description", func(p *model.Post) {
			p.MetaDescription = sql.NullString{}
		}, 85},
		{"short meta description", func(p *model.Post) {
			p.MetaDescription = sql.NullString{String: "Too short.", Valid: true}
		}, 90},
		{"long meta description", func(p *model.Post) {
			p.MetaDescription = sql.NullString{String: strings.Repeat("x", 161), Valid: true}
		}, 95},
		{"no featured image", func(p *model.Post) {
			p.FeaturedImage = sql.NullString{}
			p.FeaturedImageAlt = sql.NullString{}
		}, 90},
		{"image without alt", func(p *model.Post) {
			p.FeaturedImageAlt = sql.NullString{}
		}, 95},
		{"no excerpt", func(p *model.Post) {
			p.Excerpt = "  "
		}, 95},
		{"long post without h2 or links", func(p *model.Post) {
			p.Body = "<p>" + strings.Repeat("word ", 310) + "</p>"
		}, 90},
		{"long slug", func(p *model.Post) {
			p.Slug = strings.Repeat("a", 76)
		}, 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := perfectPost()
			tt.mutate(post)
			if got := Score(post); got.Score != tt.want {
				t.Fatalf("score = %d, want %d, issues: %+v", got.Score, tt.want, got.Issues)
			}
		})
	}
}

func TestScoreStructureChecksStartAbove300Words(t *testing.T) {
	post := perfectPost()
	post.Body = "<p>" + strings.Repeat("word ", 300) + "</p>"
	r := Score(post)
	if r.Score != 100 {
		t.Fatalf("300-word post scored %d, issues: %+v", r.Score, r.Issues)
	}

	post.Body = "<p>" + strings.Repeat("word ", 301) + "</p>"
	r = Score(post)
	if r.Score != 90 {
		t.Fatalf("301-word post without H2 or links scored %d, want 90, issues: %+v", r.Score, r.Issues)
	}
}

func TestScoreWorstCase(t *testing.T) {
	// Every penalty a short-bodied post can trigger: title, meta title,
	// meta description, featured image, excerpt, word count, slug.
	post := &model.Post{Title: "x", Slug: strings.Repeat("s", 80), Body: "short"}
	r := Score(post)
	if r.Score != 20 {
		t.Fatalf("worst-case post scored %d, want 20, issues: %+v", r.Score, r.Issues)
	}
	if len(r.Issues) != 7 {
		t.Fatalf("want 7 issues, got %d: %+v", len(r.Issues), r.Issues)
	}
	if r.Score < 0 || r.Score > 100 {
		t.Fatalf("score %d out of bounds", r.Score)
	}
}

func TestScoreShortBodyPenalty(t *testing.T) {
	post := perfectPost()
	post.Body = "<p>" + strings.Repeat("word ", 150) + "</p>"
	r := Score(post)
	// Only the under-300-words penalty; structure checks need 300+ words.
	if r.Score != 90 {
		t.Fatalf("score = %d, want 90, issues: %+v", r.Score, r.Issues)
	}
}

func TestExtractTextDropsScripts(t *testing.T) {
	text := ExtractText(`<p>visible</p><script>var hidden = 1;</script><style>.x{}</style>`)
	if !strings.Contains(text, "visible") {
		t.Fatal("visible text missing")
	}
	if strings.Contains(text, "hidden") || strings.Contains(text, ".x{}") {
		t.Fatalf("script/style content leaked: %q", text)
	}
}
