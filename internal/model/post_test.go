// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"testing"
	"time"
)

func TestPostState(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name string
		post Post
		want string
	}{
		{
			"published",
			Post{IsPublished: true, PublishedAt: sql.NullTime{Time: past, Valid: true}},
			PostStatePublished,
		},
		{
			"scheduled",
			Post{ScheduledAt: sql.NullTime{Time: future, Valid: true}},
			PostStateScheduled,
		},
		{
			"draft no schedule",
			Post{},
			PostStateDraft,
		},
		{
			// A past schedule that the sweeper has not picked up yet still
			// reads as draft, never as scheduled.
			"draft past schedule",
			Post{ScheduledAt: sql.NullTime{Time: past, Valid: true}},
			PostStateDraft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.post.State(now); got != tt.want {
				t.Errorf("State() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPostStateExclusive(t *testing.T) {
	// Exactly one state holds for any combination of fields.
	now := time.Now()
	posts := []Post{
		{},
		{IsPublished: true},
		{ScheduledAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true}},
		{ScheduledAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true}},
	}
	for i, p := range posts {
		state := p.State(now)
		if state != PostStateDraft && state != PostStateScheduled && state != PostStatePublished {
			t.Errorf("post %d: unknown state %q", i, state)
		}
	}
}

func TestTagList(t *testing.T) {
	tests := []struct {
		name string
		tags string
		want []string
	}{
		{"empty", "", []string{}},
		{"empty array", "[]", []string{}},
		{"values", `["tin-tuc","hop-lop"]`, []string{"tin-tuc", "hop-lop"}},
		{"malformed", "{oops", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Post{Tags: tt.tags}
			got := p.TagList()
			if len(got) != len(tt.want) {
				t.Fatalf("TagList() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("TagList()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEncodeTags(t *testing.T) {
	if got := EncodeTags(nil); got != "[]" {
		t.Errorf("EncodeTags(nil) = %q, want []", got)
	}
	if got := EncodeTags([]string{"a", "b"}); got != `["a","b"]` {
		t.Errorf("EncodeTags = %q", got)
	}
}

func TestEffectiveMetaTitle(t *testing.T) {
	p := Post{Title: "Post Title"}
	if got := p.EffectiveMetaTitle(); got != "Post Title" {
		t.Errorf("EffectiveMetaTitle() = %q, want title fallback", got)
	}
	p.MetaTitle = sql.NullString{String: "Meta Title", Valid: true}
	if got := p.EffectiveMetaTitle(); got != "Meta Title" {
		t.Errorf("EffectiveMetaTitle() = %q, want %q", got, "Meta Title")
	}
}
