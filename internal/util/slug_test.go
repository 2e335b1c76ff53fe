// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"vietnamese name", "Phạm Phú Thứ", "pham-phu-thu"},
		{"vietnamese d-bar", "Đặng Văn Độ", "dang-van-do"},
		{"vietnamese sentence", "Họp lớp 20 năm", "hop-lop-20-nam"},
		{"accents", "Café au Lait", "cafe-au-lait"},
		{"special chars", "Hello! @World# 2026", "hello-world-2026"},
		{"multiple spaces", "a    b", "a-b"},
		{"leading trailing", "  -hello-  ", "hello"},
		{"already slug", "pham-phu-thu", "pham-phu-thu"},
		{"empty", "", ""},
		{"only symbols", "!@#$%", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	// Same input must always produce the same slug.
	for i := 0; i < 10; i++ {
		if got := Slugify("Phạm Phú Thứ"); got != "pham-phu-thu" {
			t.Fatalf("Slugify not deterministic, got %q", got)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"hello", "hello-world", "post-123", "a"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "Hello", "hello world", "-hello", "hello-", "a--b", "héllo"}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}
