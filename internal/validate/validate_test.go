// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorPasses(t *testing.T) {
	err := New().
		Required("title", "Hello").
		MaxLen("title", "Hello", MaxTitleLen).
		Slug("slug", "hello-world").
		Email("email", "admin@example.com").
		OneOf("role", "editor", "super_admin", "admin", "editor").
		Err()
	assert.NoError(t, err)
}

func TestValidatorCollectsFieldErrors(t *testing.T) {
	v := New().
		Required("title", "  ").
		Slug("slug", "Hello World!").
		Email("email", "not-an-email").
		MinLen("password", "short", MinPasswordLen)

	err := v.Err()
	require.Error(t, err)

	fields := v.Fields()
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "slug")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidatorKeepsFirstErrorPerField(t *testing.T) {
	v := New().
		Required("title", "").
		MaxLen("title", strings.Repeat("x", MaxTitleLen+1), MaxTitleLen)
	assert.Equal(t, "is required", v.Fields()["title"])
}

func TestTags(t *testing.T) {
	assert.NoError(t, New().Tags("tags", []string{"news", "reunion"}).Err())
	assert.Error(t, New().Tags("tags", []string{"ok", ""}).Err())
	assert.Error(t, New().Tags("tags", []string{strings.Repeat("x", MaxTagLen+1)}).Err())

	many := make([]string, MaxTagCount+1)
	for i := range many {
		many[i] = "t"
	}
	assert.Error(t, New().Tags("tags", many).Err())
}

func TestSanitizeHTML(t *testing.T) {
	dirty := `<p>ok</p><script>alert(1)</script><a href="javascript:x">x</a>`
	clean := SanitizeHTML(dirty)
	assert.Contains(t, clean, "<p>ok</p>")
	assert.NotContains(t, clean, "<script>")
	assert.NotContains(t, clean, "javascript:")
}
