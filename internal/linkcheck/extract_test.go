// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package linkcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	body := `
		<p><a href="https://example.com/blog/other-post">internal post</a></p>
		<p><a href="https://other.org/page" rel="nofollow noopener">external</a></p>
		<p><a href="/about">relative</a></p>
		<p><a href="#section">anchor</a></p>
		<p><a href="mailto:a@b.c">mail</a></p>
		<p><a href="tel:+8412345">phone</a></p>
		<p><a href="javascript:void(0)">js</a></p>`

	links := ExtractLinks(body, "example.com")
	require.Len(t, links, 3)

	assert.Equal(t, "https://example.com/blog/other-post", links[0].URL)
	assert.Equal(t, "internal post", links[0].Text)
	assert.False(t, links[0].External)
	assert.False(t, links[0].NoFollow)

	assert.Equal(t, "https://other.org/page", links[1].URL)
	assert.True(t, links[1].External)
	assert.True(t, links[1].NoFollow)

	assert.Equal(t, "/about", links[2].URL)
	assert.False(t, links[2].External, "relative URLs are internal")
}

func TestExtractLinksPortedSiteHost(t *testing.T) {
	// A site served on a non-default port must still recognize absolute
	// links to itself as internal, whether or not the href carries the port.
	links := ExtractLinks(`
		<a href="http://localhost:8080/blog/my-post">with port</a>
		<a href="http://localhost/other">without port</a>
		<a href="https://other.org/page">elsewhere</a>`, "localhost:8080")
	require.Len(t, links, 3)
	assert.False(t, links[0].External, "link to own site must be internal")
	assert.False(t, links[1].External)
	assert.True(t, links[2].External)
}

func TestExtractLinksNestedMarkup(t *testing.T) {
	// Anchor text assembles from nested elements.
	links := ExtractLinks(`<a href="/x"><strong>bold</strong> text</a>`, "example.com")
	require.Len(t, links, 1)
	assert.Equal(t, "bold text", links[0].Text)
}

func TestExtractLinksEmptyAndMalformed(t *testing.T) {
	assert.Empty(t, ExtractLinks("", "example.com"))
	assert.Empty(t, ExtractLinks("<p>no links here</p>", "example.com"))
	// Unclosed tags still parse; extraction never panics.
	links := ExtractLinks(`<a href="/x">unclosed`, "example.com")
	assert.Len(t, links, 1)
}

func TestInboundSlug(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"https://example.com/blog/my-post", "my-post"},
		{"/blog/my-post", "my-post"},
		{"/blog/my-post/", "my-post"},
		{"/blog/", ""},
		{"/about", ""},
		{"/blog/a/b", ""},
		{"https://example.com/", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InboundSlug(tt.href), "href %q", tt.href)
	}
}
