// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package linkcheck extracts links from post bodies and verifies external
// targets for the broken-link report.
package linkcheck

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Link is one anchor extracted from a post body.
type Link struct {
	URL      string `json:"url"`
	Text     string `json:"text"`
	External bool   `json:"external"`
	NoFollow bool   `json:"nofollow"`
}

// ExtractLinks parses an HTML fragment and returns its anchors. Fragment
// identifiers, mailto:, tel: and javascript: targets are skipped. siteHost
// decides internal versus external classification; relative URLs are always
// internal.
func ExtractLinks(fragment, siteHost string) []Link {
	links := make([]Link, 0)
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return links
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if link, ok := anchorLink(n, siteHost); ok {
				links = append(links, link)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

func anchorLink(n *html.Node, siteHost string) (Link, bool) {
	var href, rel string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "href":
			href = strings.TrimSpace(attr.Val)
		case "rel":
			rel = attr.Val
		}
	}

	if href == "" || strings.HasPrefix(href, "#") {
		return Link{}, false
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"mailto:", "tel:", "javascript:"} {
		if strings.HasPrefix(lower, scheme) {
			return Link{}, false
		}
	}

	return Link{
		URL:      href,
		Text:     strings.TrimSpace(nodeText(n)),
		External: isExternal(href, siteHost),
		NoFollow: relContains(rel, "nofollow"),
	}, true
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func relContains(rel, value string) bool {
	for _, part := range strings.Fields(rel) {
		if strings.EqualFold(part, value) {
			return true
		}
	}
	return false
}

func isExternal(href, siteHost string) bool {
	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return false
	}
	// siteHost may arrive as host:port when the site URL carries a port.
	if h, _, err := net.SplitHostPort(siteHost); err == nil {
		siteHost = h
	}
	return !strings.EqualFold(u.Hostname(), siteHost)
}

// InboundSlug resolves an internal href to a post slug, stripping the
// /blog/ prefix and any trailing slash. Returns "" when the href does not
// point at a post page.
func InboundSlug(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	path := strings.TrimSuffix(u.Path, "/")
	const prefix = "/blog/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	slug := strings.TrimPrefix(path, prefix)
	if slug == "" || strings.Contains(slug, "/") {
		return ""
	}
	return slug
}
