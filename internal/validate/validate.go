// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validate checks request payloads field by field and sanitizes
// user-supplied HTML before it reaches the store.
package validate

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"reunioncms/internal/util"
)

// Field length limits.
const (
	MaxTitleLen       = 200
	MaxSlugLen        = 200
	MaxExcerptLen     = 500
	MaxMetaTitleLen   = 200
	MaxMetaDescLen    = 300
	MaxNameLen        = 100
	MaxMessageLen     = 2000
	MinPasswordLen    = 8
	MaxBodyLen        = 1 << 20 // 1 MB of HTML is plenty
	MaxTagCount       = 20
	MaxTagLen         = 50
)

// htmlPolicy allows the safe tag set for user-generated content. Post
// bodies and guestbook messages pass through it before storage.
var htmlPolicy = bluemonday.UGCPolicy()

// SanitizeHTML strips unsafe markup from user-supplied HTML.
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// Errors collects per-field validation failures.
type Errors map[string]string

// Error implements the error interface.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator accumulates field checks. Use Err to collect the result.
type Validator struct {
	errors Errors
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{errors: Errors{}}
}

func (v *Validator) add(field, msg string) {
	if _, exists := v.errors[field]; !exists {
		v.errors[field] = msg
	}
}

// Required checks that a trimmed string is non-empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
	return v
}

// MaxLen checks a string length cap.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if len(value) > max {
		v.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return v
}

// MinLen checks a string length floor.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if len(value) < min {
		v.add(field, fmt.Sprintf("must be at least %d characters", min))
	}
	return v
}

// Slug checks slug format: lowercase letters, digits and hyphens.
func (v *Validator) Slug(field, value string) *Validator {
	if value != "" && !util.IsValidSlug(value) {
		v.add(field, "must contain only lowercase letters, digits and hyphens")
	}
	return v
}

// Email checks address syntax.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "is not a valid email address")
	}
	return v
}

// OneOf checks membership in an allowed value set.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, "must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Tags checks a tag list for count and per-tag length.
func (v *Validator) Tags(field string, tags []string) *Validator {
	if len(tags) > MaxTagCount {
		v.add(field, fmt.Sprintf("must have at most %d tags", MaxTagCount))
		return v
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			v.add(field, "must not contain empty tags")
			return v
		}
		if len(tag) > MaxTagLen {
			v.add(field, fmt.Sprintf("tags must be at most %d characters", MaxTagLen))
			return v
		}
	}
	return v
}

// Check records a failure message when ok is false.
func (v *Validator) Check(ok bool, field, msg string) *Validator {
	if !ok {
		v.add(field, msg)
	}
	return v
}

// Err returns the accumulated Errors, or nil when everything passed.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}
	return v.errors
}

// Fields returns the raw field error map for JSON responses.
func (v *Validator) Fields() Errors {
	return v.errors
}
