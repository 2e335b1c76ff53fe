// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors WARN and above into
// the activity log table for in-admin auditing.
package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"reunioncms/internal/model"
	"reunioncms/internal/store"
)

// ActivityLogHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR records to the activity log.
type ActivityLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewActivityLogHandler wraps the given handler. Records at WARN and above
// go to both the wrapped handler and the activity log.
func NewActivityLogHandler(inner slog.Handler, db *sql.DB) *ActivityLogHandler {
	return &ActivityLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *ActivityLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ActivityLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeActivity(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *ActivityLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ActivityLogHandler{inner: h.inner.WithAttrs(attrs), queries: h.queries, level: h.level}
}

// WithGroup implements slog.Handler.
func (h *ActivityLogHandler) WithGroup(name string) slog.Handler {
	return &ActivityLogHandler{inner: h.inner.WithGroup(name), queries: h.queries, level: h.level}
}

func (h *ActivityLogHandler) writeActivity(r slog.Record) {
	// Background context so the record lands even when the request
	// context is already canceled.
	_ = h.queries.CreateActivity(context.Background(), store.CreateActivityParams{
		Level:     levelName(r.Level),
		Category:  extractCategory(r),
		Action:    r.Message,
		Details:   extractDetails(r),
		CreatedAt: r.Time,
	})
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.ActivityLevelError
	case level >= slog.LevelWarn:
		return model.ActivityLevelWarning
	default:
		return model.ActivityLevelInfo
	}
}

// extractCategory looks for a "category" attribute, falling back to an
// inference from the message text.
func extractCategory(r slog.Record) string {
	var category string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})
	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "logout"):
		return model.ActivityCategoryAuth
	case strings.Contains(msg, "post") || strings.Contains(msg, "publish") || strings.Contains(msg, "sweep"):
		return model.ActivityCategoryPost
	case strings.Contains(msg, "user"):
		return model.ActivityCategoryUser
	case strings.Contains(msg, "tenant"):
		return model.ActivityCategoryTenant
	case strings.Contains(msg, "config") || strings.Contains(msg, "setting"):
		return model.ActivityCategoryConfig
	default:
		return model.ActivityCategorySystem
	}
}

// extractDetails collects the record attributes into a flat JSON object.
func extractDetails(r slog.Record) string {
	if r.NumAttrs() == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteString("{")
	first := true
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			return true
		}
		if !first {
			sb.WriteString(",")
		}
		first = false
		sb.WriteString(`"`)
		sb.WriteString(escapeJSON(a.Key))
		sb.WriteString(`":"`)
		sb.WriteString(escapeJSON(a.Value.String()))
		sb.WriteString(`"`)
		return true
	})
	sb.WriteString("}")
	return sb.String()
}

func escapeJSON(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
