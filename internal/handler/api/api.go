// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers for the CMS and the public
// reunion microsite.
package api

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"reunioncms/internal/auth"
	"reunioncms/internal/cache"
	"reunioncms/internal/config"
	"reunioncms/internal/linkcheck"
	"reunioncms/internal/media"
	"reunioncms/internal/scheduler"
	"reunioncms/internal/service"
	"reunioncms/internal/store"
	"reunioncms/internal/transfer"
	"reunioncms/internal/version"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db        *sql.DB
	queries   *store.Queries
	cfg       *config.Config
	tokens    *auth.TokenManager
	cache     cache.Cache
	activity  *service.ActivityService
	stats     *service.StatsService
	media     *media.Store
	checker   *linkcheck.Checker
	scheduler *scheduler.Scheduler
	exporter  *transfer.Exporter
	importer  *transfer.Importer
	logger    *slog.Logger
}

// Deps bundles the constructor dependencies for NewHandler.
type Deps struct {
	DB        *sql.DB
	Config    *config.Config
	Tokens    *auth.TokenManager
	Cache     cache.Cache
	Activity  *service.ActivityService
	Media     *media.Store
	Scheduler *scheduler.Scheduler
	Logger    *slog.Logger
}

// NewHandler creates the API handler with all shared dependencies wired.
func NewHandler(d Deps) *Handler {
	queries := store.New(d.DB)
	if d.Scheduler != nil && d.Cache != nil {
		d.Scheduler.InvalidateAfterSweep(d.Cache, sitemapCacheKey)
	}
	return &Handler{
		db:        d.DB,
		queries:   queries,
		cfg:       d.Config,
		tokens:    d.Tokens,
		cache:     d.Cache,
		activity:  d.Activity,
		stats:     service.NewStatsService(queries),
		media:     d.Media,
		checker:   linkcheck.NewChecker(),
		scheduler: d.Scheduler,
		exporter:  transfer.NewExporter(queries, d.Logger),
		importer:  transfer.NewImporter(queries, d.Logger),
		logger:    d.Logger,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Pages   int   `json:"pages,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message, Details: details},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// HealthResponse contains liveness check information.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health returns liveness status and pings the database.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "unhealthy", "database unreachable", nil)
		return
	}
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.Current.String(),
	})
}
