// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"reunioncms/internal/middleware"
	"reunioncms/internal/scope"
)

// parseIDParam extracts the {id} URL parameter as int64.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// settingKeyParam extracts the {key} URL parameter.
func settingKeyParam(r *http.Request) string {
	return chi.URLParam(r, "key")
}

// parsePageParam returns the 1-based page number from the query string.
func parsePageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// parsePerPageParam returns the page size clamped to [1, max].
func parsePerPageParam(r *http.Request, def, max int) int {
	perPage, err := strconv.Atoi(r.URL.Query().Get("per_page"))
	if err != nil || perPage < 1 {
		return def
	}
	if perPage > max {
		return max
	}
	return perPage
}

// pageCount returns the number of pages for the given total and page size.
func pageCount(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	return pages
}

// decodeJSON decodes the request body into dst with a size cap.
// A false return means the error response was already written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// requireAccess fetches the authorization scope set by the auth middleware.
// A false return means the 401 response was already written.
func requireAccess(w http.ResponseWriter, r *http.Request) (scope.Access, bool) {
	access, ok := middleware.GetAccess(r)
	if !ok {
		WriteUnauthorized(w, "Authentication required")
		return scope.Access{}, false
	}
	return access, true
}

// requireEntityByID parses {id} and fetches the entity, writing the
// appropriate error response on failure.
func requireEntityByID[T any](w http.ResponseWriter, r *http.Request, entityName string, fetch func(id int64) (T, error)) (T, bool) {
	var zero T

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return zero, false
	}

	entity, err := fetch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, entityName+" not found")
		} else {
			WriteInternalError(w, "Failed to retrieve "+entityName)
		}
		return zero, false
	}
	return entity, true
}
