// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"reunioncms/internal/media"
	"reunioncms/internal/model"
)

// maxUploadSize caps media uploads at 10 MB.
const maxUploadSize = 10 << 20

// ListMedia handles GET /api/admin/media.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAccess(w, r); !ok {
		return
	}
	files, err := h.media.List()
	if err != nil {
		WriteInternalError(w, "Failed to list media")
		return
	}
	WriteSuccess(w, files, nil)
}

// UploadMedia handles POST /api/admin/media. The file arrives as the
// "file" part of a multipart form; images get a thumbnail alongside.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteBadRequest(w, "Upload too large or malformed", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "Missing file field", nil)
		return
	}
	defer file.Close()

	if !media.IsAllowedExtension(header.Filename) {
		WriteValidationError(w, map[string]string{"file": "unsupported file type"})
		return
	}

	saved, err := h.media.Save(file, header.Filename)
	if err != nil {
		WriteInternalError(w, "Failed to store file")
		return
	}

	h.recordActivity(r.Context(), access, model.ActivityCategoryConfig,
		"media.uploaded", "media", 0, map[string]any{"name": saved.Name}, r)
	WriteCreated(w, saved)
}

// DeleteMedia handles DELETE /api/admin/media/{name}.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	access, ok := requireAccess(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	if name == "" {
		WriteBadRequest(w, "file name required", nil)
		return
	}
	if err := h.media.Delete(name); err != nil {
		WriteNotFound(w, "file not found")
		return
	}
	h.recordActivity(r.Context(), access, model.ActivityCategoryConfig,
		"media.deleted", "media", 0, map[string]any{"name": name}, r)
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
