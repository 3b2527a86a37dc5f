// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/casavia/casavia/internal/database"
	"github.com/casavia/casavia/internal/logging"
	"github.com/casavia/casavia/internal/models"
)

// maxUploadBytes caps portfolio uploads (videos included).
const maxUploadBytes = 100 << 20

type createMediaRequest struct {
	Title        string `validate:"required,max=200"`
	Description  string `validate:"max=2000"`
	Category     string `validate:"required,max=100"`
	MediaType    string `validate:"required,oneof=image video"`
	DisplayOrder int    `validate:"gte=0"`
}

type updateMediaRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=2000"`
	Category     string `json:"category" validate:"required,max=100"`
	DisplayOrder int    `json:"displayOrder" validate:"gte=0"`
}

// ListMedia returns portfolio assets, optionally filtered by category.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	items, err := h.db.ListMediaItems(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to list media", err)
		return
	}
	respondJSON(w, r, http.StatusOK, items)
}

// GetMedia returns one asset by id.
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	item, err := h.db.GetMediaItem(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Media item not found", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to read media", err)
		return
	}
	respondJSON(w, r, http.StatusOK, item)
}

// CreateMedia accepts a multipart upload, pushes the file to the CDN with a
// signed request, and records the asset.
func (h *Handler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	if h.media == nil || !h.media.Configured() {
		respondError(w, r, http.StatusInternalServerError, CodeMisconfigured,
			"Media storage is not configured", nil)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Invalid multipart form", err)
		return
	}

	req := createMediaRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		MediaType:   r.FormValue("media_type"),
	}
	if v := r.FormValue("display_order"); v != "" {
		order, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, CodeValidation, "display_order must be an integer", nil)
			return
		}
		req.DisplayOrder = order
	}
	if err := validateStruct(h.validate, req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Missing file field", err)
		return
	}
	defer file.Close()

	result, err := h.media.Upload(r.Context(), file, header.Filename, req.MediaType)
	if err != nil {
		respondError(w, r, http.StatusBadGateway, CodeMediaUploadError, "Media upload failed", err)
		return
	}

	now := time.Now().UTC()
	item := &models.MediaItem{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		MediaType:    req.MediaType,
		CDNPublicID:  result.PublicID,
		CDNURL:       result.SecureURL,
		DisplayOrder: req.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.db.CreateMediaItem(r.Context(), item); err != nil {
		// The asset is on the CDN but not in the catalog; clean up so a
		// retry does not strand a duplicate.
		if derr := h.media.Destroy(r.Context(), result.PublicID, req.MediaType); derr != nil {
			logging.Error().Err(derr).Str("public_id", result.PublicID).
				Msg("Failed to clean up CDN asset after insert failure")
		}
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to store media item", err)
		return
	}

	respondJSON(w, r, http.StatusCreated, item)
}

// UpdateMedia edits presentation metadata; the CDN asset is untouched.
func (h *Handler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	var req updateMediaRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Invalid request body", err)
		return
	}
	if err := validateStruct(h.validate, req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}

	item := &models.MediaItem{
		ID:           chi.URLParam(r, "id"),
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		DisplayOrder: req.DisplayOrder,
		UpdatedAt:    time.Now().UTC(),
	}
	err := h.db.UpdateMediaItem(r.Context(), item)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Media item not found", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to update media", err)
		return
	}

	respondJSON(w, r, http.StatusOK, item)
}

// DeleteMedia removes the CDN asset first, then the catalog row. A CDN
// failure aborts the delete so the catalog never points at nothing.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.db.GetMediaItem(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Media item not found", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to read media", err)
		return
	}

	if h.media != nil && h.media.Configured() {
		if err := h.media.Destroy(r.Context(), item.CDNPublicID, item.MediaType); err != nil {
			respondError(w, r, http.StatusBadGateway, CodeMediaUploadError, "Failed to delete media asset", err)
			return
		}
	}

	if err := h.db.DeleteMediaItem(r.Context(), id); err != nil && !errors.Is(err, database.ErrNotFound) {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to delete media item", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]string{"deleted": id})
}
