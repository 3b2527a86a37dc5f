// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/casavia/casavia/internal/database"
	"github.com/casavia/casavia/internal/models"
)

type createInquiryRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	Message string `json:"message" validate:"required,max=5000"`
}

type updateInquiryRequest struct {
	Status string `json:"status" validate:"required,oneof=new read replied archived"`
}

// CreateInquiry records a customer contact request from the public site.
func (h *Handler) CreateInquiry(w http.ResponseWriter, r *http.Request) {
	var req createInquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Invalid request body", err)
		return
	}
	if err := validateStruct(h.validate, req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}

	inq := &models.Inquiry{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Status:    models.InquiryStatusNew,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.db.CreateInquiry(r.Context(), inq); err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to store inquiry", err)
		return
	}

	respondJSON(w, r, http.StatusCreated, inq)
}

// ListInquiries returns inquiries for the admin, optionally by status.
func (h *Handler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !models.ValidInquiryStatus(status) {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Unknown inquiry status", nil)
		return
	}

	inquiries, err := h.db.ListInquiries(r.Context(), status)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to list inquiries", err)
		return
	}
	respondJSON(w, r, http.StatusOK, inquiries)
}

// UpdateInquiryStatus moves an inquiry through its workflow.
func (h *Handler) UpdateInquiryStatus(w http.ResponseWriter, r *http.Request) {
	var req updateInquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Invalid request body", err)
		return
	}
	if err := validateStruct(h.validate, req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}

	id := chi.URLParam(r, "id")
	err := h.db.UpdateInquiryStatus(r.Context(), id, req.Status)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Inquiry not found", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to update inquiry", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

// DeleteInquiry removes an inquiry permanently.
func (h *Handler) DeleteInquiry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.db.DeleteInquiry(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Inquiry not found", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to delete inquiry", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]string{"deleted": id})
}
