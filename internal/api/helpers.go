// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

// Package api provides the HTTP handlers and routing for Casavia.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/casavia/casavia/internal/logging"
	"github.com/casavia/casavia/internal/middleware"
	"github.com/casavia/casavia/internal/models"
)

// Error codes returned at the API boundary. The set is closed: handlers
// pick from these constants rather than inventing strings inline.
const (
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeMisconfigured    = "SERVER_MISCONFIGURED"
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeMediaUploadError = "MEDIA_UPLOAD_FAILED"
	CodeInternal         = "INTERNAL_ERROR"
)

// errorResponse is the error body for all non-2xx responses.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

// respondJSON writes the success envelope.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	body, err := json.Marshal(&models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(r.Context()),
		},
	})
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes an error body with a code from the closed set. err is
// logged, never sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	requestID := middleware.GetRequestID(r.Context())
	if err != nil {
		logging.Error().
			Err(err).
			Str("code", code).
			Str("request_id", requestID).
			Str("path", r.URL.Path).
			Msg("API error")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body, merr := json.Marshal(errorResponse{Error: message, Code: code, RequestID: requestID})
	if merr != nil {
		return
	}
	if _, werr := w.Write(body); werr != nil {
		logging.Error().Err(werr).Msg("Failed to write error response")
	}
}

// decodeJSON parses the request body into dst with a sane size cap.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// validateStruct runs go-playground validation and flattens the result
// into one client-safe message.
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
}
