// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package api

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/casavia/casavia/internal/logging"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Login authenticates the studio admin and issues a bearer token.
// Failures stay coarse: the response never says whether the username or
// the password was wrong.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	sec := h.cfg.Security
	if h.codec == nil || sec.AdminUsername == "" || sec.AdminPasswordHash == "" {
		respondError(w, r, http.StatusInternalServerError, CodeMisconfigured,
			"Server misconfigured", nil)
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Invalid request body", err)
		return
	}
	if err := validateStruct(h.validate, req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(sec.AdminUsername)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(sec.AdminPasswordHash), []byte(req.Password))
	if !usernameOK || passwordErr != nil {
		logging.Warn().Str("username", req.Username).Msg("Login rejected")
		respondError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Unauthorized", nil)
		return
	}

	token, err := h.codec.Encode(req.Username, "admin")
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to issue token", err)
		return
	}

	respondJSON(w, r, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresIn: int64(h.cfg.Security.TokenTTL.Seconds()),
	})
}
