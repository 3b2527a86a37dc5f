// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package api

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/casavia/casavia/internal/auth"
	"github.com/casavia/casavia/internal/config"
	"github.com/casavia/casavia/internal/database"
	"github.com/casavia/casavia/internal/media"
)

// Version is the reported API version.
const Version = "1.0.0"

// Handler bundles the dependencies the route handlers need. Everything is
// injected once at startup; handlers hold no ambient globals, so tests can
// build isolated instances.
type Handler struct {
	cfg       *config.Config
	db        *database.DB
	media     *media.Client
	codec     *auth.TokenCodec
	validate  *validator.Validate
	startTime time.Time
}

// NewHandler creates a Handler. codec may be nil when no token secret is
// configured; the login endpoint then reports misconfiguration.
func NewHandler(cfg *config.Config, db *database.DB, mediaClient *media.Client, codec *auth.TokenCodec) *Handler {
	return &Handler{
		cfg:       cfg,
		db:        db,
		media:     mediaClient,
		codec:     codec,
		validate:  validator.New(),
		startTime: time.Now(),
	}
}
