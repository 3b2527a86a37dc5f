// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package api

import (
	"net/http"
	"time"

	"github.com/casavia/casavia/internal/models"
)

// Health reports overall service health: database connectivity, media CDN
// configuration and uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	respondJSON(w, r, http.StatusOK, models.HealthStatus{
		Status:            status,
		Version:           Version,
		DatabaseConnected: dbConnected,
		MediaConfigured:   h.media != nil && h.media.Configured(),
		Uptime:            time.Since(h.startTime).Seconds(),
	})
}

// HealthLive is the liveness probe: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe: dependencies are reachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil || h.db.Ping(r.Context()) != nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeInternal, "Database not ready", nil)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
