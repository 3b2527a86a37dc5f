// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

// Package models defines the data types shared between the API handlers and
// the storage layer.
package models

import "time"

// MediaItem is one portfolio asset (image or video) shown on the studio site.
// The binary lives on the external CDN; the row holds its identity and
// presentation metadata.
type MediaItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category"`
	MediaType    string    `json:"mediaType"`
	CDNPublicID  string    `json:"cdnPublicId"`
	CDNURL       string    `json:"cdnUrl"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Media types accepted by the portfolio.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Inquiry is a customer contact request from the public site.
type Inquiry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Inquiry workflow states.
const (
	InquiryStatusNew      = "new"
	InquiryStatusRead     = "read"
	InquiryStatusReplied  = "replied"
	InquiryStatusArchived = "archived"
)

// ValidInquiryStatus reports whether s is a known workflow state.
func ValidInquiryStatus(s string) bool {
	switch s {
	case InquiryStatusNew, InquiryStatusRead, InquiryStatusReplied, InquiryStatusArchived:
		return true
	}
	return false
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"databaseConnected"`
	MediaConfigured   bool    `json:"mediaConfigured"`
	Uptime            float64 `json:"uptime"`
}

// Metadata accompanies every successful API response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId,omitempty"`
}

// APIResponse is the success envelope.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
}
