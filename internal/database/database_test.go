// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/casavia/casavia/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleMediaItem() *models.MediaItem {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.MediaItem{
		ID:          uuid.New().String(),
		Title:       "Scandinavian living room",
		Description: "Full refit, spring collection",
		Category:    "living-room",
		MediaType:   models.MediaTypeImage,
		CDNPublicID: "casavia/living-room-1",
		CDNURL:      "https://res.cloudinary.com/casavia/image/upload/casavia/living-room-1",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestMediaItemCRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	item := sampleMediaItem()
	if err := db.CreateMediaItem(ctx, item); err != nil {
		t.Fatalf("CreateMediaItem: %v", err)
	}

	got, err := db.GetMediaItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetMediaItem: %v", err)
	}
	if got.Title != item.Title || got.Category != item.Category || got.CDNPublicID != item.CDNPublicID {
		t.Errorf("Round-trip mismatch: %+v vs %+v", got, item)
	}

	got.Title = "Updated title"
	got.UpdatedAt = time.Now().UTC()
	if err := db.UpdateMediaItem(ctx, got); err != nil {
		t.Fatalf("UpdateMediaItem: %v", err)
	}
	again, err := db.GetMediaItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetMediaItem after update: %v", err)
	}
	if again.Title != "Updated title" {
		t.Errorf("Update not persisted: %q", again.Title)
	}

	if err := db.DeleteMediaItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteMediaItem: %v", err)
	}
	if _, err := db.GetMediaItem(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestListMediaItems_CategoryFilterAndOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := sampleMediaItem()
	first.DisplayOrder = 2
	second := sampleMediaItem()
	second.DisplayOrder = 1
	kitchen := sampleMediaItem()
	kitchen.Category = "kitchen"

	for _, item := range []*models.MediaItem{first, second, kitchen} {
		if err := db.CreateMediaItem(ctx, item); err != nil {
			t.Fatalf("CreateMediaItem: %v", err)
		}
	}

	living, err := db.ListMediaItems(ctx, "living-room")
	if err != nil {
		t.Fatalf("ListMediaItems: %v", err)
	}
	if len(living) != 2 {
		t.Fatalf("Expected 2 living-room items, got %d", len(living))
	}
	if living[0].ID != second.ID {
		t.Error("Expected display_order to drive list order")
	}

	all, err := db.ListMediaItems(ctx, "")
	if err != nil {
		t.Fatalf("ListMediaItems all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 items, got %d", len(all))
	}
}

func TestUpdateMissingMediaItem(t *testing.T) {
	db := openTestDB(t)

	item := sampleMediaItem()
	if err := db.UpdateMediaItem(context.Background(), item); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := db.DeleteMediaItem(context.Background(), item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestInquiryLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	inq := &models.Inquiry{
		ID:        uuid.New().String(),
		Name:      "Dana Architect",
		Email:     "dana@example.com",
		Message:   "Looking for a full apartment redesign.",
		Status:    models.InquiryStatusNew,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := db.CreateInquiry(ctx, inq); err != nil {
		t.Fatalf("CreateInquiry: %v", err)
	}

	list, err := db.ListInquiries(ctx, models.InquiryStatusNew)
	if err != nil {
		t.Fatalf("ListInquiries: %v", err)
	}
	if len(list) != 1 || list[0].Email != inq.Email {
		t.Fatalf("Unexpected list: %+v", list)
	}
	if list[0].Phone != "" {
		t.Errorf("Expected empty phone, got %q", list[0].Phone)
	}

	if err := db.UpdateInquiryStatus(ctx, inq.ID, models.InquiryStatusReplied); err != nil {
		t.Fatalf("UpdateInquiryStatus: %v", err)
	}
	got, err := db.GetInquiry(ctx, inq.ID)
	if err != nil {
		t.Fatalf("GetInquiry: %v", err)
	}
	if got.Status != models.InquiryStatusReplied {
		t.Errorf("Expected replied status, got %q", got.Status)
	}

	if err := db.DeleteInquiry(ctx, inq.ID); err != nil {
		t.Fatalf("DeleteInquiry: %v", err)
	}
	if err := db.UpdateInquiryStatus(ctx, inq.ID, models.InquiryStatusArchived); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
