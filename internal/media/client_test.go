// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/casavia/casavia/internal/config"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c := NewClient(config.MediaConfig{
		CloudName:    "casavia-test",
		APIKey:       "key123",
		APISecret:    "secret456",
		UploadFolder: "casavia",
		Timeout:      5 * time.Second,
	})
	c.baseURL = baseURL
	c.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return c
}

func TestClient_UploadSignsRequest(t *testing.T) {
	var gotSignature, gotTimestamp, gotFolder string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/casavia-test/image/upload" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		gotSignature = r.FormValue("signature")
		gotTimestamp = r.FormValue("timestamp")
		gotFolder = r.FormValue("folder")

		_ = json.NewEncoder(w).Encode(UploadResult{
			PublicID:     "casavia/abc123",
			SecureURL:    "https://res.cloudinary.com/casavia-test/image/upload/casavia/abc123",
			ResourceType: "image",
		})
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	result, err := c.Upload(context.Background(), strings.NewReader("fake-image-bytes"), "room.jpg", "image")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if result.PublicID != "casavia/abc123" {
		t.Errorf("Unexpected result: %+v", result)
	}

	if gotTimestamp != "1700000000" || gotFolder != "casavia" {
		t.Errorf("Unexpected signed params: timestamp=%s folder=%s", gotTimestamp, gotFolder)
	}
	want := Sign(map[string]string{"timestamp": gotTimestamp, "folder": gotFolder}, "secret456")
	if gotSignature != want {
		t.Errorf("Signature mismatch: got %s want %s", gotSignature, want)
	}
}

func TestClient_DestroySignsPublicID(t *testing.T) {
	var gotSignature, gotPublicID string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/casavia-test/image/destroy" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		gotSignature = r.FormValue("signature")
		gotPublicID = r.FormValue("public_id")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	if err := c.Destroy(context.Background(), "casavia/abc123", "image"); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	want := Sign(map[string]string{"timestamp": "1700000000", "public_id": gotPublicID}, "secret456")
	if gotSignature != want {
		t.Errorf("Signature mismatch: got %s want %s", gotSignature, want)
	}
}

func TestClient_ErrorStatusSurfacesToCaller(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Invalid signature"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	if _, err := c.Upload(context.Background(), strings.NewReader("x"), "f.jpg", "image"); err == nil {
		t.Fatal("Expected error for rejected upload")
	}
}

func TestClient_UnconfiguredFailsFast(t *testing.T) {
	c := NewClient(config.MediaConfig{})
	if _, err := c.Upload(context.Background(), strings.NewReader("x"), "f.jpg", "image"); err == nil {
		t.Error("Expected error when CDN credentials are missing")
	}
	if err := c.Destroy(context.Background(), "id", "image"); err == nil {
		t.Error("Expected error when CDN credentials are missing")
	}
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	for i := 0; i < 5; i++ {
		_, _ = c.Upload(context.Background(), strings.NewReader("x"), "f.jpg", "image")
	}

	// The breaker is now open: the request fails without reaching the CDN.
	_, err := c.Upload(context.Background(), strings.NewReader("x"), "f.jpg", "image")
	if err == nil {
		t.Fatal("Expected error from open breaker")
	}
	if !strings.Contains(err.Error(), "open") {
		t.Errorf("Expected open-breaker error, got %v", err)
	}
}

func TestClient_DeliveryURL(t *testing.T) {
	c := testClient(t, "unused")

	plain := c.DeliveryURL("casavia/abc123", "image", "")
	if plain != "https://res.cloudinary.com/casavia-test/image/upload/casavia/abc123" {
		t.Errorf("Unexpected delivery URL %s", plain)
	}

	transformed := c.DeliveryURL("casavia/abc123", "image", "w_800,q_auto")
	if transformed != "https://res.cloudinary.com/casavia-test/image/upload/w_800,q_auto/casavia/abc123" {
		t.Errorf("Unexpected transformed URL %s", transformed)
	}
}
