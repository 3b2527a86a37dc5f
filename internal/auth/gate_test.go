// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

const testAPIKey = "service-key-0123456789abcdef"

// claimsCapture records the claims the gate attached for the handler.
type claimsCapture struct {
	called bool
	claims *Claims
}

func captureHandler(c *claimsCapture) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.called = true
		c.claims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	codec, err := NewTokenCodec(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	return NewGate(codec, testAPIKey)
}

func serveGate(g *Gate, req *http.Request) (*httptest.ResponseRecorder, *claimsCapture) {
	capture := &claimsCapture{}
	rec := httptest.NewRecorder()
	g.Authorize(captureHandler(capture)).ServeHTTP(rec, req)
	return rec, capture
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) authErrorResponse {
	t.Helper()
	var body authErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	return body
}

func TestGate_ValidServiceKey(t *testing.T) {
	g := newTestGate(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", nil)
	req.Header.Set(APIKeyHeader, testAPIKey)

	rec, capture := serveGate(g, req)
	if rec.Code != http.StatusOK || !capture.called {
		t.Fatalf("Expected pass, got %d", rec.Code)
	}
	if capture.claims == nil || capture.claims.Role != "admin" {
		t.Errorf("Expected service admin claims, got %+v", capture.claims)
	}
}

func TestGate_InvalidServiceKey(t *testing.T) {
	g := newTestGate(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", nil)
	req.Header.Set(APIKeyHeader, "wrong-key")

	rec, capture := serveGate(g, req)
	if rec.Code != http.StatusUnauthorized || capture.called {
		t.Fatalf("Expected 401, got %d", rec.Code)
	}
	if body := decodeErrorBody(t, rec); body.Code != "UNAUTHORIZED" {
		t.Errorf("Expected UNAUTHORIZED code, got %q", body.Code)
	}
}

func TestGate_ServiceKeyShortCircuitsBearer(t *testing.T) {
	g := newTestGate(t)

	// A valid key plus a garbage bearer token still passes: the key is
	// checked first and short-circuits.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", nil)
	req.Header.Set(APIKeyHeader, testAPIKey)
	req.Header.Set("Authorization", "Bearer not.a.token")

	rec, capture := serveGate(g, req)
	if rec.Code != http.StatusOK || !capture.called {
		t.Fatalf("Expected pass via service key, got %d", rec.Code)
	}
}

func TestGate_ValidBearerToken(t *testing.T) {
	g := newTestGate(t)

	token, err := g.codec.Encode("studio-admin", "admin")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/media/42", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec, capture := serveGate(g, req)
	if rec.Code != http.StatusOK || !capture.called {
		t.Fatalf("Expected pass, got %d", rec.Code)
	}
	if capture.claims == nil || capture.claims.Username != "studio-admin" {
		t.Errorf("Expected decoded claims downstream, got %+v", capture.claims)
	}
}

func TestGate_ExpiredBearerToken(t *testing.T) {
	g := newTestGate(t)

	g.codec.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := g.codec.Encode("studio-admin", "admin")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	g.codec.now = time.Now

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inquiries", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec, _ := serveGate(g, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for expired token, got %d", rec.Code)
	}
	// The body stays coarse; it must not say "expired".
	if body := decodeErrorBody(t, rec); body.Code != "UNAUTHORIZED" {
		t.Errorf("Expected coarse UNAUTHORIZED code, got %q", body.Code)
	}
}

func TestGate_MalformedAuthorizationHeader(t *testing.T) {
	g := newTestGate(t)

	for _, header := range []string{"Bearer", "Basic dXNlcjpwYXNz", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/inquiries", nil)
		req.Header.Set("Authorization", header)

		rec, _ := serveGate(g, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestGate_MissingCredentials(t *testing.T) {
	g := newTestGate(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inquiries", nil)
	rec, capture := serveGate(g, req)
	if rec.Code != http.StatusUnauthorized || capture.called {
		t.Fatalf("Expected 401, got %d", rec.Code)
	}
}

func TestGate_PreflightBypasses(t *testing.T) {
	g := newTestGate(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/media", nil)
	rec, capture := serveGate(g, req)
	if rec.Code != http.StatusOK || !capture.called {
		t.Fatalf("Expected preflight to pass without credentials, got %d", rec.Code)
	}
}

func TestGate_Misconfigured(t *testing.T) {
	g := NewGate(nil, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inquiries", nil)
	req.Header.Set(APIKeyHeader, "any-key")

	rec, capture := serveGate(g, req)
	if rec.Code != http.StatusInternalServerError || capture.called {
		t.Fatalf("Expected 500 for misconfigured gate, got %d", rec.Code)
	}
	if body := decodeErrorBody(t, rec); body.Code != "SERVER_MISCONFIGURED" {
		t.Errorf("Expected SERVER_MISCONFIGURED, got %q", body.Code)
	}
}

func TestGate_BearerWithoutSecretConfigured(t *testing.T) {
	g := NewGate(nil, testAPIKey)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/inquiries", nil)
	req.Header.Set("Authorization", "Bearer some.token.here")

	rec, _ := serveGate(g, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	if body := decodeErrorBody(t, rec); body.Code != "SERVER_MISCONFIGURED" {
		t.Errorf("Expected SERVER_MISCONFIGURED, got %q", body.Code)
	}
}
