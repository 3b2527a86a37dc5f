// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/casavia/casavia/internal/logging"
	"github.com/casavia/casavia/internal/metrics"
)

type contextKey string

// claimsContextKey carries verified claims to downstream handlers.
const claimsContextKey contextKey = "claims"

// APIKeyHeader is the header carrying the static service key.
const APIKeyHeader = "X-API-Key"

// Gate authorizes requests on protected routes. Decision order:
//
//  1. CORS preflight requests pass untouched.
//  2. A static service key in X-API-Key is compared in constant time
//     against the configured key; a match short-circuits token checks.
//  3. A bearer token is decoded, checked for expiry, then verified.
//  4. Anything else is rejected for missing credentials.
//
// Rejections carry the coarse UNAUTHORIZED code only; the body never says
// whether the key was unknown, the signature wrong, or the token expired.
// The distinction goes to the log for forensics.
//
// A gate with neither a key nor a codec configured rejects everything with
// SERVER_MISCONFIGURED. Silently denying would look like an attack; silently
// allowing would be one.
type Gate struct {
	codec       *TokenCodec
	adminAPIKey []byte
}

// NewGate creates a Gate. Either argument may be absent (nil codec, empty
// key); the corresponding credential path then reports misconfiguration.
func NewGate(codec *TokenCodec, adminAPIKey string) *Gate {
	return &Gate{
		codec:       codec,
		adminAPIKey: []byte(adminAPIKey),
	}
}

// Authorize is chi-compatible middleware enforcing the gate.
func (g *Gate) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Preflight requests carry no credentials by design.
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if len(g.adminAPIKey) == 0 && g.codec == nil {
			logging.Error().Msg("Auth gate has no service key and no token secret configured")
			metrics.AuthRejections.WithLabelValues("misconfigured").Inc()
			respondAuthError(w, http.StatusInternalServerError, "Server misconfigured", "SERVER_MISCONFIGURED")
			return
		}

		if key := r.Header.Get(APIKeyHeader); key != "" {
			g.authorizeAPIKey(w, r, next, key)
			return
		}

		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			g.authorizeBearer(w, r, next, authHeader)
			return
		}

		metrics.AuthRejections.WithLabelValues("missing_credentials").Inc()
		respondAuthError(w, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
	})
}

// authorizeAPIKey handles the static service key path.
func (g *Gate) authorizeAPIKey(w http.ResponseWriter, r *http.Request, next http.Handler, key string) {
	if len(g.adminAPIKey) == 0 {
		logging.Error().Msg("Service key presented but none is configured")
		metrics.AuthRejections.WithLabelValues("misconfigured").Inc()
		respondAuthError(w, http.StatusInternalServerError, "Server misconfigured", "SERVER_MISCONFIGURED")
		return
	}

	if subtle.ConstantTimeCompare([]byte(key), g.adminAPIKey) != 1 {
		logging.Warn().Str("path", r.URL.Path).Msg("Invalid service key")
		metrics.AuthRejections.WithLabelValues("invalid_api_key").Inc()
		respondAuthError(w, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
		return
	}

	claims := &Claims{Username: "service", Role: "admin"}
	next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
}

// authorizeBearer handles the bearer token path.
func (g *Gate) authorizeBearer(w http.ResponseWriter, r *http.Request, next http.Handler, authHeader string) {
	if g.codec == nil {
		logging.Error().Msg("Bearer token presented but no token secret is configured")
		metrics.AuthRejections.WithLabelValues("misconfigured").Inc()
		respondAuthError(w, http.StatusInternalServerError, "Server misconfigured", "SERVER_MISCONFIGURED")
		return
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		metrics.AuthRejections.WithLabelValues("malformed_header").Inc()
		respondAuthError(w, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
		return
	}

	claims, err := g.codec.Validate(parts[1])
	if err != nil {
		// The log distinguishes expired from tampered; the response
		// does not.
		logging.Warn().Err(err).Str("path", r.URL.Path).Msg("Token rejected")
		metrics.AuthRejections.WithLabelValues("invalid_token").Inc()
		respondAuthError(w, http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
		return
	}

	next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
}

// withClaims stores verified claims in the context.
func withClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the verified claims attached by the gate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

// authErrorResponse matches the API error envelope without importing the
// api package (which imports this one).
type authErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondAuthError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body, err := json.Marshal(authErrorResponse{Error: message, Code: code})
	if err != nil {
		return
	}
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write auth error response")
	}
}
