// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/casavia/casavia/internal/logging"
	"github.com/casavia/casavia/internal/metrics"
)

// limitResponse is the 429 body. retryAfter mirrors the Retry-After header
// so machine clients need not parse headers.
type limitResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	RetryAfter int    `json:"retryAfter"`
}

// Middleware enforces the limiter on HTTP requests. The client identity is
// the source IP, resolved through trusted proxies.
type Middleware struct {
	limiter        *Limiter
	disabled       bool
	trustedProxies map[string]bool
}

// NewMiddleware wraps limiter for HTTP use. trustedProxies lists the proxy
// addresses whose X-Forwarded-For / X-Real-IP headers are believed.
func NewMiddleware(limiter *Limiter, disabled bool, trustedProxies []string) *Middleware {
	trusted := make(map[string]bool, len(trustedProxies))
	for _, p := range trustedProxies {
		trusted[p] = true
	}
	return &Middleware{
		limiter:        limiter,
		disabled:       disabled,
		trustedProxies: trusted,
	}
}

// Limit returns chi-compatible middleware for the given path class.
// Privileged route groups get the higher admin ceiling.
func (m *Middleware) Limit(privileged bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ip := m.clientIP(r)
			decision := m.limiter.Check(ip, privileged)
			if !decision.Allowed {
				m.deny(w, ip, privileged, decision)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// deny writes the 429 response with a machine-readable retry hint.
func (m *Middleware) deny(w http.ResponseWriter, ip string, privileged bool, decision Decision) {
	retryAfter := RetryAfterSeconds(decision.RetryAfter)

	class := "public"
	if privileged {
		class = "admin"
	}
	metrics.RateLimitHits.WithLabelValues(class).Inc()

	logging.Warn().
		Str("client_ip", ip).
		Int("retry_after", retryAfter).
		Msg("Rate limit exceeded")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)

	body, err := json.Marshal(limitResponse{
		Error:      "Rate limit exceeded",
		Code:       "RATE_LIMIT_EXCEEDED",
		RetryAfter: retryAfter,
	})
	if err != nil {
		return
	}
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write rate limit response")
	}
}

// clientIP extracts the client address, honoring forwarding headers only
// when the direct peer is a trusted proxy.
func (m *Middleware) clientIP(r *http.Request) string {
	remoteIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		remoteIP = host
	}

	if len(m.trustedProxies) == 0 || !m.trustedProxies[remoteIP] {
		return remoteIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" && net.ParseIP(xri) != nil {
		return xri
	}

	return remoteIP
}
