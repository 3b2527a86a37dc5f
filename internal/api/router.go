// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/casavia/casavia/internal/auth"
	"github.com/casavia/casavia/internal/middleware"
	"github.com/casavia/casavia/internal/ratelimit"
)

// Router wires handlers, the auth gate and the rate limiter into the HTTP
// route tree.
type Router struct {
	handler     *Handler
	gate        *auth.Gate
	limit       *ratelimit.Middleware
	corsOrigins []string
}

// NewRouter creates a Router from already-constructed components.
func NewRouter(handler *Handler, gate *auth.Gate, limit *ratelimit.Middleware, corsOrigins []string) *Router {
	return &Router{
		handler:     handler,
		gate:        gate,
		limit:       limit,
		corsOrigins: corsOrigins,
	}
}

// Setup builds the route tree.
//
// Every request passes the rate limiter before anything else expensive;
// the auth gate guards only the admin groups. CORS sits globally so
// preflight requests are answered before the gate would see them.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", auth.APIKeyHeader, "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         86400,
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		// Health endpoints: public class rate limit, no auth.
		r.Route("/health", func(r chi.Router) {
			r.Use(rt.limit.Limit(false))
			r.Get("/", rt.handler.Health)
			r.Get("/live", rt.handler.HealthLive)
			r.Get("/ready", rt.handler.HealthReady)
		})

		// Login: public class keeps brute force inside the window ceiling.
		r.Route("/auth", func(r chi.Router) {
			r.Use(rt.limit.Limit(false))
			r.Post("/login", rt.handler.Login)
		})

		r.Route("/media", func(r chi.Router) {
			// Public portfolio reads.
			r.Group(func(r chi.Router) {
				r.Use(rt.limit.Limit(false))
				r.Get("/", rt.handler.ListMedia)
				r.Get("/{id}", rt.handler.GetMedia)
			})

			// Admin mutations: privileged class, behind the gate.
			r.Group(func(r chi.Router) {
				r.Use(rt.limit.Limit(true))
				r.Use(rt.gate.Authorize)
				r.Post("/", rt.handler.CreateMedia)
				r.Put("/{id}", rt.handler.UpdateMedia)
				r.Delete("/{id}", rt.handler.DeleteMedia)
			})
		})

		r.Route("/inquiries", func(r chi.Router) {
			// Public contact form.
			r.Group(func(r chi.Router) {
				r.Use(rt.limit.Limit(false))
				r.Post("/", rt.handler.CreateInquiry)
			})

			// Admin inquiry management.
			r.Group(func(r chi.Router) {
				r.Use(rt.limit.Limit(true))
				r.Use(rt.gate.Authorize)
				r.Get("/", rt.handler.ListInquiries)
				r.Patch("/{id}", rt.handler.UpdateInquiryStatus)
				r.Delete("/{id}", rt.handler.DeleteInquiry)
			})
		})
	})

	return r
}
