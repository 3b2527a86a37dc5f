// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/goccy/go-json"

	"github.com/casavia/casavia/internal/logging"
)

// Recoverer converts panics into a generic 500 carrying the correlation id,
// so unexpected failures surface without leaking internals. Expected
// conditions never panic; anything caught here is a bug worth the stack
// trace in the log.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				requestID := GetRequestID(r.Context())
				logging.Error().
					Interface("panic", rec).
					Str("request_id", requestID).
					Bytes("stack", debug.Stack()).
					Msg("Handler panic recovered")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				body, err := json.Marshal(map[string]string{
					"error":     "Internal server error",
					"code":      "INTERNAL_ERROR",
					"requestId": requestID,
				})
				if err != nil {
					return
				}
				_, _ = w.Write(body)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
