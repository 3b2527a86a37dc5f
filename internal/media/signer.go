// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

// Package media talks to the external media CDN: request signing and the
// upload/delete client used by the portfolio handlers.
package media

import (
	"crypto/sha1" //nolint:gosec // the CDN protocol mandates SHA-1 signatures
	"encoding/hex"
	"sort"
	"strings"
)

// signedParams is the allow-list of parameter names that participate in a
// request signature. The CDN computes its signature over exactly this set;
// letting any other parameter leak into the string-to-sign guarantees a
// mismatch and a rejected call.
var signedParams = map[string]bool{
	"timestamp":     true,
	"folder":        true,
	"public_id":     true,
	"resource_type": true,
	"public_ids":    true,
}

// Sign computes the CDN authentication signature for params.
//
// Allow-listed parameters with non-empty values are sorted by key, joined as
// k=v pairs with '&', and the raw secret is appended (not as a parameter).
// The result is the lower-case hex SHA-1 of that string. SHA-1 is mandated
// by the CDN protocol, not a choice.
//
// Sign is a pure function: identical inputs give identical output in any
// key order, and it is safe to call concurrently.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if signedParams[k] && v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}
	sb.WriteString(secret)

	digest := sha1.Sum([]byte(sb.String())) //nolint:gosec // see above
	return hex.EncodeToString(digest[:])
}
