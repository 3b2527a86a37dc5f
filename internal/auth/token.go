// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

// Package auth implements admin authentication for Casavia: compact signed
// bearer tokens (HMAC-SHA256) and the request gate that decides pass or
// reject for protected routes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token claims carried by an admin bearer token.
// Timestamps are integer Unix seconds (jwt/v5 default precision).
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// ErrSecretRequired is returned when a codec is constructed without a secret.
var ErrSecretRequired = errors.New("token secret is required but was empty")

// TokenCodec creates and checks HS256 tokens of the form
// header.payload.signature.
//
// Validate is the contract callers should use for authorization: it checks
// the signature AND freshness in one call, so there is no decode/verify
// ordering to get wrong. Decode, Verify and Expired expose the individual
// checks for diagnostics.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration

	// now is replaceable in tests.
	now func() time.Time
}

// NewTokenCodec creates a codec signing with secret. Tokens live for ttl;
// a non-positive ttl falls back to DefaultTokenTTL.
func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Encode issues a signed token for the given identity. IssuedAt and
// ExpiresAt are stamped from the codec clock.
func (c *TokenCodec) Encode(username, role string) (string, error) {
	now := c.now()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode parses the token WITHOUT verifying the signature. The result is
// good for inspecting claims and nothing else; never authorize on it.
func (c *TokenCodec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return claims, nil
}

// Verify reports whether the embedded signature matches a recomputation
// over header.payload. Expiration is deliberately NOT checked here; pair
// with Expired, or use Validate. The comparison inside jwt/v5 is
// constant-time (hmac.Equal), so a mismatch leaks no prefix length.
// Verify returns false on any malformed input and never panics.
func (c *TokenCodec) Verify(tokenString string) bool {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	return err == nil && token.Valid
}

// Expired reports whether the claims' expiry has passed. Claims without an
// expiry are treated as expired.
func (c *TokenCodec) Expired(claims *Claims) bool {
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Before(c.now())
}

// Validate is the atomic accept/reject contract: valid signature AND not
// expired. On success the verified claims are returned.
func (c *TokenCodec) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// keyFunc hands the HMAC secret to the parser after checking the signing
// method, which blocks algorithm-confusion tokens ("none", RS256).
func (c *TokenCodec) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return c.secret, nil
}
