// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

// Package ratelimit implements per-client windowed rate limiting with block
// escalation. Counters live in a bounded LRU cache so memory stays fixed no
// matter how many distinct clients appear; clients idle long enough to be
// evicted simply start a fresh window on their next request.
package ratelimit

import (
	"sync"
	"time"

	"github.com/casavia/casavia/internal/cache"
)

// Record tracks one client's position in the rate-limit state machine.
type Record struct {
	// Count is the number of requests in the current window.
	Count int

	// WindowStart anchors the current counting window.
	WindowStart time.Time

	// Blocked is set when Count exceeded the ceiling; the client cools
	// down until BlockUntil.
	Blocked    bool
	BlockUntil time.Time
}

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed bool

	// RetryAfter is the cool-down remaining when denied, zero when allowed.
	RetryAfter time.Duration
}

// Config holds the rate-limit policy. Values are policy knobs, not
// mechanism; see config.RateLimitConfig for defaults.
type Config struct {
	// PublicMax and AdminMax are the per-window ceilings for public and
	// privileged paths respectively.
	PublicMax int
	AdminMax  int

	Window        time.Duration
	BlockDuration time.Duration

	// CacheCapacity bounds the number of tracked clients.
	CacheCapacity int
}

// Limiter is a process-local, best-effort rate limiter. It counts attempts,
// not successes: an aborted request still consumed its slot. State is not
// shared across instances.
type Limiter struct {
	// mu serializes the read-modify-write cycle on records so two
	// concurrent requests from one client cannot both observe a stale
	// counter. The cache has its own lock, but atomicity across
	// Get-then-Put needs this outer one.
	mu      sync.Mutex
	records *cache.LRUCache[*Record]
	cfg     Config

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a Limiter with the given policy.
func New(cfg Config) *Limiter {
	return &Limiter{
		records: cache.NewLRUCache[*Record](cfg.CacheCapacity),
		cfg:     cfg,
		now:     time.Now,
	}
}

// Check runs one request from clientID through the state machine and
// returns the decision. privileged selects the higher admin ceiling.
//
// Check never panics; when a record is unusable the request is denied for a
// full block duration (fail closed). A limiter that fails open under
// internal faults is no limiter at all.
func (l *Limiter) Check(clientID string, privileged bool) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	rec, ok := l.records.Get(clientID)
	if !ok {
		rec = &Record{WindowStart: now}
	}
	if rec == nil {
		// Unusable state: fail closed.
		rec = &Record{Blocked: true, BlockUntil: now.Add(l.cfg.BlockDuration)}
		l.records.Put(clientID, rec)
		return Decision{Allowed: false, RetryAfter: l.cfg.BlockDuration}
	}

	if rec.Blocked {
		if now.Before(rec.BlockUntil) {
			l.records.Put(clientID, rec)
			return Decision{Allowed: false, RetryAfter: rec.BlockUntil.Sub(now)}
		}
		// Block expired: treat as a window rollover and proceed.
		rec.Count = 0
		rec.WindowStart = now
		rec.Blocked = false
		rec.BlockUntil = time.Time{}
	}

	if now.Sub(rec.WindowStart) > l.cfg.Window {
		rec.Count = 0
		rec.WindowStart = now
		rec.Blocked = false
	}

	rec.Count++

	ceiling := l.cfg.PublicMax
	if privileged {
		ceiling = l.cfg.AdminMax
	}

	if rec.Count > ceiling {
		rec.Blocked = true
		rec.BlockUntil = now.Add(l.cfg.BlockDuration)
		l.records.Put(clientID, rec)
		return Decision{Allowed: false, RetryAfter: l.cfg.BlockDuration}
	}

	l.records.Put(clientID, rec)
	return Decision{Allowed: true}
}

// Reset forgets all state for clientID. Used by tests and the admin
// unblock path.
func (l *Limiter) Reset(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records.Remove(clientID)
}

// TrackedClients returns the number of clients currently tracked.
func (l *Limiter) TrackedClients() int {
	return l.records.Len()
}

// RetryAfterSeconds converts a cool-down to the integer seconds carried in
// the Retry-After header, rounding up so a client that waits exactly the
// advertised time is never denied again.
func RetryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
