// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

// Package cache provides the bounded in-memory data structures used by the
// request middleware. The implementations favor O(1) operations because they
// sit on the hot path of every inbound request.
package cache

import "sync"

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 1000

// entry is a node in the doubly-linked recency list.
type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

// LRUCache is a fixed-capacity key/value store with least-recently-used
// eviction. Get, Put, Remove and eviction are all O(1): a hashmap provides
// lookup and a doubly-linked list with sentinel nodes provides ordering.
//
// Eviction happens only on Put when the cache is over capacity; there is no
// background sweep. The cache is safe for concurrent use; callers that need
// read-modify-write atomicity across multiple calls must serialize
// externally (see ratelimit.Limiter, which does).
type LRUCache[V any] struct {
	mu sync.Mutex

	// capacity is the maximum number of entries.
	capacity int

	// items maps keys to list nodes for O(1) lookup.
	items map[string]*entry[V]

	// head and tail are sentinels; head.next is the most recently used,
	// tail.prev the least recently used.
	head *entry[V]
	tail *entry[V]

	// stats
	hits   int64
	misses int64
}

// NewLRUCache creates an LRU cache holding at most capacity entries.
func NewLRUCache[V any](capacity int) *LRUCache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	c := &LRUCache[V]{
		capacity: capacity,
		items:    make(map[string]*entry[V], capacity),
		head:     &entry[V]{},
		tail:     &entry[V]{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// Get retrieves the value for key. Found entries are promoted to most
// recently used. The second return is false on a miss; Get never panics.
func (c *LRUCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.moveToFront(e)
		c.hits++
		return e.value, true
	}

	c.misses++
	var zero V
	return zero, false
}

// Peek retrieves the value for key without updating recency order.
func (c *LRUCache[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Put inserts or updates key and marks it most recently used. When an insert
// pushes the cache over capacity, the least recently used entry is evicted
// first.
func (c *LRUCache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.addToFront(e)
	c.items[key] = e

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// Remove deletes key from the cache. Returns true if it was present.
func (c *LRUCache[V]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.removeEntry(e)
		return true
	}
	return false
}

// Len returns the current number of entries.
func (c *LRUCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear removes all entries.
func (c *LRUCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry[V], c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Stats returns hit/miss counters and the current size.
func (c *LRUCache[V]) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.items)
}

// Internal methods (must be called with mu held).

func (c *LRUCache[V]) addToFront(e *entry[V]) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *LRUCache[V]) moveToFront(e *entry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.addToFront(e)
}

func (c *LRUCache[V]) removeEntry(e *entry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(c.items, e.key)
}

func (c *LRUCache[V]) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return // list is empty
	}
	c.removeEntry(oldest)
}
