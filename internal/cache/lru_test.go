// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestLRUCache_BasicOperations(t *testing.T) {
	c := NewLRUCache[int](3)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	if v, found := c.Get("a"); !found || v != 1 {
		t.Errorf("Expected a=1, got %d found=%v", v, found)
	}
	if v, found := c.Get("b"); !found || v != 2 {
		t.Errorf("Expected b=2, got %d found=%v", v, found)
	}
	if c.Len() != 3 {
		t.Errorf("Expected len 3, got %d", c.Len())
	}
}

func TestLRUCache_MissReturnsZero(t *testing.T) {
	c := NewLRUCache[int](2)

	if v, found := c.Get("absent"); found || v != 0 {
		t.Errorf("Expected miss with zero value, got %d found=%v", v, found)
	}
}

func TestLRUCache_CapacityNeverExceeded(t *testing.T) {
	c := NewLRUCache[int](5)

	for i := 0; i < 50; i++ {
		c.Put(fmt.Sprintf("key-%d", i), i)
		if c.Len() > 5 {
			t.Fatalf("Cache grew to %d entries, capacity is 5", c.Len())
		}
	}

	// The first-inserted keys are long gone.
	if _, found := c.Get("key-0"); found {
		t.Error("Expected key-0 to have been evicted")
	}
	if _, found := c.Get("key-49"); !found {
		t.Error("Expected key-49 to be present")
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2)

	c.Put("a", 1)
	c.Put("b", 2)

	// Access 'a' so 'b' becomes the LRU entry.
	c.Get("a")

	c.Put("c", 3)

	if _, found := c.Get("b"); found {
		t.Error("Expected 'b' to be evicted")
	}
	if _, found := c.Get("a"); !found {
		t.Error("Expected 'a' to survive")
	}
	if _, found := c.Get("c"); !found {
		t.Error("Expected 'c' to be present")
	}
}

func TestLRUCache_PutPromotesExisting(t *testing.T) {
	c := NewLRUCache[int](2)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("a", 10) // update, not insert; promotes 'a'
	c.Put("c", 3)  // evicts 'b'

	if v, found := c.Get("a"); !found || v != 10 {
		t.Errorf("Expected a=10 after update, got %d found=%v", v, found)
	}
	if _, found := c.Get("b"); found {
		t.Error("Expected 'b' to be evicted")
	}
}

func TestLRUCache_PeekDoesNotPromote(t *testing.T) {
	c := NewLRUCache[int](2)

	c.Put("a", 1)
	c.Put("b", 2)

	c.Peek("a")   // must not promote
	c.Put("c", 3) // 'a' is still LRU, so it goes

	if _, found := c.Get("a"); found {
		t.Error("Expected 'a' to be evicted; Peek must not update recency")
	}
}

func TestLRUCache_Remove(t *testing.T) {
	c := NewLRUCache[int](3)

	c.Put("a", 1)
	if !c.Remove("a") {
		t.Error("Expected Remove to report the entry present")
	}
	if c.Remove("a") {
		t.Error("Expected second Remove to report absent")
	}
	if c.Len() != 0 {
		t.Errorf("Expected empty cache, got len %d", c.Len())
	}
}

func TestLRUCache_Clear(t *testing.T) {
	c := NewLRUCache[int](3)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Expected len 0 after Clear, got %d", c.Len())
	}

	// Cache remains usable after Clear.
	c.Put("c", 3)
	if _, found := c.Get("c"); !found {
		t.Error("Expected 'c' after Clear+Put")
	}
}

func TestLRUCache_Stats(t *testing.T) {
	c := NewLRUCache[int](2)

	c.Put("a", 1)
	c.Get("a")
	c.Get("missing")

	hits, misses, size := c.Stats()
	if hits != 1 || misses != 1 || size != 1 {
		t.Errorf("Expected hits=1 misses=1 size=1, got %d/%d/%d", hits, misses, size)
	}
}

func TestLRUCache_DefaultCapacity(t *testing.T) {
	c := NewLRUCache[int](0)

	for i := 0; i < DefaultCapacity+10; i++ {
		c.Put(fmt.Sprintf("key-%d", i), i)
	}
	if c.Len() != DefaultCapacity {
		t.Errorf("Expected len %d, got %d", DefaultCapacity, c.Len())
	}
}

func TestLRUCache_ConcurrentAccess(t *testing.T) {
	c := NewLRUCache[int](100)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				key := fmt.Sprintf("key-%d", i%150)
				c.Put(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Cache exceeded capacity under concurrency: %d", c.Len())
	}
}
