// Copyright 2025 Certen Protocol
//
// LRU Cache (C2): bounded CacheKey -> VerificationResult mapping with
// least-recently-used eviction and hit/miss counters. Guarded by its own
// mutex, independent of the ProofStore's reader-writer lock (spec.md §4.2,
// §5): verifier dispatch and store mutation never run under this lock.

package proofstore

import (
	"container/list"
	"sync"
)

type cacheEntry struct {
	key    CacheKey
	result VerificationResult
}

// lruCache implements the C2 component. All operations acquire mu; hits
// mutate access order, so reads and writes are mutually exclusive.
type lruCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List // front = most-recently-used
	items    map[CacheKey]*list.Element

	hits   int64
	misses int64
}

func newLRUCache(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[CacheKey]*list.Element, capacity),
	}
}

// get returns the cached result for key and promotes it to
// most-recently-used on a hit. The bool reports whether the key was
// present.
func (c *lruCache) get(key CacheKey) (VerificationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return VerificationResult{}, false
	}
	c.ll.MoveToFront(el)
	c.hits++
	return el.Value.(*cacheEntry).result, true
}

// put inserts or overwrites key's result, evicting the least-recently-used
// entry first if the cache is already at capacity.
func (c *lruCache) put(key CacheKey, result VerificationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).result = result
		c.ll.MoveToFront(el)
		return
	}

	if c.ll.Len() >= c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}

	el := c.ll.PushFront(&cacheEntry{key: key, result: result})
	c.items[key] = el
}

func (c *lruCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll.Init()
	c.items = make(map[CacheKey]*list.Element, c.capacity)
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// hitsAndMisses returns a coherent snapshot of the running hit/miss
// counters, taken under the cache's own guard per spec.md §4.6.
func (c *lruCache) hitsAndMisses() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
