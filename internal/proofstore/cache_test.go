package proofstore

import "testing"

func key(n byte) CacheKey {
	var k CacheKey
	k[0] = n
	return k
}

func TestLRUCacheGetMissIncrementsCounter(t *testing.T) {
	c := newLRUCache(2)
	if _, ok := c.get(key(1)); ok {
		t.Fatal("expected miss on empty cache")
	}
	hits, misses := c.hitsAndMisses()
	if hits != 0 || misses != 1 {
		t.Fatalf("expected 0 hits / 1 miss, got %d/%d", hits, misses)
	}
}

func TestLRUCachePutThenGetHits(t *testing.T) {
	c := newLRUCache(2)
	want := VerificationResult{Valid: true, Message: "ok"}
	c.put(key(1), want)

	got, ok := c.get(key(1))
	if !ok {
		t.Fatal("expected hit after put")
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	hits, misses := c.hitsAndMisses()
	if hits != 1 || misses != 0 {
		t.Fatalf("expected 1 hit / 0 miss, got %d/%d", hits, misses)
	}
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := newLRUCache(2)
	c.put(key(1), VerificationResult{Message: "one"})
	c.put(key(2), VerificationResult{Message: "two"})

	// touch key(1) so key(2) becomes the least-recently-used entry.
	if _, ok := c.get(key(1)); !ok {
		t.Fatal("expected hit for key 1")
	}

	c.put(key(3), VerificationResult{Message: "three"})

	if _, ok := c.get(key(2)); ok {
		t.Fatal("expected key 2 to have been evicted")
	}
	if _, ok := c.get(key(1)); !ok {
		t.Fatal("expected key 1 to survive eviction")
	}
	if _, ok := c.get(key(3)); !ok {
		t.Fatal("expected key 3 to be present")
	}
}

func TestLRUCachePutOverwriteDoesNotGrow(t *testing.T) {
	c := newLRUCache(2)
	c.put(key(1), VerificationResult{Message: "first"})
	c.put(key(1), VerificationResult{Message: "second"})

	if got := c.len(); got != 1 {
		t.Fatalf("expected len 1 after overwrite, got %d", got)
	}
	got, ok := c.get(key(1))
	if !ok || got.Message != "second" {
		t.Fatalf("expected overwritten value, got %+v ok=%v", got, ok)
	}
}

func TestLRUCacheClearResetsEntriesNotCounters(t *testing.T) {
	c := newLRUCache(2)
	c.put(key(1), VerificationResult{})
	c.get(key(1))
	c.get(key(2))

	c.clear()

	if got := c.len(); got != 0 {
		t.Fatalf("expected empty cache after clear, got len %d", got)
	}
	hits, misses := c.hitsAndMisses()
	if hits != 1 || misses != 1 {
		t.Fatalf("expected counters to survive clear, got %d/%d", hits, misses)
	}
}
