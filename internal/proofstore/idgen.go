// Copyright 2025 Certen Protocol
//
// IdGen & Clock: fresh proof identifiers and monotonic timestamps (C1).

package proofstore

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// idGen produces version-4 UUIDs rendered in canonical hyphenated
// lowercase. uuid.NewRandom is safe for concurrent use; no internal state
// is required beyond the library's own entropy source.
type idGen struct{}

func newIDGen() *idGen {
	return &idGen{}
}

func (g *idGen) freshID() string {
	return uuid.New().String()
}

// clock hands out UTC, millisecond-resolution timestamps that are
// monotonic non-decreasing across successive calls on the same goroutine
// (and, incidentally, across goroutines, since the mutex serializes
// access to lastMillis).
type clock struct {
	mu         sync.Mutex
	lastMillis int64
}

func newClock() *clock {
	return &clock{}
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UTC().Truncate(time.Millisecond)
	if ms := now.UnixMilli(); ms <= c.lastMillis {
		now = time.UnixMilli(c.lastMillis + 1).UTC()
	}
	c.lastMillis = now.UnixMilli()
	return now
}
