// Wanderlight - Exploration Game Recommendation Service
// Copyright 2026 Wanderlight Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wanderlight/wanderlight

package cache

import (
	"strings"
	"testing"
	"time"
)

func TestAddGet(t *testing.T) {
	c := NewLRU[string](4, time.Minute)

	c.Add("a", "alpha")
	if got, ok := c.Get("a"); !ok || got != "alpha" {
		t.Errorf("Get(a) = %q, %v; want alpha, true", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) reported a hit")
	}
}

func TestAddReplaces(t *testing.T) {
	c := NewLRU[string](4, time.Minute)

	c.Add("a", "old")
	c.Add("a", "new")
	if got, _ := c.Get("a"); got != "new" {
		t.Errorf("Get(a) = %q, want new", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Get("a") // touch a, making b the LRU
	c.Add("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived eviction")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("new entry missing after eviction")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewLRU[int](4, time.Millisecond)

	c.Add("a", 1)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expired entry served as a hit")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after lazy expiry, want 0", c.Len())
	}
}

func TestRemoveIf(t *testing.T) {
	c := NewLRU[int](8, time.Minute)

	c.Add("rec:ada:hybrid", 1)
	c.Add("rec:ada:serendipity", 2)
	c.Add("rec:ben:hybrid", 3)

	c.RemoveIf(func(key string) bool { return strings.HasPrefix(key, "rec:ada:") })

	if _, ok := c.Get("rec:ada:hybrid"); ok {
		t.Error("matched entry survived RemoveIf")
	}
	if _, ok := c.Get("rec:ben:hybrid"); !ok {
		t.Error("unmatched entry removed by RemoveIf")
	}
}

func TestPurge(t *testing.T) {
	c := NewLRU[int](4, time.Minute)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Purge()

	if c.Len() != 0 {
		t.Errorf("Len after Purge = %d, want 0", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("purged entry still retrievable")
	}
}

func TestStats(t *testing.T) {
	c := NewLRU[int](4, time.Minute)

	c.Add("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("nope")

	hits, misses := c.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("Stats = %d hits, %d misses; want 2, 1", hits, misses)
	}
}
