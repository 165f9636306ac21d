// Joy - Content Approval and Client Collaboration Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/joy

package cache

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCache_Expiry(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(time.Minute)
	c.SetClock(func() time.Time { return now })

	c.Set("a", 1)
	c.SetWithTTL("b", 2, 10*time.Second)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %v, %v", v, ok)
	}

	now = now.Add(10 * time.Second)
	if _, ok := c.Get("b"); ok {
		t.Error("b should expire exactly at its TTL")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be live")
	}

	now = now.Add(time.Minute)
	if n := c.Sweep(); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Evictions != 2 || s.Keys != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	c.Delete("a")
	c.Delete("missing")
	if _, ok := c.Get("a"); ok {
		t.Error("a was not deleted")
	}

	c.Clear()
	if s := c.Stats(); s.Keys != 0 || s.Evictions != 3 {
		t.Errorf("stats after Clear = %+v", s)
	}
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()
	c := New(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := GenerateKey("k", j%10)
				c.Set(key, i)
				c.Get(key)
				if j%25 == 0 {
					c.Clear()
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()
	a := GenerateKey("report", map[string]interface{}{"days": 30, "workspace": "w1"})
	b := GenerateKey("report", map[string]interface{}{"workspace": "w1", "days": 30})
	c := GenerateKey("report", map[string]interface{}{"days": 7, "workspace": "w1"})

	if a != b {
		t.Errorf("equal params gave different keys: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different params gave the same key")
	}
	if !strings.HasPrefix(a, "report:") {
		t.Errorf("key %q lacks prefix", a)
	}
}
