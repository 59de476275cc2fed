package memorycache

import (
	"context"
	"testing"
	"time"
)

func TestCache_SetAndGet(t *testing.T) {
	c := New(&Config{MaxEntries: 10, DefaultTTL: time.Minute})
	ctx := context.Background()

	if err := c.Set(ctx, "k1", "v1", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, found := c.Get(ctx, "k1")
	if !found {
		t.Fatal("Get() found = false, want true")
	}
	if got != "v1" {
		t.Errorf("Get() = %v, want v1", got)
	}

	if _, found := c.Get(ctx, "missing"); found {
		t.Error("Get(missing) found = true, want false")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New(&Config{MaxEntries: 10, DefaultTTL: time.Minute})
	ctx := context.Background()

	if err := c.Set(ctx, "k1", "v1", 10*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, found := c.Get(ctx, "k1"); found {
		t.Error("Get() returned an expired entry")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after lazy sweep, want 0", c.Len())
	}
}

func TestCache_Overwrite(t *testing.T) {
	c := New(&Config{MaxEntries: 10, DefaultTTL: time.Minute})
	ctx := context.Background()

	_ = c.Set(ctx, "k1", "v1", 0)
	_ = c.Set(ctx, "k1", "v2", 0)

	got, found := c.Get(ctx, "k1")
	if !found || got != "v2" {
		t.Errorf("Get() = %v/%v, want v2/true", got, found)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCache_LRUEviction(t *testing.T) {
	c := New(&Config{MaxEntries: 2, DefaultTTL: time.Minute, EnableMetrics: true})
	ctx := context.Background()

	_ = c.Set(ctx, "k1", "v1", 0)
	_ = c.Set(ctx, "k2", "v2", 0)

	// Touch k1 so k2 becomes the eviction candidate.
	if _, found := c.Get(ctx, "k1"); !found {
		t.Fatal("Get(k1) found = false, want true")
	}

	_ = c.Set(ctx, "k3", "v3", 0)

	if _, found := c.Get(ctx, "k2"); found {
		t.Error("k2 survived eviction, want least recently used evicted")
	}
	if _, found := c.Get(ctx, "k1"); !found {
		t.Error("k1 evicted, want most recently used kept")
	}

	m := c.Metrics()
	if m.KeysEvicted != 1 {
		t.Errorf("KeysEvicted = %d, want 1", m.KeysEvicted)
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := New(&Config{MaxEntries: 10, DefaultTTL: time.Minute})
	ctx := context.Background()

	_ = c.Set(ctx, "k1", "v1", 0)
	_ = c.Set(ctx, "k2", "v2", 0)

	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, found := c.Get(ctx, "k1"); found {
		t.Error("Get() found deleted key")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}
}

func TestCache_Metrics(t *testing.T) {
	c := New(&Config{MaxEntries: 10, DefaultTTL: time.Minute, EnableMetrics: true})
	ctx := context.Background()

	_ = c.Set(ctx, "k1", "v1", 0)
	c.Get(ctx, "k1")
	c.Get(ctx, "k1")
	c.Get(ctx, "missing")

	m := c.Metrics()
	if m.Hits != 2 || m.Misses != 1 {
		t.Errorf("Metrics() hits = %d misses = %d, want 2/1", m.Hits, m.Misses)
	}
	if got := m.HitRate(); got < 0.66 || got > 0.67 {
		t.Errorf("HitRate() = %f, want ~0.667", got)
	}

	disabled := New(&Config{MaxEntries: 10, DefaultTTL: time.Minute})
	if disabled.Metrics() != nil {
		t.Error("Metrics() != nil with metrics disabled")
	}
}
