package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUBasic(t *testing.T) {
	c := NewLRU(2, time.Minute)

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)

	if v, ok := c.Get("a"); !ok || v.(int) != 1 {
		t.Fatalf("expected a=1, got %v ok=%v", v, ok)
	}

	// "b" is now the oldest; adding "c" should evict it.
	c.Set("c", 3, 0)
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive eviction")
	}
}

func TestLRUTTL(t *testing.T) {
	c := NewLRU(8, time.Minute)
	c.Set("k", "v", 10*time.Millisecond)

	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected fresh entry to be present")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expected entry to expire")
	}
}

func TestLRURemove(t *testing.T) {
	c := NewLRU(8, time.Minute)
	c.Set("k", "v", 0)
	c.Remove("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected removed entry to be absent")
	}
	// removing a missing key is a no-op
	c.Remove("absent")
}

func TestLRUPurge(t *testing.T) {
	c := NewLRU(8, time.Minute)
	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i, 0)
	}
	c.Purge()
	for i := 0; i < 5; i++ {
		if _, ok := c.Get(fmt.Sprintf("k%d", i)); ok {
			t.Fatalf("expected k%d to be purged", i)
		}
	}
}
