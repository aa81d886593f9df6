package cache

import (
	"testing"
)

func TestCache_SetGet(t *testing.T) {
	c, err := New(16)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer c.Close()

	key := "postgres|events|a,b"
	value := `INSERT INTO "events" ("a", "b") VALUES ($1, $2)`

	c.Set(key, value)

	got, ok := c.Get(key)
	if !ok {
		t.Errorf("Get(%q) returned ok=false, want true", key)
	}
	if got != value {
		t.Errorf("Get(%q) = %q, want %q", key, got, value)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c, err := New(16)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer c.Close()

	if _, ok := c.Get("nonexistent"); ok {
		t.Errorf("Get(nonexistent) returned ok=true, want false")
	}
}

func TestCache_Delete(t *testing.T) {
	c, err := New(16)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer c.Close()

	key := "delete-test"
	c.Set(key, "value")
	c.Delete(key)

	if _, ok := c.Get(key); ok {
		t.Errorf("Get after Delete should return ok=false")
	}
}

func TestCache_GetOrRender(t *testing.T) {
	c, err := New(0)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	defer c.Close()

	calls := 0
	render := func() string {
		calls++
		return "SELECT 1"
	}

	first := c.GetOrRender("k", render)
	second := c.GetOrRender("k", render)

	if first != "SELECT 1" || second != "SELECT 1" {
		t.Errorf("GetOrRender returned %q and %q, want SELECT 1", first, second)
	}
	if calls != 1 {
		t.Errorf("Expected render to run once, ran %d times", calls)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
