package cache

import (
	"context"
	"testing"
	"time"
)

func newTestMemory(t *testing.T) *Memory {
	t.Helper()
	m, err := NewMemory(100, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMemory_GetSetDelete(t *testing.T) {
	t.Parallel()
	m := newTestMemory(t)
	ctx := context.Background()

	// Get non-existent.
	if _, ok := m.Get(ctx, "missing"); ok {
		t.Error("should not find missing key")
	}

	// Set and get.
	if !m.Set(ctx, "k1", []byte("v1"), time.Minute) {
		t.Fatal("set should succeed")
	}
	// otter processes Set asynchronously; wait briefly.
	time.Sleep(50 * time.Millisecond)

	val, ok := m.Get(ctx, "k1")
	if !ok {
		t.Fatal("should find k1")
	}
	if string(val) != "v1" {
		t.Errorf("value = %q, want %q", val, "v1")
	}

	// Overwrite replaces the value.
	m.Set(ctx, "k1", []byte("v2"), time.Minute)
	time.Sleep(50 * time.Millisecond)
	val, _ = m.Get(ctx, "k1")
	if string(val) != "v2" {
		t.Errorf("value after overwrite = %q, want %q", val, "v2")
	}

	// Delete, then delete again: both succeed, key stays gone.
	if !m.Delete(ctx, "k1") {
		t.Error("delete should succeed")
	}
	if !m.Delete(ctx, "k1") {
		t.Error("deleting a missing key should be a no-op success")
	}
	if _, ok := m.Get(ctx, "k1"); ok {
		t.Error("should not find deleted key")
	}
}

func TestMemory_TTLExpiry(t *testing.T) {
	t.Parallel()
	m, err := NewMemory(100, time.Hour) // long default TTL
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// Set with very short per-entry TTL.
	m.Set(ctx, "expiring", []byte("data"), 50*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	if _, ok := m.Get(ctx, "expiring"); ok {
		t.Error("entry should be expired")
	}
}

func TestMemory_OverwriteResetsExpiry(t *testing.T) {
	t.Parallel()
	m := newTestMemory(t)
	ctx := context.Background()

	m.Set(ctx, "k", []byte("old"), 60*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	m.Set(ctx, "k", []byte("new"), time.Minute)
	time.Sleep(50 * time.Millisecond)

	// Past the original expiry, but the re-set entry must survive.
	val, ok := m.Get(ctx, "k")
	if !ok {
		t.Fatal("re-set entry should not expire on the old schedule")
	}
	if string(val) != "new" {
		t.Errorf("value = %q, want %q", val, "new")
	}
}

func TestMemory_DeleteMatching(t *testing.T) {
	t.Parallel()
	m := newTestMemory(t)
	ctx := context.Background()

	m.Set(ctx, "sellers.list", []byte("a"), time.Minute)
	m.Set(ctx, "sellers.byid::0001", []byte("b"), time.Minute)
	m.Set(ctx, "products.list", []byte("c"), time.Minute)
	time.Sleep(50 * time.Millisecond)

	if !m.DeleteMatching(ctx, "sellers*") {
		t.Fatal("delete matching should succeed")
	}

	if _, ok := m.Get(ctx, "sellers.list"); ok {
		t.Error("sellers.list should be invalidated")
	}
	if _, ok := m.Get(ctx, "sellers.byid::0001"); ok {
		t.Error("sellers.byid should be invalidated")
	}
	if _, ok := m.Get(ctx, "products.list"); !ok {
		t.Error("products.list should be untouched")
	}
}

func TestMemory_DeleteMatchingBadPattern(t *testing.T) {
	t.Parallel()
	m := newTestMemory(t)

	if m.DeleteMatching(context.Background(), "[") {
		t.Error("malformed pattern should report failure")
	}
}

func TestMemory_Purge(t *testing.T) {
	t.Parallel()
	m := newTestMemory(t)
	ctx := context.Background()

	m.Set(ctx, "a", []byte("1"), time.Minute)
	m.Set(ctx, "b", []byte("2"), time.Minute)
	time.Sleep(50 * time.Millisecond)

	m.Purge(ctx)

	if _, ok := m.Get(ctx, "a"); ok {
		t.Error("purge should remove all keys")
	}
	if _, ok := m.Get(ctx, "b"); ok {
		t.Error("purge should remove all keys")
	}
}
