package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopperos/tastekit/core"
)

func TestMemoryStore(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "k1", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := ms.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("Get = %q, want %q", got, "v1")
	}

	if _, err := ms.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("missing key: got %v, want not-found", err)
	}

	if err := ms.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := ms.Get(ctx, "k1"); !core.IsStoreNotFound(err) {
		t.Errorf("deleted key: got %v, want not-found", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.Set(ctx, "k", []byte("v"), 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := ms.Get(ctx, "k"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, err := ms.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Errorf("expired key: got %v, want not-found", err)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	ms := NewMemoryStore()
	defer ms.Close()
	ctx := context.Background()

	if err := ms.BatchSet(ctx, map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}); err != nil {
		t.Fatalf("BatchSet: %v", err)
	}

	got, err := ms.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("BatchGet: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("BatchGet returned %d entries, want 2", len(got))
	}
	if string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet = %v", got)
	}
}
