package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopperos/tastekit/core"
)

func TestHandleNotLoaded(t *testing.T) {
	h := NewHandle(t.TempDir())
	if h.Loaded() {
		t.Error("Loaded() = true before any Reload")
	}
	if _, err := h.Current(); !core.IsLoadFailed(err) {
		t.Errorf("Current before load: got %v, want LOAD_FAILED", err)
	}
}

func TestOpen(t *testing.T) {
	dir := validFixture().write(t)
	h, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !h.Loaded() {
		t.Error("Loaded() = false after Open")
	}
	snap, err := h.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if snap.Products() != 3 {
		t.Errorf("Products() = %d, want 3", snap.Products())
	}
}

func TestOpenBadDir(t *testing.T) {
	if _, err := Open(t.TempDir()); !core.IsLoadFailed(err) {
		t.Errorf("Open empty dir: got %v, want LOAD_FAILED", err)
	}
}

func TestReloadKeepsPriorSnapshotOnFailure(t *testing.T) {
	dir := validFixture().write(t)
	h, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	before, _ := h.Current()

	// 损坏目录后重载必须失败，且旧快照继续可用
	if err := os.Remove(filepath.Join(dir, FileEmbedding)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := h.Reload(); !core.IsLoadFailed(err) {
		t.Fatalf("Reload on broken dir: got %v, want LOAD_FAILED", err)
	}

	after, err := h.Current()
	if err != nil {
		t.Fatalf("Current after failed reload: %v", err)
	}
	if after != before {
		t.Error("failed Reload replaced the serving snapshot")
	}
}

func TestReloadSwapsSnapshot(t *testing.T) {
	f := validFixture()
	dir := f.write(t)
	h, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// 往目录里追加一个商品再重载
	f.products = append(f.products, core.Product{
		ID: "4", Name: "Beige Bag", Category: "Bag", Price: 40, EmbeddingIndex: 3,
	})
	f.vectors = append(f.vectors, []float64{0.5, 0.5})
	writeJSON(t, filepath.Join(dir, FileProducts), f.products)
	writeJSON(t, filepath.Join(dir, FileEmbedding), embeddingFile{Dimension: f.dimension, Vectors: f.vectors})

	if err := h.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	snap, _ := h.Current()
	if snap.Products() != 4 {
		t.Errorf("Products() after reload = %d, want 4", snap.Products())
	}
}
