package vector

import (
	"math"
	"testing"

	"github.com/shopperos/tastekit/core"
)

func TestIndexSearch(t *testing.T) {
	matrix := [][]float64{
		{1, 0},
		{0, 1},
		{0.7, 0.7},
	}
	idx, err := NewIndex(matrix, 2)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	hits, err := idx.Search([]float64{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	wantRows := []int{0, 2, 1}
	if len(hits) != len(wantRows) {
		t.Fatalf("got %d hits, want %d", len(hits), len(wantRows))
	}
	for i, want := range wantRows {
		if hits[i].Row != want {
			t.Errorf("hits[%d].Row = %d, want %d", i, hits[i].Row, want)
		}
	}
	if math.Abs(hits[0].Score-1.0) > 1e-9 {
		t.Errorf("hits[0].Score = %v, want 1.0", hits[0].Score)
	}
	// 行 2 构建时已归一化，点积即余弦
	if math.Abs(hits[1].Score-1/math.Sqrt2) > 1e-9 {
		t.Errorf("hits[1].Score = %v, want %v", hits[1].Score, 1/math.Sqrt2)
	}
}

func TestIndexSearchTopKTruncates(t *testing.T) {
	idx, err := NewIndex([][]float64{{1, 0}, {0, 1}, {0.5, 0.5}}, 2)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	hits, err := idx.Search([]float64{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
}

func TestIndexSearchTieBreak(t *testing.T) {
	// 两行完全相同，分数持平，行号小者在前
	idx, err := NewIndex([][]float64{{0, 1}, {1, 0}, {1, 0}}, 2)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	hits, err := idx.Search([]float64{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if hits[0].Row != 1 || hits[1].Row != 2 {
		t.Errorf("tie-break order = [%d %d], want [1 2]", hits[0].Row, hits[1].Row)
	}
}

func TestIndexSearchErrors(t *testing.T) {
	idx, err := NewIndex([][]float64{{1, 0}}, 2)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	if _, err := idx.Search([]float64{1, 0, 0}, 1); !core.IsDimensionMismatch(err) {
		t.Errorf("wrong query dim: got %v, want DIMENSION_MISMATCH", err)
	}
	if _, err := idx.Search([]float64{1, 0}, 0); !core.IsInvalidInput(err) {
		t.Errorf("topK=0: got %v, want INVALID_INPUT", err)
	}
}

func TestNewIndexErrors(t *testing.T) {
	if _, err := NewIndex([][]float64{{1, 0}}, 0); !core.IsDimensionMismatch(err) {
		t.Errorf("dim=0: got %v, want DIMENSION_MISMATCH", err)
	}
	if _, err := NewIndex([][]float64{{1, 0}, {1}}, 2); !core.IsDimensionMismatch(err) {
		t.Errorf("ragged matrix: got %v, want DIMENSION_MISMATCH", err)
	}
}

func TestIndexRowReturnsCopy(t *testing.T) {
	idx, err := NewIndex([][]float64{{3, 4}}, 2)
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	row := idx.Row(0)
	if math.Abs(row[0]-0.6) > 1e-9 || math.Abs(row[1]-0.8) > 1e-9 {
		t.Fatalf("Row(0) = %v, want [0.6 0.8]", row)
	}
	row[0] = 99
	if again := idx.Row(0); math.Abs(again[0]-0.6) > 1e-9 {
		t.Errorf("Row did not copy: internal row mutated to %v", again)
	}
	if idx.Row(-1) != nil || idx.Row(1) != nil {
		t.Errorf("out-of-range Row should return nil")
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]float64{3, 4})
	if math.Abs(got[0]-0.6) > 1e-9 || math.Abs(got[1]-0.8) > 1e-9 {
		t.Errorf("Normalize([3 4]) = %v, want [0.6 0.8]", got)
	}

	zero := Normalize([]float64{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("Normalize zero vector = %v, want [0 0]", zero)
	}
}

func TestMean(t *testing.T) {
	got := Mean([][]float64{{1, 0}, {0, 1}})
	if math.Abs(got[0]-0.5) > 1e-9 || math.Abs(got[1]-0.5) > 1e-9 {
		t.Errorf("Mean = %v, want [0.5 0.5]", got)
	}
	if Mean(nil) != nil {
		t.Error("Mean(nil) should return nil")
	}
	if Mean([][]float64{{1, 0}, {1}}) != nil {
		t.Error("Mean with ragged input should return nil")
	}
}

func TestAxpy(t *testing.T) {
	got := Axpy([]float64{1, 2}, -0.5, []float64{2, 2})
	if math.Abs(got[0]-0) > 1e-9 || math.Abs(got[1]-1) > 1e-9 {
		t.Errorf("Axpy = %v, want [0 1]", got)
	}
	if Axpy([]float64{1}, 1, []float64{1, 2}) != nil {
		t.Error("Axpy with mismatched dims should return nil")
	}
}

func TestDot(t *testing.T) {
	if got := Dot([]float64{1, 2}, []float64{3, 4}); got != 11 {
		t.Errorf("Dot = %v, want 11", got)
	}
	if got := Dot([]float64{1}, []float64{1, 2}); got != 0 {
		t.Errorf("Dot with mismatched dims = %v, want 0", got)
	}
}
