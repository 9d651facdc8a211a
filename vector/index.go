// Package vector 实现内存向量检索：core.Searcher 的暴力扫描实现。
//
// 平替 Milvus 等第三方向量数据库 SDK：几万量级商品下 O(n·d) 的
// 矩阵-向量乘已经足够快，且零部署成本。更大规模时换近似索引
// （HNSW/IVF）实现同一接口即可，调用方不感知。
package vector

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopperos/tastekit/core"
)

// Index 是嵌入矩阵上的只读检索索引。
//
// 特点：
//   - 构建时对每行做一次 L2 归一化，热路径上点积即余弦相似度
//   - 构建后不可变，可安全并发读
//   - 相同分数按行号升序，结果完全确定
type Index struct {
	rows [][]float64 // 归一化后的行向量
	dim  int
}

// NewIndex 从嵌入矩阵构建索引。行向量会被拷贝并归一化，不持有调用方内存。
// 矩阵为空或行维度不一致时返回 DIMENSION_MISMATCH。
func NewIndex(matrix [][]float64, dim int) (*Index, error) {
	if dim <= 0 {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeDimensionMismatch,
			fmt.Sprintf("vector: dimension must be positive, got %d", dim))
	}
	rows := make([][]float64, len(matrix))
	for i, row := range matrix {
		if len(row) != dim {
			return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeDimensionMismatch,
				fmt.Sprintf("vector: row %d has %d dims, want %d", i, len(row), dim))
		}
		rows[i] = Normalize(row)
	}
	return &Index{rows: rows, dim: dim}, nil
}

func (x *Index) Dimension() int { return x.dim }
func (x *Index) Rows() int      { return len(x.rows) }

// Row 返回第 i 行（归一化后）的拷贝。行号越界时返回 nil。
func (x *Index) Row(i int) []float64 {
	if i < 0 || i >= len(x.rows) {
		return nil
	}
	out := make([]float64, x.dim)
	copy(out, x.rows[i])
	return out
}

// Search 实现 core.Searcher 接口：全量点积 + TopK 截断。
func (x *Index) Search(query []float64, topK int) ([]core.Hit, error) {
	if len(query) != x.dim {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeDimensionMismatch,
			fmt.Sprintf("vector: query has %d dims, want %d", len(query), x.dim))
	}
	if topK <= 0 {
		return nil, core.NewDomainError(core.ModuleVector, core.ErrorCodeInvalidInput,
			fmt.Sprintf("vector: topK must be positive, got %d", topK))
	}

	hits := make([]core.Hit, len(x.rows))
	for i, row := range x.rows {
		hits[i] = core.Hit{Row: i, Score: Dot(query, row)}
	}

	// 分数降序；同分按行号升序，保证确定性
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Row < hits[j].Row
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

var _ core.Searcher = (*Index)(nil)

// Dot 计算点积。长度不一致时返回 0，调用方应先保证维度一致。
func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm 计算 L2 范数。
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalize 返回 v 的 L2 归一化拷贝。零向量原样拷贝返回（避免除零）。
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	n := Norm(v)
	if n == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = x / n
	}
	return out
}

// Mean 计算一组向量的均值。列表为空或维度不一致时返回 nil。
func Mean(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	out := make([]float64, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil
		}
		for i, x := range v {
			out[i] += x
		}
	}
	for i := range out {
		out[i] /= float64(len(vectors))
	}
	return out
}

// Axpy 计算 a + scale*b，返回新向量。维度不一致时返回 nil。
func Axpy(a []float64, scale float64, b []float64) []float64 {
	if len(a) != len(b) {
		return nil
	}
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + scale*b[i]
	}
	return out
}
