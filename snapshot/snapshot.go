// Package snapshot 实现向量/商品目录的一次性加载与只读查询。
//
// 快照一经发布不可变：嵌入矩阵、商品元数据、用户口味向量与辅助榜单
// 全部在加载时构建完成并校验一致性，之后可被任意多个请求并发读。
// 重载走 Handle 的原子指针交换，绝不原地修改。
package snapshot

import (
	"fmt"
	"sort"

	"github.com/shopperos/tastekit/core"
	"github.com/shopperos/tastekit/pkg/idkit"
	"github.com/shopperos/tastekit/vector"
)

// Snapshot 是一份完整、自洽、不可变的数据快照。
type Snapshot struct {
	products map[string]*core.Product // 规范化 ID -> 商品
	byRow    []*core.Product          // 矩阵行号 -> 商品
	index    *vector.Index
	tastes   map[string][]float64 // 规范化用户 ID -> 归一化口味向量
	aux      map[string][]core.AuxEntry
}

// Product 查找商品。ID 在这里统一走 idkit 规范化，调用方传原始形式即可。
func (s *Snapshot) Product(rawID string) (*core.Product, error) {
	p, ok := s.products[idkit.Normalize(rawID)]
	if !ok {
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeProductNotFound,
			fmt.Sprintf("snapshot: product not found: %s", rawID))
	}
	return p, nil
}

// ProductByRow 按矩阵行号查商品。行号越界时返回 nil。
func (s *Snapshot) ProductByRow(row int) *core.Product {
	if row < 0 || row >= len(s.byRow) {
		return nil
	}
	return s.byRow[row]
}

// ProductVector 返回商品的嵌入行（归一化后的拷贝）。
func (s *Snapshot) ProductVector(rawID string) ([]float64, error) {
	p, err := s.Product(rawID)
	if err != nil {
		return nil, err
	}
	return s.index.Row(p.EmbeddingIndex), nil
}

// EmbeddingRow 按行号取嵌入向量（归一化后的拷贝）。越界返回 nil。
func (s *Snapshot) EmbeddingRow(row int) []float64 {
	return s.index.Row(row)
}

// TasteVector 查找用户口味向量的拷贝。
func (s *Snapshot) TasteVector(rawUserID string) ([]float64, error) {
	v, ok := s.tastes[idkit.Normalize(rawUserID)]
	if !ok {
		return nil, core.NewDomainError(core.ModuleSnapshot, core.ErrorCodeUserNotFound,
			fmt.Sprintf("snapshot: no taste vector for user: %s", rawUserID))
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out, nil
}

// HasTaste 检查用户是否有口味向量（发现流的冷启动分支用）。
func (s *Snapshot) HasTaste(rawUserID string) bool {
	_, ok := s.tastes[idkit.Normalize(rawUserID)]
	return ok
}

// Aux 返回辅助榜单（popular / trending），保持加载顺序。未知名称返回 nil。
func (s *Snapshot) Aux(name string) []core.AuxEntry {
	return s.aux[name]
}

// Index 返回检索索引（core.Searcher 的实现）。
func (s *Snapshot) Index() *vector.Index { return s.index }

// Products 返回商品数。
func (s *Snapshot) Products() int { return len(s.products) }

// Users 返回拥有口味向量的用户数。
func (s *Snapshot) Users() int { return len(s.tastes) }

// Dimension 返回嵌入维度。
func (s *Snapshot) Dimension() int { return s.index.Dimension() }

// CategoryCount 是单个类目及其商品数。
type CategoryCount struct {
	Name  string
	Count int
}

// Categories 返回所有类目，按商品数降序、同数按名称升序。
// 校准选品的分层抽样依赖这个确定性顺序。
func (s *Snapshot) Categories() []CategoryCount {
	counts := make(map[string]int)
	for _, p := range s.byRow {
		if p.Category != "" {
			counts[p.Category]++
		}
	}
	out := make([]CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, CategoryCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CategoryProducts 返回某类目下的全部商品，按嵌入行号升序（确定性顺序）。
func (s *Snapshot) CategoryProducts(category string) []*core.Product {
	var out []*core.Product
	for _, p := range s.byRow {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
