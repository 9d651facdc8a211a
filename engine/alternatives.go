package engine

import (
	"context"

	"github.com/shopperos/tastekit/core"
	"github.com/shopperos/tastekit/filter"
	"github.com/shopperos/tastekit/pkg/idkit"
	"github.com/shopperos/tastekit/pkg/utils"
	"github.com/shopperos/tastekit/rerank"
)

// AlternativesRequest 是替代品推荐的输入。
type AlternativesRequest struct {
	ProductID string // 源商品 ID，任意原始形式
	K         int    // 期望数量，1..AlternativesMaxK
}

// AlternativesResult 是替代品推荐的输出。
type AlternativesResult struct {
	Source *core.Product // 源商品
	Items  []*core.Item  // 相似替代品，带相似度与理由，绝不包含源商品自身
}

// Alternatives 以源商品的嵌入为查询返回最相似的替代品。
// 源商品不存在时返回 PRODUCT_NOT_FOUND；结果始终排除源商品自身。
func (e *Engine) Alternatives(ctx context.Context, req AlternativesRequest) (*AlternativesResult, error) {
	if req.K < 1 || req.K > e.tuning.AlternativesMaxK {
		return nil, invalidInput("k must be in [1,%d], got %d", e.tuning.AlternativesMaxK, req.K)
	}

	snap, err := e.current()
	if err != nil {
		return nil, err
	}

	source, err := snap.Product(req.ProductID)
	if err != nil {
		return nil, err
	}
	query := snap.EmbeddingRow(source.EmbeddingIndex)

	// 自身必然以相似度 1.0 命中第一位，过采样一倍再排除
	hits, err := snap.Index().Search(query, req.K*2)
	if err != nil {
		return nil, err
	}

	items, err := hydrate(snap, hits, "similar")
	if err != nil {
		return nil, err
	}

	rctx := &core.RecommendContext{UserID: "", Scene: "alternatives"}
	items, err = run(ctx, rctx, items,
		&filter.Node{Filters: []filter.Filter{
			filter.NewBlacklist([]string{idkit.Normalize(req.ProductID)}),
		}},
		&rerank.TopN{N: req.K},
	)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		it.PutLabel(core.LabelReason, utils.Label{
			Value:  alternativeReason(source, it.Product),
			Source: "engine",
		})
	}

	return &AlternativesResult{Source: source, Items: items}, nil
}

// alternativeReason 生成人类可读的替代理由。
func alternativeReason(source, candidate *core.Product) string {
	if candidate == nil {
		return "similar style"
	}
	if candidate.Category == source.Category && candidate.Category != "" {
		return "same category: " + source.Category
	}
	if candidate.Color == source.Color && candidate.Color != "" {
		return "same color: " + source.Color
	}
	return "similar style"
}
