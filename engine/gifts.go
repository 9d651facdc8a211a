package engine

import (
	"context"

	"github.com/shopperos/tastekit/core"
	"github.com/shopperos/tastekit/filter"
	"github.com/shopperos/tastekit/pipeline"
	"github.com/shopperos/tastekit/pkg/idkit"
	"github.com/shopperos/tastekit/pkg/utils"
	"github.com/shopperos/tastekit/rerank"
)

// GiftRequest 是礼物建议的输入：用喜欢/不喜欢的商品描述收礼人画像。
type GiftRequest struct {
	LikedIDs    []string // 必填非空，否则 INSUFFICIENT_SIGNAL
	DislikedIDs []string // 可选
	K           int      // 期望数量，1..GiftMaxK

	// 收礼人约束
	Category          string   // 可选：只保留此类目
	PriceMin          *float64 // 可选
	PriceMax          *float64 // 可选
	ExcludeCategories []string // 可选：排除不适合送礼的类目

	// Diversify 为 true 时每个类目最多保留一件
	Diversify bool

	// FilterExpr 可选 CEL 表达式
	FilterExpr string
}

// GiftResult 是礼物建议的输出。
type GiftResult struct {
	Items []*core.Item
}

// GiftSuggestions 基于喜欢/不喜欢的商品聚合出目标口味并返回排序建议。
//
// 聚合：query = mean(liked) - DislikeWeight * mean(disliked)，重新归一化。
// 扣减用小数权重：把查询推离不喜欢的风格，而不是被它主导。
// 种子商品（liked/disliked）始终从结果中排除。
func (e *Engine) GiftSuggestions(ctx context.Context, req GiftRequest) (*GiftResult, error) {
	if req.K < 1 || req.K > e.tuning.GiftMaxK {
		return nil, invalidInput("k must be in [1,%d], got %d", e.tuning.GiftMaxK, req.K)
	}
	if err := validatePriceRange(req.PriceMin, req.PriceMax); err != nil {
		return nil, err
	}

	snap, err := e.current()
	if err != nil {
		return nil, err
	}

	query, liked, err := e.aggregateTaste(snap, req.LikedIDs, req.DislikedIDs)
	if err != nil {
		return nil, err
	}

	exclude := append(idkit.NormalizeAll(req.LikedIDs), idkit.NormalizeAll(req.DislikedIDs)...)
	filters, err := buildCatalogFilters(req.Category, req.PriceMin, req.PriceMax, req.FilterExpr, exclude)
	if err != nil {
		return nil, err
	}
	if len(req.ExcludeCategories) > 0 {
		filters = append(filters, filter.NewExcludeCategories(req.ExcludeCategories))
	}

	hits, err := snap.Index().Search(query, req.K*e.tuning.GiftOverSampleFactor)
	if err != nil {
		return nil, err
	}

	items, err := hydrate(snap, hits, "gift_taste")
	if err != nil {
		return nil, err
	}

	nodes := []pipeline.Node{&filter.Node{Filters: filters}}
	if req.Diversify {
		nodes = append(nodes, &rerank.Diversity{})
	}
	nodes = append(nodes, &rerank.TopN{N: req.K})

	rctx := &core.RecommendContext{Scene: "gifts"}
	items, err = run(ctx, rctx, items, nodes...)
	if err != nil {
		return nil, err
	}

	topCategory, topColor := dominantTraits(liked)
	for _, it := range items {
		it.PutLabel(core.LabelReason, utils.Label{
			Value:  giftReason(it.Product, topCategory, topColor),
			Source: "engine",
		})
	}

	return &GiftResult{Items: items}, nil
}

// dominantTraits 统计喜欢商品中出现最多的类目和颜色（并列时取字典序最小，保证确定性）。
func dominantTraits(liked []*core.Product) (category, color string) {
	catCount := make(map[string]int)
	colorCount := make(map[string]int)
	for _, p := range liked {
		if p.Category != "" {
			catCount[p.Category]++
		}
		if p.Color != "" {
			colorCount[p.Color]++
		}
	}
	return maxKey(catCount), maxKey(colorCount)
}

func maxKey(counts map[string]int) string {
	best := ""
	bestN := 0
	for k, n := range counts {
		if n > bestN || (n == bestN && best != "" && k < best) {
			best, bestN = k, n
		}
	}
	return best
}

// giftReason 生成人类可读的送礼理由。
func giftReason(p *core.Product, topCategory, topColor string) string {
	if p == nil {
		return "complements their list"
	}
	if topCategory != "" && p.Category == topCategory {
		return "matches their love of " + topCategory
	}
	if topColor != "" && p.Color == topColor {
		return "in their favorite color (" + topColor + ")"
	}
	return "complements their list"
}
