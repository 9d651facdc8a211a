package engine

import (
	"context"

	"github.com/shopperos/tastekit/core"
	"github.com/shopperos/tastekit/filter"
	"github.com/shopperos/tastekit/pipeline"
	"github.com/shopperos/tastekit/rerank"
)

// CatalogRequest 是个性化目录的输入。
type CatalogRequest struct {
	UserID string // 必填，可为任意原始形式
	K      int    // 期望数量，1..CatalogMaxK

	Category string   // 可选：只保留此类目
	PriceMin *float64 // 可选：价格下界
	PriceMax *float64 // 可选：价格上界

	// FilterExpr 可选：CEL 过滤表达式（见 pkg/dsl），返回 true 保留
	FilterExpr string
}

// CatalogResult 是个性化目录的输出。
// Partial 为 true 表示过滤后存量不足 k——是"匹配耗尽"而非错误，绝不凑数。
type CatalogResult struct {
	Items   []*core.Item
	Partial bool
}

// PersonalizedCatalog 返回按用户口味排序的商品目录。
//
// 算法：取用户口味向量（没有则 USER_NOT_FOUND，不做静默降级）→
// 按 k*OverSampleFactor 过采样打分 → 类目/价格/表达式过滤 → 截断到 k。
func (e *Engine) PersonalizedCatalog(ctx context.Context, req CatalogRequest) (*CatalogResult, error) {
	if req.K < 1 || req.K > e.tuning.CatalogMaxK {
		return nil, invalidInput("k must be in [1,%d], got %d", e.tuning.CatalogMaxK, req.K)
	}
	if err := validatePriceRange(req.PriceMin, req.PriceMax); err != nil {
		return nil, err
	}

	snap, err := e.current()
	if err != nil {
		return nil, err
	}

	taste, err := snap.TasteVector(req.UserID)
	if err != nil {
		return nil, err
	}

	filters, err := buildCatalogFilters(req.Category, req.PriceMin, req.PriceMax, req.FilterExpr, nil)
	if err != nil {
		return nil, err
	}

	hits, err := snap.Index().Search(taste, req.K*e.tuning.OverSampleFactor)
	if err != nil {
		return nil, err
	}

	items, err := hydrate(snap, hits, "taste")
	if err != nil {
		return nil, err
	}

	rctx := &core.RecommendContext{UserID: req.UserID, Scene: "catalog"}
	items, err = run(ctx, rctx, items,
		&filter.Node{Filters: filters},
		&rerank.TopN{N: req.K},
	)
	if err != nil {
		return nil, err
	}

	return &CatalogResult{
		Items:   items,
		Partial: len(items) < req.K,
	}, nil
}

// buildCatalogFilters 组装目录/礼物共用的过滤器链。
func buildCatalogFilters(
	category string,
	priceMin, priceMax *float64,
	filterExpr string,
	exclude []string,
) ([]filter.Filter, error) {
	var filters []filter.Filter
	if len(exclude) > 0 {
		filters = append(filters, filter.NewBlacklist(exclude))
	}
	if category != "" {
		filters = append(filters, &filter.Category{Want: category})
	}
	if priceMin != nil || priceMax != nil {
		filters = append(filters, &filter.PriceRange{Min: priceMin, Max: priceMax})
	}
	if filterExpr != "" {
		f, err := filter.NewExpr(filterExpr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// 保证引擎用到的节点实现 pipeline.Node
var (
	_ pipeline.Node = (*filter.Node)(nil)
	_ pipeline.Node = (*rerank.TopN)(nil)
)
