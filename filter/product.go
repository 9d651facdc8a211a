package filter

import (
	"context"

	"github.com/shopperos/tastekit/core"
)

// Category 只保留指定类目的商品。Want 为空时不过滤。
type Category struct {
	Want string
}

func (f *Category) Name() string { return "filter.category" }

func (f *Category) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Want == "" {
		return false, nil
	}
	if item == nil || item.Product == nil {
		return true, nil
	}
	return item.Product.Category != f.Want, nil
}

// PriceRange 按价格区间过滤。Min/Max 为 nil 时对应边界不限。
type PriceRange struct {
	Min *float64
	Max *float64
}

func (f *PriceRange) Name() string { return "filter.price" }

func (f *PriceRange) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Min == nil && f.Max == nil {
		return false, nil
	}
	if item == nil || item.Product == nil {
		return true, nil
	}
	price := item.Product.Price
	if f.Min != nil && price < *f.Min {
		return true, nil
	}
	if f.Max != nil && price > *f.Max {
		return true, nil
	}
	return false, nil
}

// Blacklist 过滤掉指定 ID 的商品（排除自身、排除已滑过的种子等）。
// ID 必须已规范化，构造时由调用方保证。
type Blacklist struct {
	IDs map[string]bool
}

// NewBlacklist 从 ID 列表构造黑名单过滤器。
func NewBlacklist(ids []string) *Blacklist {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return &Blacklist{IDs: set}
}

func (f *Blacklist) Name() string { return "filter.blacklist" }

func (f *Blacklist) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	return f.IDs[item.ID], nil
}

// ExcludeCategories 过滤掉指定类目的商品（礼物场景排除内衣/袜类等）。
type ExcludeCategories struct {
	Categories map[string]bool
}

// NewExcludeCategories 从类目列表构造排除过滤器。
func NewExcludeCategories(categories []string) *ExcludeCategories {
	set := make(map[string]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return &ExcludeCategories{Categories: set}
}

func (f *ExcludeCategories) Name() string { return "filter.exclude_categories" }

func (f *ExcludeCategories) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Product == nil {
		return true, nil
	}
	return f.Categories[item.Product.Category], nil
}

// 接口实现检查
var (
	_ Filter = (*Category)(nil)
	_ Filter = (*PriceRange)(nil)
	_ Filter = (*Blacklist)(nil)
	_ Filter = (*ExcludeCategories)(nil)
)
