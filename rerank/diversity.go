package rerank

import (
	"context"

	"github.com/shopperos/tastekit/core"
	"github.com/shopperos/tastekit/pipeline"
)

// Diversity 是多样性重排节点：按类目去重，每个类目只保留最先出现的候选。
// 礼物建议的 diversify 语义用它实现；没有类目信息的候选直接保留。
type Diversity struct{}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	seen := make(map[string]bool, 32)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}

		cate := ""
		if it.Product != nil {
			cate = it.Product.Category
		}

		if cate == "" {
			out = append(out, it)
			continue
		}
		if seen[cate] {
			continue
		}
		seen[cate] = true
		out = append(out, it)
	}

	return out, nil
}

var _ pipeline.Node = (*Diversity)(nil)
