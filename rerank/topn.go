// Package rerank 提供排序结果上的重排节点：截断与多样性。
package rerank

import (
	"context"

	"github.com/shopperos/tastekit/core"
	"github.com/shopperos/tastekit/pipeline"
)

// TopN 是 Top-N 截断节点，用于在过滤后截取前 N 个候选。
//
// 使用场景：
//   - 过采样召回 + 过滤之后截回请求的 k
//   - 控制结果数量；不足 N 时原样返回，绝不补齐
type TopN struct {
	// N 要保留的候选数量（Top N）
	// 如果 N <= 0，则返回所有候选（不截断）
	N int
}

func (n *TopN) Name() string {
	return "rerank.topn"
}

func (n *TopN) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopN) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 {
		return items, nil
	}
	if len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}

var _ pipeline.Node = (*TopN)(nil)
