// Package pipeline 提供"候选流经节点链"的组合抽象。
// 引擎的每个推荐操作都由 召回 → 过滤 → 重排 的节点链组成。
package pipeline

import (
	"context"

	"github.com/shopperos/tastekit/core"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
