package engine

import (
	"context"

	"github.com/shopperos/tastekit/core"
)

// CalibrationProducts 返回 onboarding 校准用的多样化种子商品。
//
// 分层策略（确定性，无随机）：类目按商品数降序（同数按名称升序）取前
// CalibrationCategories 个，轮转依次从每个类目取一件（类目内按嵌入行号
// 升序），直到凑满 n。类目覆盖优先于类目深度：用户先见到尽可能多的风格。
//
// n 的上下界都强制：越界返回 INVALID_INPUT。
func (e *Engine) CalibrationProducts(ctx context.Context, n int) ([]*core.Product, error) {
	if n < e.tuning.CalibrationMin || n > e.tuning.CalibrationMax {
		return nil, invalidInput("n must be in [%d,%d], got %d",
			e.tuning.CalibrationMin, e.tuning.CalibrationMax, n)
	}

	snap, err := e.current()
	if err != nil {
		return nil, err
	}

	categories := snap.Categories()
	if len(categories) > e.tuning.CalibrationCategories {
		categories = categories[:e.tuning.CalibrationCategories]
	}

	// 类目内商品列表，保持嵌入行号升序
	buckets := make([][]*core.Product, len(categories))
	for i, c := range categories {
		buckets[i] = snap.CategoryProducts(c.Name)
	}

	// 无类目信息的商品目录：退化为按行号顺序取前 n 件
	if len(buckets) == 0 {
		out := make([]*core.Product, 0, n)
		for row := 0; row < snap.Products() && len(out) < n; row++ {
			out = append(out, snap.ProductByRow(row))
		}
		return out, nil
	}

	out := make([]*core.Product, 0, n)
	for depth := 0; len(out) < n; depth++ {
		picked := false
		for _, bucket := range buckets {
			if depth >= len(bucket) {
				continue
			}
			out = append(out, bucket[depth])
			picked = true
			if len(out) >= n {
				break
			}
		}
		// 所有类目都取空了：目录比 n 小，返回现有的，绝不凑数
		if !picked {
			break
		}
	}
	return out, nil
}
