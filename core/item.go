package core

import "github.com/shopperos/tastekit/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选商品、分数、标签。
// Labels 用于解释与观测（召回来源、推荐理由）；Score 用于排序决策。
// Product 在截断后由引擎补齐（hydrate），链路中段可能为 nil。
type Item struct {
	ID      string
	Score   float64
	Product *Product
	Labels  map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 获取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}

// 常用 Label key
const (
	LabelRecallSource = "recall_source" // 候选来源：taste / similar / popular / trending
	LabelReason       = "reason"        // 人类可读的推荐理由
	LabelFiltered     = "filtered"      // 被过滤标记（调试/观测用）
)
