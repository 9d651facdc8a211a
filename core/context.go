package core

import "github.com/shopperos/tastekit/pkg/utils"

// RecommendContext 承载一次请求的用户/场景信息，贯穿整个过滤与重排链路透传。
// UserID 必须是规范化后的形式；匿名请求（如冷启动发现流）UserID 为空。
type RecommendContext struct {
	UserID string // 规范化用户 ID，可为空
	Scene  string // 场景标识：catalog / alternatives / discovery / gifts / calibration

	// Labels 是请求级标签，可驱动链路行为（观测、explain）
	Labels map[string]utils.Label

	// Params 请求级上下文参数（过滤表达式的求值环境等）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
