// Package tastekit 是一个内存个性化推荐引擎（Taste Kit）。
//
// 设计要点：
// - Snapshot-first: 嵌入矩阵/商品目录/口味向量一次加载、只读服务、原子重载
// - 单一相似度原语: 所有排序操作共享 core.Searcher（归一化后点积 = 余弦）
// - 链路可组合: 每个操作 = 召回 → 过滤 → 重排 的 Node 链，过滤重排均可插拔
package tastekit

import (
	"github.com/shopperos/tastekit/engine"
	"github.com/shopperos/tastekit/pipeline"
)

// 轻量 facade：便于用户直接 import "tastekit" 使用核心抽象。
type Engine = engine.Engine
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
