// Package engine 是推荐引擎的门面：每个推荐操作一个方法，
// 结构化输入输出，失败一律是 core.DomainError。
//
// 引擎自身无状态：所有数据来自 snapshot.Handle 当前持有的不可变快照，
// 每个请求读一次指针后只对那份快照操作，天然支持请求级并行。
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/shopperos/tastekit/config"
	"github.com/shopperos/tastekit/core"
	"github.com/shopperos/tastekit/pipeline"
	"github.com/shopperos/tastekit/pkg/utils"
	"github.com/shopperos/tastekit/snapshot"
)

// Engine 是所有推荐操作的唯一入口。
type Engine struct {
	handle *snapshot.Handle
	tuning config.Tuning

	// tasteCache 是派生口味向量的可选写穿缓存；为 nil 时不缓存。
	// 缓存失败绝不影响请求结果。
	tasteCache core.Store
	tasteTTL   int

	// now 可注入，发现流的确定性噪声按 UTC 日期取种子
	now func() time.Time
}

// Option 配置 Engine。
type Option func(*Engine)

// WithTuning 覆盖默认调参。
func WithTuning(t config.Tuning) Option {
	return func(e *Engine) { e.tuning = t }
}

// WithTasteCache 启用派生口味向量的写穿缓存。ttl 单位秒，0 表示不过期。
func WithTasteCache(s core.Store, ttl int) Option {
	return func(e *Engine) {
		e.tasteCache = s
		e.tasteTTL = ttl
	}
}

// WithClock 注入时钟（测试用）。
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New 构造 Engine。handle 未加载时所有操作返回 LOAD_FAILED，直到一次成功的 Reload。
func New(handle *snapshot.Handle, opts ...Option) *Engine {
	e := &Engine{
		handle: handle,
		tuning: config.DefaultTuning(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reload 触发一次显式重载：旁路构建新快照并原子发布，失败时旧快照继续服务。
func (e *Engine) Reload(ctx context.Context) error {
	return e.handle.Reload()
}

// Status 是就绪状态，供边界层上报 readiness。
type Status struct {
	Loaded    bool `json:"loaded"`
	Products  int  `json:"products"`
	Users     int  `json:"users"`
	Dimension int  `json:"dimension"`
}

// Status 报告引擎是否可服务及加载规模。
func (e *Engine) Status(ctx context.Context) Status {
	snap, err := e.handle.Current()
	if err != nil {
		return Status{}
	}
	return Status{
		Loaded:    true,
		Products:  snap.Products(),
		Users:     snap.Users(),
		Dimension: snap.Dimension(),
	}
}

// current 取当前快照，未加载时返回 LOAD_FAILED。
func (e *Engine) current() (*snapshot.Snapshot, error) {
	return e.handle.Current()
}

// hydrate 把检索命中的矩阵行转为携带商品记录的候选。
// 行号与商品在加载时校验过一一对应，这里查不到说明快照被破坏，属于 bug 信号。
func hydrate(snap *snapshot.Snapshot, hits []core.Hit, source string) ([]*core.Item, error) {
	out := make([]*core.Item, 0, len(hits))
	for _, h := range hits {
		p := snap.ProductByRow(h.Row)
		if p == nil {
			return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternalError,
				fmt.Sprintf("engine: no product for embedding row %d", h.Row))
		}
		it := core.NewItem(p.ID)
		it.Score = h.Score
		it.Product = p
		it.PutLabel(core.LabelRecallSource, utils.Label{Value: source, Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// run 执行一条节点链。
func run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
	nodes ...pipeline.Node,
) ([]*core.Item, error) {
	p := &pipeline.Pipeline{Nodes: nodes}
	return p.Run(ctx, rctx, items)
}

func invalidInput(format string, args ...any) *core.DomainError {
	return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
		fmt.Sprintf("engine: "+format, args...))
}

// validatePriceRange 校验价格区间一致。
func validatePriceRange(min, max *float64) error {
	if min != nil && max != nil && *min > *max {
		return invalidInput("price_min %v > price_max %v", *min, *max)
	}
	return nil
}
