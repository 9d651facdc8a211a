// Package dsl 是商品过滤表达式的求值器，使用 CEL (Common Expression Language) 实现。
// CEL 是 Google 开发的表达式语言，类型安全、高性能、线程安全。
//
// 表达式语法（CEL 标准语法）：
//   - 字段：product.category == "Dress" / product.price < 100.0
//   - 逻辑：product.category == "Bag" && product.price >= 20.0
//   - 包含：product.name.contains("silk")
//   - 分数：item.score > 0.7
//
// 调用方（边界层）可以把用户输入的筛选条件编译为 Program，
// 由 filter.Expr 在链路中逐个候选求值。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/shopperos/tastekit/core"
	"github.com/shopperos/tastekit/pkg/conv"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("product", cel.DynType),
		cel.Variable("item", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	if celEnv == nil && err == nil {
		err = fmt.Errorf("cel env not initialized")
	}
	return celEnv, err
}

// Program 是编译后的过滤表达式，可跨请求复用，线程安全。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。表达式必须返回布尔值。
// 编译一次、求值多次：一次请求会对上百个候选逐个 Match。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %v", err)
	}

	return &Program{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式文本。
func (p *Program) Expr() string { return p.expr }

// Match 对单个候选求值，返回布尔结果。
// 候选尚未 hydrate（Product 为 nil）时只暴露 item 字段，product 为空 map。
func (p *Program) Match(it *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(it, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(it *core.Item, rctx *core.RecommendContext) map[string]interface{} {
	product := map[string]interface{}{}
	if it != nil && it.Product != nil {
		product = map[string]interface{}{
			"id":       it.Product.ID,
			"name":     it.Product.Name,
			"category": it.Product.Category,
			"color":    it.Product.Color,
			"brand":    it.Product.Brand,
			"price":    it.Product.Price,
		}
	}

	item := map[string]interface{}{}
	if it != nil {
		item = map[string]interface{}{
			"id":    it.ID,
			"score": it.Score,
		}
	}

	rc := map[string]interface{}{}
	if rctx != nil {
		rc = map[string]interface{}{
			"user_id": rctx.UserID,
			"scene":   rctx.Scene,
			"params":  normalizeParams(rctx.Params),
		}
	}

	return map[string]interface{}{
		"product": product,
		"item":    item,
		"rctx":    rc,
	}
}

// normalizeParams 把请求参数里的数值统一转为 float64。
// CEL 不做 int/double 隐式转换，调用方塞 int 而表达式写 100.0 会直接求值失败，
// 这里借 conv 归一后两种写法都能比较。bool/string 原样透传。
func normalizeParams(params map[string]any) map[string]any {
	if len(params) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		switch v.(type) {
		case bool, string:
			out[k] = v
			continue
		}
		if f, ok := conv.ToFloat64(v); ok {
			out[k] = f
			continue
		}
		out[k] = v
	}
	return out
}
