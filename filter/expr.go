package filter

import (
	"context"

	"github.com/shopperos/tastekit/core"
	"github.com/shopperos/tastekit/pkg/dsl"
)

// Expr 是表达式过滤器：用 CEL 表达式描述保留条件。
// 表达式返回 true 表示保留，false 表示过滤——与界面上"筛选条件"的语义一致。
//
// 示例：
//
//	prg, _ := dsl.Compile(`product.category == "Dress" && product.price < 80.0`)
//	f := &filter.Expr{Program: prg}
type Expr struct {
	Program *dsl.Program
}

// NewExpr 编译表达式并构造过滤器。表达式非法时返回 INVALID_INPUT。
func NewExpr(expr string) (*Expr, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleFilter, core.ErrorCodeInvalidInput,
			"filter: bad expression: "+err.Error())
	}
	return &Expr{Program: prg}, nil
}

func (f *Expr) Name() string { return "filter.expr" }

func (f *Expr) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Program == nil {
		return false, nil
	}
	keep, err := f.Program.Match(item, rctx)
	if err != nil {
		return false, core.NewDomainError(core.ModuleFilter, core.ErrorCodeInvalidInput,
			"filter: expression eval: "+err.Error())
	}
	return !keep, nil
}

var _ Filter = (*Expr)(nil)
