package evaluator

import (
	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
	"github.com/raharrison/mathengine/internal/evalctx"
	"github.com/raharrison/mathengine/internal/operators"
)

// evalComprehension evaluates { expr for v1 in it1 for v2 in it2 if cond }.
// Iterators run in declaration order with the leftmost varying slowest: the
// nested loop below recurses depth-first, binding each iterator's variable
// in a fresh child scope per element (spec §5 Ordering, §4.10).
func (e *Evaluator) evalComprehension(n *ast.Comprehension, ctx *evalctx.Context) (ast.Value, error) {
	var results []ast.Node
	if err := e.comprehendLoop(n, 0, ctx, &results); err != nil {
		return nil, err
	}
	if err := checkVectorSize(ctx, len(results)); err != nil {
		return nil, err
	}
	return &ast.Vector{Elements: results}, nil
}

func (e *Evaluator) comprehendLoop(n *ast.Comprehension, depth int, ctx *evalctx.Context, out *[]ast.Node) error {
	if depth == len(n.Iterators) {
		if n.Condition != nil {
			cond, err := e.Eval(n.Condition, ctx)
			if err != nil {
				return err
			}
			if !operators.Truthy(cond) {
				return nil
			}
		}
		v, err := e.Eval(n.Expr, ctx)
		if err != nil {
			return err
		}
		*out = append(*out, v)
		return nil
	}

	it := n.Iterators[depth]
	iterable, err := e.Eval(it.Iterable, ctx)
	if err != nil {
		return err
	}
	iterable, err = operators.Materialize(iterable)
	if err != nil {
		return err
	}
	elems, err := iterableElements(iterable)
	if err != nil {
		return err
	}
	for _, el := range elems {
		child := ctx.Child()
		child.SetVariable(it.VarName, el)
		if err := e.comprehendLoop(n, depth+1, child, out); err != nil {
			return err
		}
	}
	return nil
}

// iterableElements supports vectors (and, transitively, ranges via
// Materialize) as comprehension sources (spec §4.4/§5).
func iterableElements(v ast.Value) ([]ast.Value, error) {
	vec, ok := v.(*ast.Vector)
	if !ok {
		return nil, errs.New(errs.TypeError, "cannot iterate over a %s", v.TypeName())
	}
	return operators.VectorValues(vec)
}
