package mathengine

import (
	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
)

// checkFeatures walks node rejecting constructs disabled by the engine's
// feature toggles (spec §6). Disabling a feature is a parse-time gate, not
// a lexer/parser change: the grammar always accepts the syntax, and the
// engine refuses to evaluate it.
func (e *Engine) checkFeatures(node ast.Node) error {
	switch n := node.(type) {
	case *ast.Vector:
		if !e.opts.VectorsEnabled {
			return errs.New(errs.TypeError, "vector literals are disabled")
		}
		for _, el := range n.Elements {
			if err := e.checkFeatures(el); err != nil {
				return err
			}
		}
	case *ast.Matrix:
		if !e.opts.MatricesEnabled {
			return errs.New(errs.TypeError, "matrix literals are disabled")
		}
		for _, row := range n.Rows {
			for _, el := range row {
				if err := e.checkFeatures(el); err != nil {
					return err
				}
			}
		}
	case *ast.UnitRef:
		if !e.opts.UnitsEnabled {
			return errs.New(errs.TypeError, "units are disabled")
		}
	case *ast.UnitConversion:
		if !e.opts.UnitsEnabled {
			return errs.New(errs.TypeError, "units are disabled")
		}
		if err := e.checkFeatures(n.Value); err != nil {
			return err
		}
	case *ast.Comprehension:
		if !e.opts.ComprehensionsEnabled {
			return errs.New(errs.TypeError, "list comprehensions are disabled")
		}
		if err := e.checkFeatures(n.Expr); err != nil {
			return err
		}
		for _, it := range n.Iterators {
			if err := e.checkFeatures(it.Iterable); err != nil {
				return err
			}
		}
		if n.Condition != nil {
			if err := e.checkFeatures(n.Condition); err != nil {
				return err
			}
		}
	case *ast.LambdaExpr:
		if !e.opts.LambdasEnabled {
			return errs.New(errs.TypeError, "lambdas are disabled")
		}
		if err := e.checkFeatures(n.Body); err != nil {
			return err
		}
	case *ast.FunctionDefExpr:
		if !e.opts.UserDefinedFunctionsEnabled {
			return errs.New(errs.TypeError, "user-defined functions are disabled")
		}
		if err := e.checkFeatures(n.Body); err != nil {
			return err
		}
	case *ast.Binary:
		if err := e.checkFeatures(n.Left); err != nil {
			return err
		}
		return e.checkFeatures(n.Right)
	case *ast.Unary:
		return e.checkFeatures(n.Operand)
	case *ast.Call:
		if err := e.checkFeatures(n.Callee); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := e.checkFeatures(a); err != nil {
				return err
			}
		}
	case *ast.Subscript:
		if err := e.checkFeatures(n.Target); err != nil {
			return err
		}
		for _, idx := range n.Indices {
			if idx.Start != nil {
				if err := e.checkFeatures(idx.Start); err != nil {
					return err
				}
			}
			if idx.End != nil {
				if err := e.checkFeatures(idx.End); err != nil {
					return err
				}
			}
		}
	case *ast.Assignment:
		return e.checkFeatures(n.Value)
	case *ast.RangeExpr:
		if err := e.checkFeatures(n.Start); err != nil {
			return err
		}
		if err := e.checkFeatures(n.End); err != nil {
			return err
		}
		if n.Step != nil {
			return e.checkFeatures(n.Step)
		}
	case *ast.Sequence:
		for _, st := range n.Statements {
			if err := e.checkFeatures(st); err != nil {
				return err
			}
		}
	}
	return nil
}

// nodeDepth measures the AST's maximum nesting depth, counting a leaf as
// depth 1, for the max_expression_depth resource bound (spec §6).
func nodeDepth(node ast.Node) int {
	switch n := node.(type) {
	case *ast.Vector:
		return 1 + maxDepth(n.Elements)
	case *ast.Matrix:
		var kids []ast.Node
		for _, row := range n.Rows {
			kids = append(kids, row...)
		}
		return 1 + maxDepth(kids)
	case *ast.Binary:
		return 1 + maxDepth([]ast.Node{n.Left, n.Right})
	case *ast.Unary:
		return 1 + maxDepth([]ast.Node{n.Operand})
	case *ast.Call:
		return 1 + maxDepth(append([]ast.Node{n.Callee}, n.Args...))
	case *ast.Subscript:
		kids := []ast.Node{n.Target}
		for _, idx := range n.Indices {
			if idx.Start != nil {
				kids = append(kids, idx.Start)
			}
			if idx.End != nil {
				kids = append(kids, idx.End)
			}
		}
		return 1 + maxDepth(kids)
	case *ast.Assignment:
		return 1 + maxDepth([]ast.Node{n.Value})
	case *ast.FunctionDefExpr:
		return 1 + maxDepth([]ast.Node{n.Body})
	case *ast.LambdaExpr:
		return 1 + maxDepth([]ast.Node{n.Body})
	case *ast.RangeExpr:
		kids := []ast.Node{n.Start, n.End}
		if n.Step != nil {
			kids = append(kids, n.Step)
		}
		return 1 + maxDepth(kids)
	case *ast.UnitConversion:
		return 1 + maxDepth([]ast.Node{n.Value})
	case *ast.Comprehension:
		kids := []ast.Node{n.Expr}
		for _, it := range n.Iterators {
			kids = append(kids, it.Iterable)
		}
		if n.Condition != nil {
			kids = append(kids, n.Condition)
		}
		return 1 + maxDepth(kids)
	case *ast.Sequence:
		return 1 + maxDepth(n.Statements)
	default:
		return 1
	}
}

func maxDepth(nodes []ast.Node) int {
	best := 0
	for _, n := range nodes {
		if d := nodeDepth(n); d > best {
			best = d
		}
	}
	return best
}
