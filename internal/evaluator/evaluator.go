// Package evaluator implements the tree-walking evaluator of spec §4.10: it
// walks the AST produced by internal/parser, resolving names through an
// evalctx.Context and dispatching arithmetic through internal/operators and
// calls through internal/functions.
package evaluator

import (
	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
	"github.com/raharrison/mathengine/internal/evalctx"
	"github.com/raharrison/mathengine/internal/functions"
	"github.com/raharrison/mathengine/internal/operators"
	"github.com/raharrison/mathengine/internal/token"
)

// Evaluator holds the built-in function registry consulted during call
// dispatch; it carries no mutable state of its own (spec §4.10).
type Evaluator struct {
	Functions *functions.Registry
}

// New builds an Evaluator against a function registry.
func New(fnRegistry *functions.Registry) *Evaluator {
	return &Evaluator{Functions: fnRegistry}
}

// Eval walks node, evaluating it to a Value under ctx (spec §4.10).
func (e *Evaluator) Eval(node ast.Node, ctx *evalctx.Context) (ast.Value, error) {
	switch n := node.(type) {
	case ast.Value:
		return e.evalValue(n, ctx)
	case *ast.RationalLit:
		return ast.NewRational(n.N, n.D)
	case *ast.Variable:
		return e.resolveGeneral(n.Name, ctx)
	case *ast.UnitRef:
		u, ok := ctx.Units.Lookup(n.Name)
		if !ok {
			return nil, errs.New(errs.UndefinedIdentifier, "unknown unit %q", n.Name)
		}
		return ast.NewUnitValue(1, u), nil
	case *ast.VarRef:
		v, ok := ctx.LookupVariable(n.Name)
		if !ok {
			return nil, errs.New(errs.UndefinedIdentifier, "undefined variable %q", n.Name)
		}
		return v, nil
	case *ast.ConstRef:
		v, ok := ctx.Constants.Lookup(n.Name)
		if !ok {
			return nil, errs.New(errs.UndefinedIdentifier, "undefined constant %q", n.Name)
		}
		return v, nil
	case *ast.Binary:
		return e.evalBinary(n, ctx)
	case *ast.Unary:
		return e.evalUnary(n, ctx)
	case *ast.Call:
		return e.evalCall(n, ctx)
	case *ast.Subscript:
		return e.evalSubscript(n, ctx)
	case *ast.Assignment:
		v, err := e.Eval(n.Value, ctx)
		if err != nil {
			return nil, err
		}
		ctx.SetVariable(n.Name, v)
		return v, nil
	case *ast.FunctionDefExpr:
		def := &ast.FunctionDef{Name: n.Name, Params: n.Params, Body: n.Body}
		ctx.SetFunction(n.Name, def)
		return ast.NewFunction(def), nil
	case *ast.LambdaExpr:
		def := &ast.FunctionDef{Params: n.Params, Body: n.Body, Closure: ctx.Snapshot()}
		return ast.NewFunction(def), nil
	case *ast.RangeExpr:
		return e.evalRange(n, ctx)
	case *ast.UnitConversion:
		return e.evalUnitConversion(n, ctx)
	case *ast.Comprehension:
		return e.evalComprehension(n, ctx)
	case *ast.Sequence:
		var last ast.Value
		for _, stmt := range n.Statements {
			v, err := e.Eval(stmt, ctx)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil
	default:
		return nil, errs.New(errs.TypeError, "cannot evaluate node of type %T", node)
	}
}

// evalValue handles already-evaluated nodes: scalars pass through, and
// Vector/Matrix recurse into elements that may still be unevaluated
// expression nodes (spec §3.2 "lazy until materialized").
func (e *Evaluator) evalValue(v ast.Value, ctx *evalctx.Context) (ast.Value, error) {
	switch t := v.(type) {
	case *ast.Vector:
		if err := checkVectorSize(ctx, len(t.Elements)); err != nil {
			return nil, err
		}
		out := make([]ast.Node, len(t.Elements))
		for i, el := range t.Elements {
			ev, err := e.Eval(el, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return &ast.Vector{Elements: out}, nil
	case *ast.Matrix:
		if err := checkMatrixDims(ctx, t.NumRows(), t.NumCols()); err != nil {
			return nil, err
		}
		rows := make([][]ast.Node, len(t.Rows))
		for i, row := range t.Rows {
			out := make([]ast.Node, len(row))
			for j, el := range row {
				ev, err := e.Eval(el, ctx)
				if err != nil {
					return nil, err
				}
				out[j] = ev
			}
			rows[i] = out
		}
		return &ast.Matrix{Rows: rows}, nil
	default:
		return v, nil
	}
}

func (e *Evaluator) evalBinary(n *ast.Binary, ctx *evalctx.Context) (ast.Value, error) {
	op := n.Op.Kind
	if op == token.AND || op == token.OR {
		left, err := e.Eval(n.Left, ctx)
		if err != nil {
			return nil, err
		}
		if operators.IsContainer(left) {
			return nil, errs.New(errs.TypeError, "cannot use a logical operator on a container")
		}
		lt := operators.Truthy(left)
		if op == token.AND && !lt {
			return ast.NewBoolean(false), nil
		}
		if op == token.OR && lt {
			return ast.NewBoolean(true), nil
		}
		right, err := e.Eval(n.Right, ctx)
		if err != nil {
			return nil, err
		}
		if operators.IsContainer(right) {
			return nil, errs.New(errs.TypeError, "cannot use a logical operator on a container")
		}
		return ast.NewBoolean(operators.Truthy(right)), nil
	}

	left, err := e.Eval(n.Left, ctx)
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(n.Right, ctx)
	if err != nil {
		return nil, err
	}
	if ctx.ForceDoubleArithmetic {
		left = forceDouble(left)
		right = forceDouble(right)
	}
	return operators.Binary(op, left, right)
}

// forceDouble recursively rewrites exact Rational leaves to Double,
// honoring the force_double_arithmetic option (spec §6): arithmetic then
// runs through operators' float64 path instead of exact rational math.
func forceDouble(v ast.Value) ast.Value {
	switch t := v.(type) {
	case *ast.Rational:
		return ast.NewDouble(t.Float64())
	case *ast.Vector:
		out := make([]ast.Node, len(t.Elements))
		for i, el := range t.Elements {
			if ev, ok := el.(ast.Value); ok {
				out[i] = forceDouble(ev)
			} else {
				out[i] = el
			}
		}
		return &ast.Vector{Elements: out}
	case *ast.Matrix:
		rows := make([][]ast.Node, len(t.Rows))
		for i, row := range t.Rows {
			out := make([]ast.Node, len(row))
			for j, el := range row {
				if ev, ok := el.(ast.Value); ok {
					out[j] = forceDouble(ev)
				} else {
					out[j] = el
				}
			}
			rows[i] = out
		}
		return &ast.Matrix{Rows: rows}
	default:
		return v
	}
}

func (e *Evaluator) evalUnary(n *ast.Unary, ctx *evalctx.Context) (ast.Value, error) {
	operand, err := e.Eval(n.Operand, ctx)
	if err != nil {
		return nil, err
	}
	return operators.Unary(n.Op.Kind, operand)
}

func (e *Evaluator) evalRange(n *ast.RangeExpr, ctx *evalctx.Context) (ast.Value, error) {
	start, err := e.Eval(n.Start, ctx)
	if err != nil {
		return nil, err
	}
	end, err := e.Eval(n.End, ctx)
	if err != nil {
		return nil, err
	}
	var step ast.Value
	if n.Step != nil {
		step, err = e.Eval(n.Step, ctx)
		if err != nil {
			return nil, err
		}
	}
	return ast.NewRange(start, end, step), nil
}

// checkVectorSize and checkMatrixDims enforce the §6 max_vector_size /
// max_matrix_dimension resource bounds wherever the evaluator itself
// constructs a container (literals, comprehension results); a limit of 0
// or less is treated as "unbounded" (the default).
func checkVectorSize(ctx *evalctx.Context, n int) error {
	if ctx.MaxVectorSize > 0 && n > ctx.MaxVectorSize {
		return errs.New(errs.ResourceError, "vector of length %d exceeds the configured maximum of %d", n, ctx.MaxVectorSize)
	}
	return nil
}

func checkMatrixDims(ctx *evalctx.Context, rows, cols int) error {
	if ctx.MaxMatrixDimension > 0 && (rows > ctx.MaxMatrixDimension || cols > ctx.MaxMatrixDimension) {
		return errs.New(errs.ResourceError, "matrix of %dx%d exceeds the configured maximum dimension of %d", rows, cols, ctx.MaxMatrixDimension)
	}
	return nil
}

func (e *Evaluator) evalUnitConversion(n *ast.UnitConversion, ctx *evalctx.Context) (ast.Value, error) {
	val, err := e.Eval(n.Value, ctx)
	if err != nil {
		return nil, err
	}
	target, err := e.resolvePostfixUnit(n.TargetUnit, ctx)
	if err != nil {
		return nil, err
	}
	uv, ok := val.(*ast.UnitValue)
	if !ok {
		return nil, errs.New(errs.TypeError, "cannot convert a %s to a unit", val.TypeName())
	}
	return uv.ConvertTo(target)
}
