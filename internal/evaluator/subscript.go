package evaluator

import (
	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
	"github.com/raharrison/mathengine/internal/evalctx"
	"github.com/raharrison/mathengine/internal/operators"
)

// evalSubscript implements spec §4.10.3: one index selects an element (or
// a row, for a matrix), two indices select a matrix cell/row/column/
// submatrix. Negative indices wrap from the end; slice bounds clamp rather
// than erroring, single indices error on out-of-range.
func (e *Evaluator) evalSubscript(n *ast.Subscript, ctx *evalctx.Context) (ast.Value, error) {
	target, err := e.Eval(n.Target, ctx)
	if err != nil {
		return nil, err
	}
	target, err = operators.Materialize(target)
	if err != nil {
		return nil, err
	}

	switch len(n.Indices) {
	case 1:
		return e.subscript1(target, n.Indices[0], ctx)
	case 2:
		return e.subscript2(target, n.Indices[0], n.Indices[1], ctx)
	default:
		return nil, errs.New(errs.TypeError, "subscript takes 1 or 2 index arguments, got %d", len(n.Indices))
	}
}

func (e *Evaluator) subscript1(target ast.Value, arg ast.SliceArg, ctx *evalctx.Context) (ast.Value, error) {
	switch t := target.(type) {
	case *ast.Vector:
		elems, err := operators.VectorValues(t)
		if err != nil {
			return nil, err
		}
		n := len(elems)
		if arg.IsRange {
			start, end, err := e.resolveSliceBounds(arg, ctx, n)
			if err != nil {
				return nil, err
			}
			nodes := make([]ast.Node, 0, end-start)
			for i := start; i < end; i++ {
				nodes = append(nodes, elems[i])
			}
			return &ast.Vector{Elements: nodes}, nil
		}
		idx, err := e.resolveWrappedIndex(arg.Start, ctx, n, 0)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= n {
			return nil, errs.New(errs.DomainError, "index %d out of bounds for vector of length %d", idx, n)
		}
		return elems[idx], nil

	case *ast.Matrix:
		rows := t.NumRows()
		if arg.IsRange {
			start, end, err := e.resolveSliceBounds(arg, ctx, rows)
			if err != nil {
				return nil, err
			}
			out := make([][]ast.Node, 0, end-start)
			for i := start; i < end; i++ {
				out = append(out, t.Rows[i])
			}
			return &ast.Matrix{Rows: out}, nil
		}
		idx, err := e.resolveWrappedIndex(arg.Start, ctx, rows, 0)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= rows {
			return nil, errs.New(errs.DomainError, "row index %d out of bounds for matrix of %d rows", idx, rows)
		}
		return &ast.Vector{Elements: t.Rows[idx]}, nil

	default:
		return nil, errs.New(errs.TypeError, "cannot subscript a %s", target.TypeName())
	}
}

func (e *Evaluator) subscript2(target ast.Value, rowArg, colArg ast.SliceArg, ctx *evalctx.Context) (ast.Value, error) {
	m, ok := target.(*ast.Matrix)
	if !ok {
		return nil, errs.New(errs.TypeError, "a two-index subscript requires a matrix, got %s", target.TypeName())
	}
	rows, cols := m.NumRows(), m.NumCols()

	rowStart, rowEnd, err := e.resolveSliceBounds(rowArg, ctx, rows)
	if err != nil {
		return nil, err
	}
	colStart, colEnd, err := e.resolveSliceBounds(colArg, ctx, cols)
	if err != nil {
		return nil, err
	}
	if !rowArg.IsRange && (rowStart < 0 || rowStart >= rows) {
		return nil, errs.New(errs.DomainError, "row index %d out of bounds for matrix of %d rows", rowStart, rows)
	}
	if !colArg.IsRange && (colStart < 0 || colStart >= cols) {
		return nil, errs.New(errs.DomainError, "column index %d out of bounds for matrix of %d columns", colStart, cols)
	}

	switch {
	case !rowArg.IsRange && !colArg.IsRange:
		return asValue(m.Rows[rowStart][colStart])
	case !rowArg.IsRange:
		row := m.Rows[rowStart][colStart:colEnd]
		return &ast.Vector{Elements: append([]ast.Node{}, row...)}, nil
	case !colArg.IsRange:
		elems := make([]ast.Node, 0, rowEnd-rowStart)
		for i := rowStart; i < rowEnd; i++ {
			elems = append(elems, m.Rows[i][colStart])
		}
		return &ast.Vector{Elements: elems}, nil
	default:
		out := make([][]ast.Node, 0, rowEnd-rowStart)
		for i := rowStart; i < rowEnd; i++ {
			out = append(out, append([]ast.Node{}, m.Rows[i][colStart:colEnd]...))
		}
		return &ast.Matrix{Rows: out}, nil
	}
}

func asValue(n ast.Node) (ast.Value, error) {
	v, ok := n.(ast.Value)
	if !ok {
		return nil, errs.New(errs.TypeError, "expected an evaluated value")
	}
	return v, nil
}

// resolveSliceBounds evaluates a SliceArg's start/end against length,
// wrapping negative indices and clamping to [0, length]. A single-index
// arg (IsRange false) yields [start, start+1) without clamping start, so
// the caller can still report an out-of-range error for it.
func (e *Evaluator) resolveSliceBounds(arg ast.SliceArg, ctx *evalctx.Context, length int) (start, end int, err error) {
	start, err = e.resolveWrappedIndex(arg.Start, ctx, length, 0)
	if err != nil {
		return 0, 0, err
	}
	if !arg.IsRange {
		return start, start + 1, nil
	}
	end, err = e.resolveWrappedIndex(arg.End, ctx, length, length)
	if err != nil {
		return 0, 0, err
	}
	start = clampInt(start, 0, length)
	end = clampInt(end, 0, length)
	if end < start {
		end = start
	}
	return start, end, nil
}

func (e *Evaluator) resolveWrappedIndex(n ast.Node, ctx *evalctx.Context, length, def int) (int, error) {
	if n == nil {
		return def, nil
	}
	v, err := e.Eval(n, ctx)
	if err != nil {
		return 0, err
	}
	f, err := operators.ToFloat(v)
	if err != nil {
		return 0, err
	}
	idx := int(f)
	if idx < 0 {
		idx += length
	}
	return idx, nil
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
