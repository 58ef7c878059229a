package operators

import (
	"math/big"

	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
	"github.com/raharrison/mathengine/internal/token"
)

// IsContainer reports whether v is a Vector, Matrix, or Range.
func IsContainer(v ast.Value) bool { return isContainer(v) }

func isContainer(v ast.Value) bool {
	switch v.(type) {
	case *ast.Vector, *ast.Matrix, *ast.Range:
		return true
	default:
		return false
	}
}

// Materialize turns a lazy Range into a concrete Vector; every other value
// passes through unchanged (spec §4.6 "ranges materialise on demand").
func Materialize(v ast.Value) (ast.Value, error) {
	r, ok := v.(*ast.Range)
	if !ok {
		return v, nil
	}
	start, end, step := toFloat(r.Start), toFloat(r.End), 1.0
	if r.Step != nil {
		step = toFloat(r.Step)
	} else if end < start {
		step = -1
	}
	if step == 0 {
		return nil, errs.New(errs.DomainError, "range step cannot be zero")
	}
	if (step > 0 && start > end) || (step < 0 && start < end) {
		return &ast.Vector{}, nil
	}

	var elements []ast.Node
	if step > 0 {
		for x := start; x <= end+epsilon; x += step {
			elements = append(elements, ast.NewDouble(x))
		}
	} else {
		for x := start; x >= end-epsilon; x += step {
			elements = append(elements, ast.NewDouble(x))
		}
	}
	return &ast.Vector{Elements: elements}, nil
}

func asValue(n ast.Node) (ast.Value, error) {
	v, ok := n.(ast.Value)
	if !ok {
		return nil, errs.New(errs.TypeError, "expected an evaluated value inside a container")
	}
	return v, nil
}

// VectorValues evaluates every element of v to an ast.Value, erroring if any
// element is still an unevaluated expression node.
func VectorValues(v *ast.Vector) ([]ast.Value, error) { return vectorElements(v) }

func vectorElements(v *ast.Vector) ([]ast.Value, error) {
	out := make([]ast.Value, len(v.Elements))
	for i, n := range v.Elements {
		val, err := asValue(n)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

func zero() ast.Value {
	r, _ := ast.NewRational(0, 1)
	return r
}

// Binary is the operator executor's binary entry point (spec §4.7): it
// dispatches equality/ordering/logical specially, then hands everything
// else to the unified broadcasting engine.
func Binary(op token.Kind, left, right ast.Node) (ast.Value, error) {
	lv, err := asValue(left)
	if err != nil {
		return nil, err
	}
	rv, err := asValue(right)
	if err != nil {
		return nil, err
	}
	lv, err = Materialize(lv)
	if err != nil {
		return nil, err
	}
	rv, err = Materialize(rv)
	if err != nil {
		return nil, err
	}

	switch op {
	case token.EQ:
		return ast.NewBoolean(Equal(lv, rv)), nil
	case token.NEQ:
		return ast.NewBoolean(!Equal(lv, rv)), nil
	case token.LT, token.GT, token.LTE, token.GTE:
		if isContainer(lv) || isContainer(rv) {
			return nil, errs.New(errs.TypeError, "cannot order containers")
		}
		cmp, err := Compare(lv, rv)
		if err != nil {
			return nil, err
		}
		return ast.NewBoolean(orderHolds(op, cmp)), nil
	case token.AND, token.OR, token.XOR:
		if isContainer(lv) || isContainer(rv) {
			return nil, errs.New(errs.TypeError, "cannot use a logical operator on a container")
		}
		return ast.NewBoolean(logical(op, Truthy(lv), Truthy(rv))), nil
	case token.AT:
		return matMul(lv, rv)
	default:
		return broadcast(op, lv, rv)
	}
}

func orderHolds(op token.Kind, cmp int) bool {
	switch op {
	case token.LT:
		return cmp < 0
	case token.GT:
		return cmp > 0
	case token.LTE:
		return cmp <= 0
	default: // GTE
		return cmp >= 0
	}
}

func logical(op token.Kind, l, r bool) bool {
	switch op {
	case token.AND:
		return l && r
	case token.OR:
		return l || r
	default: // XOR
		return l != r
	}
}

// broadcast implements the elementwise engine of spec §4.6 for every
// operator that is not container-aware on its own.
func broadcast(op token.Kind, left, right ast.Value) (ast.Value, error) {
	lVec, lIsVec := left.(*ast.Vector)
	rVec, rIsVec := right.(*ast.Vector)
	lMat, lIsMat := left.(*ast.Matrix)
	rMat, rIsMat := right.(*ast.Matrix)

	switch {
	case !lIsVec && !lIsMat && !rIsVec && !rIsMat:
		return scalarBinary(op, left, right)

	case lIsVec && !rIsVec && !rIsMat:
		return mapVector(lVec, func(e ast.Value) (ast.Value, error) { return broadcast(op, e, right) })
	case rIsVec && !lIsVec && !lIsMat:
		return mapVector(rVec, func(e ast.Value) (ast.Value, error) { return broadcast(op, left, e) })
	case lIsVec && rIsVec:
		return broadcastVectors(op, lVec, rVec)

	case lIsMat && !rIsVec && !rIsMat:
		return mapMatrix(lMat, func(e ast.Value) (ast.Value, error) { return broadcast(op, e, right) })
	case rIsMat && !lIsVec && !lIsMat:
		return mapMatrix(rMat, func(e ast.Value) (ast.Value, error) { return broadcast(op, left, e) })
	case lIsMat && rIsMat:
		return broadcastMatrices(op, lMat, rMat)

	case lIsVec && rIsMat:
		return broadcastVectorMatrix(op, lVec, rMat, true)
	case lIsMat && rIsVec:
		return broadcastVectorMatrix(op, rVec, lMat, false)
	}
	return nil, errs.New(errs.TypeError, "unsupported operand shapes")
}

func mapVector(v *ast.Vector, f func(ast.Value) (ast.Value, error)) (ast.Value, error) {
	elems, err := vectorElements(v)
	if err != nil {
		return nil, err
	}
	out := make([]ast.Node, len(elems))
	for i, e := range elems {
		r, err := f(e)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return &ast.Vector{Elements: out}, nil
}

func mapMatrix(m *ast.Matrix, f func(ast.Value) (ast.Value, error)) (ast.Value, error) {
	rows := make([][]ast.Node, len(m.Rows))
	for i, row := range m.Rows {
		out := make([]ast.Node, len(row))
		for j, n := range row {
			v, err := asValue(n)
			if err != nil {
				return nil, err
			}
			r, err := f(v)
			if err != nil {
				return nil, err
			}
			out[j] = r
		}
		rows[i] = out
	}
	return &ast.Matrix{Rows: rows}, nil
}

// broadcastVectors pads the shorter vector with numeric zero to the
// longer's length (spec §4.6 "zero-pad broadcast").
func broadcastVectors(op token.Kind, l, r *ast.Vector) (ast.Value, error) {
	le, err := vectorElements(l)
	if err != nil {
		return nil, err
	}
	re, err := vectorElements(r)
	if err != nil {
		return nil, err
	}
	n := len(le)
	if len(re) > n {
		n = len(re)
	}
	out := make([]ast.Node, n)
	for i := 0; i < n; i++ {
		lv, rv := zero(), zero()
		if i < len(le) {
			lv = le[i]
		}
		if i < len(re) {
			rv = re[i]
		}
		v, err := broadcast(op, lv, rv)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return &ast.Vector{Elements: out}, nil
}

// broadcastMatrices handles equal shapes, 1x1 broadcasting to any shape,
// single-row/single-column broadcasting, and otherwise zero-pads to
// (max_rows, max_cols) (spec §4.6).
func broadcastMatrices(op token.Kind, l, r *ast.Matrix) (ast.Value, error) {
	lr, lc := l.NumRows(), l.NumCols()
	rr, rc := r.NumRows(), r.NumCols()

	if lr == 1 && lc == 1 {
		lv, err := asValue(l.Rows[0][0])
		if err != nil {
			return nil, err
		}
		return mapMatrix(r, func(e ast.Value) (ast.Value, error) { return broadcast(op, lv, e) })
	}
	if rr == 1 && rc == 1 {
		rv, err := asValue(r.Rows[0][0])
		if err != nil {
			return nil, err
		}
		return mapMatrix(l, func(e ast.Value) (ast.Value, error) { return broadcast(op, e, rv) })
	}

	rows := lr
	if rr > rows {
		rows = rr
	}
	cols := lc
	if rc > cols {
		cols = rc
	}
	lRow, lCol := lr == 1 && lc == rc, lc == 1 && lr == rr
	rRow, rCol := rr == 1 && rc == lc, rc == 1 && rr == lr
	at := func(single bool, k int) int {
		if single {
			return 0
		}
		return k
	}
	out := make([][]ast.Node, rows)
	for i := 0; i < rows; i++ {
		row := make([]ast.Node, cols)
		for j := 0; j < cols; j++ {
			lv, err := matrixCell(l, at(lRow, i), at(lCol, j))
			if err != nil {
				return nil, err
			}
			rv, err := matrixCell(r, at(rRow, i), at(rCol, j))
			if err != nil {
				return nil, err
			}
			v, err := broadcast(op, lv, rv)
			if err != nil {
				return nil, err
			}
			row[j] = v
		}
		out[i] = row
	}
	return &ast.Matrix{Rows: out}, nil
}

func matrixCell(m *ast.Matrix, i, j int) (ast.Value, error) {
	if i >= m.NumRows() || j >= m.NumCols() {
		return zero(), nil
	}
	return asValue(m.Rows[i][j])
}

// broadcastVectorMatrix implements vector-matrix broadcasting: if the
// vector's length matches the column count it broadcasts across rows; if
// it matches the row count it broadcasts across columns; otherwise the
// vector is treated as a single-row matrix and matrix-matrix rules apply
// (spec §4.6). vecOnLeft records operand order for non-commutative ops.
func broadcastVectorMatrix(op token.Kind, v *ast.Vector, m *ast.Matrix, vecOnLeft bool) (ast.Value, error) {
	ve, err := vectorElements(v)
	if err != nil {
		return nil, err
	}
	rows, cols := m.NumRows(), m.NumCols()

	applyPair := func(vv, mv ast.Value) (ast.Value, error) {
		if vecOnLeft {
			return broadcast(op, vv, mv)
		}
		return broadcast(op, mv, vv)
	}

	switch {
	case len(ve) == cols:
		out := make([][]ast.Node, rows)
		for i := 0; i < rows; i++ {
			row := make([]ast.Node, cols)
			for j := 0; j < cols; j++ {
				mv, err := asValue(m.Rows[i][j])
				if err != nil {
					return nil, err
				}
				r, err := applyPair(ve[j], mv)
				if err != nil {
					return nil, err
				}
				row[j] = r
			}
			out[i] = row
		}
		return &ast.Matrix{Rows: out}, nil
	case len(ve) == rows:
		out := make([][]ast.Node, rows)
		for i := 0; i < rows; i++ {
			row := make([]ast.Node, cols)
			for j := 0; j < cols; j++ {
				mv, err := asValue(m.Rows[i][j])
				if err != nil {
					return nil, err
				}
				r, err := applyPair(ve[i], mv)
				if err != nil {
					return nil, err
				}
				row[j] = r
			}
			out[i] = row
		}
		return &ast.Matrix{Rows: out}, nil
	default:
		rowVec := &ast.Matrix{Rows: [][]ast.Node{v.Elements}}
		if vecOnLeft {
			return broadcastMatrices(op, rowVec, m)
		}
		return broadcastMatrices(op, m, rowVec)
	}
}

// matMul is the strict (non-broadcasting) matrix-multiply operator `@`
// (spec §4.6): matrix@matrix is linear-algebra multiply, vector@vector is
// a dot product.
func matMul(left, right ast.Value) (ast.Value, error) {
	if lv, ok := left.(*ast.Vector); ok {
		if rv, ok := right.(*ast.Vector); ok {
			le, err := vectorElements(lv)
			if err != nil {
				return nil, err
			}
			re, err := vectorElements(rv)
			if err != nil {
				return nil, err
			}
			if len(le) != len(re) {
				return nil, errs.New(errs.TypeError, "dot product requires vectors of equal length, got %d and %d", len(le), len(re))
			}
			sum := ast.Value(zero())
			for i := range le {
				prod, err := scalarBinary(token.MULTIPLY, le[i], re[i])
				if err != nil {
					return nil, err
				}
				sum, err = scalarBinary(token.PLUS, sum, prod)
				if err != nil {
					return nil, err
				}
			}
			return sum, nil
		}
	}

	lm, lok := left.(*ast.Matrix)
	rm, rok := right.(*ast.Matrix)
	if !lok || !rok {
		return nil, errs.New(errs.TypeError, "matrix multiply requires two matrices or two vectors")
	}
	if lm.NumCols() != rm.NumRows() {
		return nil, errs.New(errs.TypeError, "matrix multiply dimension mismatch: %dx%d @ %dx%d", lm.NumRows(), lm.NumCols(), rm.NumRows(), rm.NumCols())
	}
	out := make([][]ast.Node, lm.NumRows())
	for i := 0; i < lm.NumRows(); i++ {
		row := make([]ast.Node, rm.NumCols())
		for j := 0; j < rm.NumCols(); j++ {
			sum := ast.Value(zero())
			for k := 0; k < lm.NumCols(); k++ {
				lv, err := asValue(lm.Rows[i][k])
				if err != nil {
					return nil, err
				}
				rv, err := asValue(rm.Rows[k][j])
				if err != nil {
					return nil, err
				}
				prod, err := scalarBinary(token.MULTIPLY, lv, rv)
				if err != nil {
					return nil, err
				}
				sum, err = scalarBinary(token.PLUS, sum, prod)
				if err != nil {
					return nil, err
				}
			}
			row[j] = sum
		}
		out[i] = row
	}
	return &ast.Matrix{Rows: out}, nil
}

// Unary dispatches negate and logical-not across scalars and containers
// (spec §4.6/§4.7).
func Unary(op token.Kind, operand ast.Node) (ast.Value, error) {
	v, err := asValue(operand)
	if err != nil {
		return nil, err
	}
	v, err = Materialize(v)
	if err != nil {
		return nil, err
	}
	switch vv := v.(type) {
	case *ast.Vector:
		return mapVector(vv, func(e ast.Value) (ast.Value, error) { return Unary(op, e) })
	case *ast.Matrix:
		return mapMatrix(vv, func(e ast.Value) (ast.Value, error) { return Unary(op, e) })
	}

	switch op {
	case token.MINUS:
		neg, err := ast.NewRational(-1, 1)
		if err != nil {
			return nil, err
		}
		return scalarBinary(token.MULTIPLY, neg, v)
	case token.PLUS:
		return v, nil
	case token.NOT:
		return ast.NewBoolean(!Truthy(v)), nil
	case token.FACTORIAL:
		return factorial(v, false)
	case token.DOUBLE_FACTORIAL:
		return factorial(v, true)
	case token.PERCENT:
		return ast.NewPercent(toFloat(v) / 100), nil
	default:
		return nil, errs.New(errs.TypeError, "unsupported unary operator %s", op)
	}
}

func factorial(v ast.Value, double bool) (ast.Value, error) {
	r, ok := v.(*ast.Rational)
	if !ok || !r.IsInteger() {
		return nil, errs.New(errs.DomainError, "factorial requires a non-negative integer")
	}
	n := r.N.Int64()
	if n < 0 {
		return nil, errs.New(errs.DomainError, "factorial of a negative number is undefined")
	}
	result := big.NewInt(1)
	step := int64(1)
	if double {
		step = 2
	}
	for i := n; i > 0; i -= step {
		result.Mul(result, big.NewInt(i))
	}
	return ast.NewRationalBig(result, big.NewInt(1))
}
