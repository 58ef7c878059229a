// Package operators implements the operator executor of spec §4.7: a table
// keyed by token kind dispatching to the unified broadcasting engine of
// spec §4.6. Dispatch is a type switch over the closed set of ast.Value
// subtypes rather than virtual methods on the values themselves, per the
// anti-open-recursion guidance of spec §9.
package operators

import (
	"math"
	"math/big"
	"strings"

	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
	"github.com/raharrison/mathengine/internal/token"
)

const epsilon = 1e-9

// scalarBinary dispatches a binary op between two non-container values
// (spec §4.6 numeric promotion, string, and unit rules).
func scalarBinary(op token.Kind, left, right ast.Value) (ast.Value, error) {
	left = coerceBoolean(left)
	right = coerceBoolean(right)

	if ls, ok := left.(*ast.String); ok {
		return stringBinary(op, ls, right)
	}
	if rs, ok := right.(*ast.String); ok {
		return stringBinary(op, left, rs)
	}

	if lu, ok := left.(*ast.UnitValue); ok {
		return unitBinary(op, lu, right)
	}
	if ru, ok := right.(*ast.UnitValue); ok {
		return unitBinary(op, left, ru)
	}

	if lp, ok := left.(*ast.Percent); ok {
		return percentBinary(op, lp, right)
	}
	if rp, ok := right.(*ast.Percent); ok {
		return percentBinary(op, left, rp)
	}

	lr, lok := left.(*ast.Rational)
	rr, rok := right.(*ast.Rational)
	if lok && rok {
		return rationalBinary(op, lr, rr)
	}

	lf := toFloat(left)
	rf := toFloat(right)
	return floatBinary(op, lf, rf)
}

// coerceBoolean turns a Boolean into Rational 0/1 for arithmetic (spec
// §4.6); comparisons and logical ops intercept before this runs.
func coerceBoolean(v ast.Value) ast.Value {
	b, ok := v.(*ast.Boolean)
	if !ok {
		return v
	}
	var r *ast.Rational
	if b.Val {
		r, _ = ast.NewRational(1, 1)
	} else {
		r, _ = ast.NewRational(0, 1)
	}
	return r
}

// ToFloat coerces a scalar Value to float64, erroring on strings and
// containers (used for subscript index arithmetic).
func ToFloat(v ast.Value) (float64, error) {
	switch v.(type) {
	case *ast.Double, *ast.Rational, *ast.Percent, *ast.Boolean:
		return toFloat(v), nil
	default:
		return 0, errs.New(errs.TypeError, "expected a number, got %s", v.TypeName())
	}
}

func toFloat(v ast.Value) float64 {
	switch t := v.(type) {
	case *ast.Double:
		return t.Val
	case *ast.Rational:
		return t.Float64()
	case *ast.Percent:
		return t.Decimal
	case *ast.Boolean:
		if t.Val {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func rationalBinary(op token.Kind, l, r *ast.Rational) (ast.Value, error) {
	switch op {
	case token.PLUS:
		return ast.NewRationalBig(new(big.Int).Add(new(big.Int).Mul(l.N, r.D), new(big.Int).Mul(r.N, l.D)), new(big.Int).Mul(l.D, r.D))
	case token.MINUS:
		return ast.NewRationalBig(new(big.Int).Sub(new(big.Int).Mul(l.N, r.D), new(big.Int).Mul(r.N, l.D)), new(big.Int).Mul(l.D, r.D))
	case token.MULTIPLY:
		return ast.NewRationalBig(new(big.Int).Mul(l.N, r.N), new(big.Int).Mul(l.D, r.D))
	case token.DIVIDE:
		if r.N.Sign() == 0 {
			return nil, errs.New(errs.DomainError, "division by zero")
		}
		return ast.NewRationalBig(new(big.Int).Mul(l.N, r.D), new(big.Int).Mul(l.D, r.N))
	case token.MOD:
		return floatBinary(op, l.Float64(), r.Float64())
	case token.OF:
		return ast.NewRationalBig(new(big.Int).Mul(l.N, r.N), new(big.Int).Mul(l.D, r.D))
	case token.POWER:
		return rationalPower(l, r)
	}
	return nil, errs.New(errs.TypeError, "unsupported operator %s on rational operands", op)
}

// rationalPower keeps an integer exponent on a Rational base exact;
// anything else promotes to float (spec §4.7).
func rationalPower(base, exp *ast.Rational) (ast.Value, error) {
	if exp.IsInteger() {
		n := exp.N.Int64()
		if n == 0 {
			return ast.NewRational(1, 1)
		}
		neg := n < 0
		if neg {
			n = -n
		}
		if neg && base.N.Sign() == 0 {
			return nil, errs.New(errs.DomainError, "zero to a negative power is undefined")
		}
		num := big.NewInt(1)
		den := big.NewInt(1)
		bn, bd := base.N, base.D
		for i := int64(0); i < n; i++ {
			num.Mul(num, bn)
			den.Mul(den, bd)
		}
		if neg {
			num, den = den, num
		}
		return ast.NewRationalBig(num, den)
	}
	return floatBinary(token.POWER, base.Float64(), exp.Float64())
}

func floatBinary(op token.Kind, l, r float64) (ast.Value, error) {
	switch op {
	case token.PLUS:
		return ast.NewDouble(l + r), nil
	case token.MINUS:
		return ast.NewDouble(l - r), nil
	case token.MULTIPLY:
		return ast.NewDouble(l * r), nil
	case token.DIVIDE:
		if r == 0 {
			return nil, errs.New(errs.DomainError, "division by zero")
		}
		return ast.NewDouble(l / r), nil
	case token.MOD:
		if r == 0 {
			return nil, errs.New(errs.DomainError, "modulus by zero")
		}
		return ast.NewDouble(l - math.Floor(l/r)*r), nil
	case token.OF:
		return ast.NewDouble(l * r), nil
	case token.POWER:
		return floatPower(l, r)
	}
	return nil, errs.New(errs.TypeError, "unsupported operator %s on numeric operands", op)
}

func floatPower(base, exp float64) (ast.Value, error) {
	if base == 0 && exp == 0 {
		return ast.NewDouble(1), nil
	}
	if base < 0 && exp != math.Trunc(exp) {
		return nil, errs.New(errs.DomainError, "negative base %.6g to non-integer exponent %.6g", base, exp)
	}
	return ast.NewDouble(math.Pow(base, exp)), nil
}

func percentBinary(op token.Kind, left, right ast.Value) (ast.Value, error) {
	lp, lIsPercent := left.(*ast.Percent)
	rp, rIsPercent := right.(*ast.Percent)

	switch op {
	case token.PLUS, token.MINUS:
		if lIsPercent && rIsPercent {
			d := lp.Decimal
			if op == token.PLUS {
				d += rp.Decimal
			} else {
				d -= rp.Decimal
			}
			return ast.NewPercent(d), nil
		}
		// number +/- percent: percent is a fraction of the number.
		if rIsPercent {
			n := toFloat(left)
			frac := n * rp.Decimal
			if op == token.PLUS {
				return ast.NewDouble(n + frac), nil
			}
			return ast.NewDouble(n - frac), nil
		}
		n := toFloat(right)
		frac := n * lp.Decimal
		if op == token.PLUS {
			return ast.NewDouble(frac + n), nil
		}
		return ast.NewDouble(frac - n), nil
	case token.MULTIPLY:
		if lIsPercent && rIsPercent {
			return ast.NewPercent(lp.Decimal * rp.Decimal), nil
		}
		return ast.NewDouble(toFloat(left) * toFloat(right)), nil
	case token.DIVIDE:
		if lIsPercent && rIsPercent {
			if rp.Decimal == 0 {
				return nil, errs.New(errs.DomainError, "division by zero")
			}
			return ast.NewDouble(lp.Decimal / rp.Decimal), nil
		}
		rf := toFloat(right)
		if rf == 0 {
			return nil, errs.New(errs.DomainError, "division by zero")
		}
		return ast.NewDouble(toFloat(left) / rf), nil
	case token.OF:
		if lIsPercent {
			return ast.NewDouble(lp.Decimal * toFloat(right)), nil
		}
		return ast.NewDouble(toFloat(left) * rp.Decimal), nil
	default:
		return floatBinary(op, toFloat(left), toFloat(right))
	}
}

func stringBinary(op token.Kind, left, right ast.Value) (ast.Value, error) {
	switch op {
	case token.PLUS:
		return ast.NewString(displayString(left) + displayString(right)), nil
	case token.MULTIPLY:
		ls, lok := left.(*ast.String)
		rs, rok := right.(*ast.String)
		if lok && rok {
			return nil, errs.New(errs.TypeError, "cannot multiply two strings")
		}
		var s *ast.String
		var n float64
		if lok {
			s, n = ls, toFloat(right)
		} else {
			s, n = rs, toFloat(left)
		}
		if n < 0 {
			return nil, errs.New(errs.TypeError, "cannot repeat a string a negative number of times")
		}
		return ast.NewString(strings.Repeat(s.Val, int(n))), nil
	default:
		return nil, errs.New(errs.TypeError, "unsupported operator %s on string operand", op)
	}
}

func displayString(v ast.Value) string {
	if s, ok := v.(*ast.String); ok {
		return s.Val
	}
	return v.String()
}

func unitBinary(op token.Kind, left, right ast.Value) (ast.Value, error) {
	lu, lok := left.(*ast.UnitValue)
	ru, rok := right.(*ast.UnitValue)

	switch op {
	case token.PLUS, token.MINUS:
		if !lok || !rok {
			return nil, errs.New(errs.TypeError, "cannot add or subtract a plain number and a unit value")
		}
		if lu.Unit.Category != ru.Unit.Category {
			return nil, errs.New(errs.TypeError, "cannot combine units of category %q and %q", lu.Unit.Category, ru.Unit.Category)
		}
		lb, rb := lu.Unit.ToBase(lu.Val), ru.Unit.ToBase(ru.Val)
		var base float64
		if op == token.PLUS {
			base = lb + rb
		} else {
			base = lb - rb
		}
		return ast.NewUnitValue(lu.Unit.FromBase(base), lu.Unit), nil
	case token.MULTIPLY:
		if lok && rok {
			return nil, errs.New(errs.TypeError, "cannot multiply two unit values")
		}
		if lok {
			return ast.NewUnitValue(lu.Val*toFloat(right), lu.Unit), nil
		}
		return ast.NewUnitValue(ru.Val*toFloat(left), ru.Unit), nil
	case token.DIVIDE:
		if lok && rok {
			if lu.Unit.Category != ru.Unit.Category {
				return nil, errs.New(errs.TypeError, "cannot divide unit values of different categories")
			}
			return ast.NewDouble(lu.Unit.ToBase(lu.Val) / ru.Unit.ToBase(ru.Val)), nil
		}
		if lok {
			rf := toFloat(right)
			if rf == 0 {
				return nil, errs.New(errs.DomainError, "division by zero")
			}
			return ast.NewUnitValue(lu.Val/rf, lu.Unit), nil
		}
		return nil, errs.New(errs.TypeError, "cannot divide a plain number by a unit value")
	default:
		return nil, errs.New(errs.TypeError, "unsupported operator %s on a unit value", op)
	}
}

// Equal reports deep structural equality; numeric scalars, exact or not,
// are compared through float64 with epsilon tolerance (spec §4.6).
func Equal(left, right ast.Value) bool {
	left, _ = Materialize(left)
	right, _ = Materialize(right)

	switch l := left.(type) {
	case *ast.Vector:
		r, ok := right.(*ast.Vector)
		if !ok || len(l.Elements) != len(r.Elements) {
			return false
		}
		for i := range l.Elements {
			lv, lok := l.Elements[i].(ast.Value)
			rv, rok := r.Elements[i].(ast.Value)
			if !lok || !rok || !Equal(lv, rv) {
				return false
			}
		}
		return true
	case *ast.Matrix:
		r, ok := right.(*ast.Matrix)
		if !ok || len(l.Rows) != len(r.Rows) {
			return false
		}
		for i := range l.Rows {
			if len(l.Rows[i]) != len(r.Rows[i]) {
				return false
			}
			for j := range l.Rows[i] {
				lv, lok := l.Rows[i][j].(ast.Value)
				rv, rok := r.Rows[i][j].(ast.Value)
				if !lok || !rok || !Equal(lv, rv) {
					return false
				}
			}
		}
		return true
	case *ast.String:
		r, ok := right.(*ast.String)
		return ok && l.Val == r.Val
	case *ast.Boolean:
		return boolOf(left) == boolOf(right)
	default:
		if isContainer(right) {
			return false
		}
		if _, sok := right.(*ast.String); sok {
			return false
		}
		return math.Abs(toFloat(left)-toFloat(right)) < epsilon
	}
}

func boolOf(v ast.Value) bool {
	switch t := v.(type) {
	case *ast.Boolean:
		return t.Val
	default:
		return toFloat(v) != 0
	}
}

// Truthy implements the truthiness test used by short-circuit logical
// operators and `if` (spec §4.11): a Boolean's own value, or non-zero for
// any numeric value.
func Truthy(v ast.Value) bool {
	if b, ok := v.(*ast.Boolean); ok {
		return b.Val
	}
	return toFloat(v) != 0
}

// Compare returns -1, 0, or 1 for scalar ordering; containers are rejected
// by the caller before this runs, and a string compared against a
// non-string is rejected here with a TypeError.
func Compare(left, right ast.Value) (int, error) {
	if ls, ok := left.(*ast.String); ok {
		rs, ok := right.(*ast.String)
		if !ok {
			return 0, errs.New(errs.TypeError, "cannot compare a string to a non-string value")
		}
		return strings.Compare(ls.Val, rs.Val), nil
	}
	if _, ok := right.(*ast.String); ok {
		return 0, errs.New(errs.TypeError, "cannot compare a string to a non-string value")
	}
	lf, rf := toFloat(left), toFloat(right)
	switch {
	case lf < rf:
		return -1, nil
	case lf > rf:
		return 1, nil
	default:
		return 0, nil
	}
}
