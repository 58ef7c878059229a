package ast

import (
	"math/big"

	"github.com/raharrison/mathengine/internal/errs"
)

// Rational is an exact arbitrary-precision fraction, always stored in
// canonical form: denominator > 0, numerator/denominator coprime (spec
// §3.2). No third-party arbitrary-precision rational library in the
// retrieved example pack improves on math/big for this; see DESIGN.md.
type Rational struct {
	N *big.Int
	D *big.Int
}

// NewRational builds a canonical Rational from int64 numerator/denominator,
// rejecting a zero denominator with a DomainError (see SPEC_FULL.md Open
// Questions: a literal n/m with m == 0 is an evaluation-time error, not a
// parse error — this is the point where that check belongs).
func NewRational(n, d int64) (*Rational, error) {
	return NewRationalBig(big.NewInt(n), big.NewInt(d))
}

// NewRationalBig builds a canonical Rational from big.Int components,
// taking ownership of neither argument (it copies before normalizing).
func NewRationalBig(n, d *big.Int) (*Rational, error) {
	if d.Sign() == 0 {
		return nil, errs.New(errs.DomainError, "rational with zero denominator")
	}
	nn := new(big.Int).Set(n)
	dd := new(big.Int).Set(d)
	return (&Rational{N: nn, D: dd}).canonicalize(), nil
}

// canonicalize normalizes sign into the numerator and reduces by the gcd,
// returning the receiver for chaining. The denominator is guaranteed
// non-zero by the caller (NewRationalBig).
func (r *Rational) canonicalize() *Rational {
	if r.D.Sign() < 0 {
		r.N.Neg(r.N)
		r.D.Neg(r.D)
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(r.N), r.D)
	if g.Sign() != 0 && g.Cmp(big.NewInt(1)) != 0 {
		r.N.Quo(r.N, g)
		r.D.Quo(r.D, g)
	}
	return r
}

// IsInteger reports whether the rational's denominator is 1.
func (r *Rational) IsInteger() bool { return r.D.Cmp(big.NewInt(1)) == 0 }

// Float64 converts to the nearest float64, used whenever a Rational must be
// promoted to Double (spec §4.6).
func (r *Rational) Float64() float64 {
	f := new(big.Rat).SetFrac(r.N, r.D)
	v, _ := f.Float64()
	return v
}

func (*Rational) node()              {}
func (r *Rational) TypeName() string { return "rational" }

func (r *Rational) String() string {
	if r.IsInteger() {
		return r.N.String()
	}
	return r.N.String() + "/" + r.D.String()
}

func (r *Rational) Display() string {
	out := mustDisplay("rational", "numerator", r.N.String())
	out = mustSet(out, "denominator", r.D.String())
	return out
}
