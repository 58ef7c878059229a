package ast

import (
	"strconv"
	"strings"

	"github.com/raharrison/mathengine/internal/token"
)

// Binary is a two-operand expression, e.g. a + b (spec §3.2).
type Binary struct {
	Op    token.Token
	Left  Node
	Right Node
}

func (*Binary) node() {}
func (*Binary) expr() {}
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.Lexeme + " " + b.Right.String() + ")"
}

// Unary is a single-operand expression; Prefix distinguishes prefix forms
// such as -x from the postfix `!`, `!!` and `%` forms.
type Unary struct {
	Op      token.Token
	Operand Node
	Prefix  bool
}

func (*Unary) node() {}
func (*Unary) expr() {}
func (u *Unary) String() string {
	if u.Prefix {
		return "(" + u.Op.Lexeme + u.Operand.String() + ")"
	}
	return "(" + u.Operand.String() + u.Op.Lexeme + ")"
}

// Call is a function/lambda invocation: callee(args...).
type Call struct {
	Callee Node
	Args   []Node
}

func (*Call) node() {}
func (*Call) expr() {}
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// SliceArg is one subscript index: an optional start, an optional end, and
// whether a colon was seen (making this a slice rather than a single index),
// per spec §3.2 and §4.10.3.
type SliceArg struct {
	Start   Node // nil => unspecified
	End     Node // nil => unspecified
	IsRange bool
}

// Subscript is indexing/slicing: target[indices...].
type Subscript struct {
	Target  Node
	Indices []SliceArg
}

func (*Subscript) node() {}
func (*Subscript) expr() {}
func (s *Subscript) String() string {
	parts := make([]string, len(s.Indices))
	for i, idx := range s.Indices {
		var sb strings.Builder
		if idx.Start != nil {
			sb.WriteString(idx.Start.String())
		}
		if idx.IsRange {
			sb.WriteByte(':')
			if idx.End != nil {
				sb.WriteString(idx.End.String())
			}
		}
		parts[i] = sb.String()
	}
	return s.Target.String() + "[" + strings.Join(parts, ", ") + "]"
}

// RationalLit is an unevaluated n/m rational literal. It is not built
// directly into a Rational by the parser because a zero denominator
// (e.g. `5/0`) must surface as an evaluation-time DomainError, not a
// parse error (spec SPEC_FULL.md Open Questions) — the same way a
// Variable is resolved at Eval time rather than at parse time.
type RationalLit struct {
	N, D int64
}

func (*RationalLit) node() {}
func (*RationalLit) expr() {}
func (r *RationalLit) String() string {
	return strconv.FormatInt(r.N, 10) + "/" + strconv.FormatInt(r.D, 10)
}

// Variable is a bare identifier reference, resolved at evaluation time
// through the context-aware resolver (spec §4.10.1).
type Variable struct {
	Name string
}

func (*Variable) node()        {}
func (*Variable) expr()        {}
func (v *Variable) String() string { return v.Name }

// UnitRef is an explicit @name or @"quoted name" unit reference.
type UnitRef struct {
	Name   string
	Quoted bool
}

func (*UnitRef) node()          {}
func (*UnitRef) expr()          {}
func (u *UnitRef) String() string { return "@" + u.Name }

// VarRef is an explicit $name strict-variable reference.
type VarRef struct{ Name string }

func (*VarRef) node()          {}
func (*VarRef) expr()          {}
func (v *VarRef) String() string { return "$" + v.Name }

// ConstRef is an explicit #name strict-constant reference.
type ConstRef struct{ Name string }

func (*ConstRef) node()          {}
func (*ConstRef) expr()          {}
func (c *ConstRef) String() string { return "#" + c.Name }

// Assignment is name := value.
type Assignment struct {
	Name  string
	Value Node
}

func (*Assignment) node()          {}
func (*Assignment) expr()          {}
func (a *Assignment) String() string { return a.Name + " := " + a.Value.String() }

// FunctionDefExpr is the unevaluated form of name(params) := body; the
// evaluator turns it into an ast.FunctionDef with no closure (spec §4.10).
type FunctionDefExpr struct {
	Name   string
	Params []string
	Body   Node
}

func (*FunctionDefExpr) node() {}
func (*FunctionDefExpr) expr() {}
func (f *FunctionDefExpr) String() string {
	return f.Name + "(" + strings.Join(f.Params, ", ") + ") := " + f.Body.String()
}

// LambdaExpr is the unevaluated form of x -> body or (x,y) -> body; the
// evaluator turns it into an ast.FunctionDef with a closure snapshot.
type LambdaExpr struct {
	Params []string
	Body   Node
}

func (*LambdaExpr) node() {}
func (*LambdaExpr) expr() {}
func (l *LambdaExpr) String() string {
	return "(" + strings.Join(l.Params, ", ") + ") -> " + l.Body.String()
}

// RangeExpr is start..end [step s].
type RangeExpr struct {
	Start Node
	End   Node
	Step  Node // nil if omitted
}

func (*RangeExpr) node() {}
func (*RangeExpr) expr() {}
func (r *RangeExpr) String() string {
	s := r.Start.String() + ".." + r.End.String()
	if r.Step != nil {
		s += " step " + r.Step.String()
	}
	return s
}

// UnitConversion is value (in|to|as) unit.
type UnitConversion struct {
	Value      Node
	TargetUnit string
}

func (*UnitConversion) node() {}
func (*UnitConversion) expr() {}
func (u *UnitConversion) String() string {
	return u.Value.String() + " in " + u.TargetUnit
}

// Iterator is one `for v in iterable` clause of a Comprehension.
type Iterator struct {
	VarName  string
	Iterable Node
}

// Comprehension is { expr for v in iterable [for v2 in iterable2]* [if cond] }.
// Iterators run in declaration order with the leftmost varying slowest
// (spec §5 Ordering).
type Comprehension struct {
	Expr      Node
	Iterators []Iterator
	Condition Node // nil if no `if` clause
}

func (*Comprehension) node() {}
func (*Comprehension) expr() {}
func (c *Comprehension) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	sb.WriteString(c.Expr.String())
	for _, it := range c.Iterators {
		sb.WriteString(" for ")
		sb.WriteString(it.VarName)
		sb.WriteString(" in ")
		sb.WriteString(it.Iterable.String())
	}
	if c.Condition != nil {
		sb.WriteString(" if ")
		sb.WriteString(c.Condition.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Sequence is a semicolon-separated list of statements; the evaluator
// returns the value of the last one (spec §4.10).
type Sequence struct {
	Statements []Node
}

func (*Sequence) node() {}
func (*Sequence) expr() {}
func (s *Sequence) String() string {
	parts := make([]string, len(s.Statements))
	for i, st := range s.Statements {
		parts[i] = st.String()
	}
	return "(" + strings.Join(parts, "; ") + ")"
}
