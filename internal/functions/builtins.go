package functions

import (
	"math"

	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
)

// builtins returns the minimal built-in set of SPEC_FULL.md §C: enough
// trigonometric, rounding, logarithmic, and aggregation functions to
// execute the spec's end-to-end scenarios. Per-function math content
// beyond this (gamma, full statistics, matrix inverse) is out of scope;
// registering additional functions here is how an embedder would extend
// the set, not a change to the dispatch machinery.
func builtins() []*Function {
	return []*Function{
		trig("sin", math.Sin),
		trig("cos", math.Cos),
		trig("tan", math.Tan),
		unary1("sqrt", "Square root", func(x float64) (float64, error) {
			if x < 0 {
				return 0, errs.New(errs.DomainError, "sqrt of a negative number")
			}
			return math.Sqrt(x), nil
		}),
		unary1("abs", "Absolute value", func(x float64) (float64, error) { return math.Abs(x), nil }),
		unary1("floor", "Round toward negative infinity", func(x float64) (float64, error) { return math.Floor(x), nil }),
		unary1("ceil", "Round toward positive infinity", func(x float64) (float64, error) { return math.Ceil(x), nil }),
		unary1("round", "Round to nearest integer", func(x float64) (float64, error) { return math.Round(x), nil }),
		unary1("ln", "Natural logarithm", func(x float64) (float64, error) {
			if x <= 0 {
				return 0, errs.New(errs.DomainError, "ln of a non-positive number")
			}
			return math.Log(x), nil
		}),
		logFn(),
		minMax("min", func(a, b float64) bool { return a < b }),
		minMax("max", func(a, b float64) bool { return a > b }),
		sumFn(),
		avgFn(),
	}
}

func floatOf(v ast.Value) (float64, error) {
	switch t := v.(type) {
	case *ast.Double:
		return t.Val, nil
	case *ast.Rational:
		return t.Float64(), nil
	case *ast.Percent:
		return t.Decimal, nil
	case *ast.Boolean:
		if t.Val {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, errs.New(errs.TypeError, "expected a number, got %s", v.TypeName())
	}
}

// unary1 wraps a plain float64->float64(,error) function as a one-argument
// broadcasting-aware built-in.
func unary1(name, description string, f func(float64) (float64, error)) *Function {
	return &Function{
		Name:                       name,
		Description:                description,
		Category:                   "math",
		MinArity:                   1,
		MaxArity:                   1,
		SupportsVectorBroadcasting: true,
		Apply: func(args []ast.Value, ctx Context) (ast.Value, error) {
			x, err := floatOf(args[0])
			if err != nil {
				return nil, err
			}
			y, err := f(x)
			if err != nil {
				return nil, err
			}
			return ast.NewDouble(y), nil
		},
	}
}

// trig wraps a trigonometric function, converting the argument from the
// context's configured angle unit into radians first (spec §6 angle_unit).
func trig(name string, f func(float64) float64) *Function {
	return &Function{
		Name:                       name,
		Description:                "Trigonometric " + name,
		Category:                   "trigonometry",
		MinArity:                   1,
		MaxArity:                   1,
		SupportsVectorBroadcasting: true,
		Apply: func(args []ast.Value, ctx Context) (ast.Value, error) {
			x, err := floatOf(args[0])
			if err != nil {
				return nil, err
			}
			return ast.NewDouble(f(toRadians(x, ctx))), nil
		},
	}
}

func toRadians(x float64, ctx Context) float64 {
	switch AngleUnit(ctx.AngleUnit()) {
	case Degrees:
		return x * math.Pi / 180
	case Gradians:
		return x * math.Pi / 200
	default:
		return x
	}
}

func logFn() *Function {
	return &Function{
		Name:        "log",
		Description: "Logarithm; one argument is base-10, two arguments take an explicit base",
		Category:    "math",
		MinArity:    1,
		MaxArity:    2,
		Apply: func(args []ast.Value, ctx Context) (ast.Value, error) {
			x, err := floatOf(args[0])
			if err != nil {
				return nil, err
			}
			if x <= 0 {
				return nil, errs.New(errs.DomainError, "log of a non-positive number")
			}
			if len(args) == 1 {
				return ast.NewDouble(math.Log10(x)), nil
			}
			base, err := floatOf(args[1])
			if err != nil {
				return nil, err
			}
			if base <= 0 || base == 1 {
				return nil, errs.New(errs.DomainError, "log base must be positive and not equal to 1")
			}
			return ast.NewDouble(math.Log(x) / math.Log(base)), nil
		},
	}
}

func minMax(name string, better func(a, b float64) bool) *Function {
	return &Function{
		Name:        name,
		Description: name + " of its arguments, or of a single vector's elements",
		Category:    "aggregation",
		MinArity:    1,
		MaxArity:    -1,
		Apply: func(args []ast.Value, ctx Context) (ast.Value, error) {
			values, err := flattenArgs(args)
			if err != nil {
				return nil, err
			}
			best := values[0]
			for _, v := range values[1:] {
				if better(v, best) {
					best = v
				}
			}
			return ast.NewDouble(best), nil
		},
	}
}

func sumFn() *Function {
	return &Function{
		Name:        "sum",
		Description: "Sum of its arguments, or of a single vector's elements",
		Category:    "aggregation",
		MinArity:    1,
		MaxArity:    -1,
		Apply: func(args []ast.Value, ctx Context) (ast.Value, error) {
			values, err := flattenArgs(args)
			if err != nil {
				return nil, err
			}
			total := 0.0
			for _, v := range values {
				total += v
			}
			return ast.NewDouble(total), nil
		},
	}
}

func avgFn() *Function {
	return &Function{
		Name:        "avg",
		Aliases:     []string{"average", "mean"},
		Description: "Arithmetic mean of its arguments, or of a single vector's elements",
		Category:    "aggregation",
		MinArity:    1,
		MaxArity:    -1,
		Apply: func(args []ast.Value, ctx Context) (ast.Value, error) {
			values, err := flattenArgs(args)
			if err != nil {
				return nil, err
			}
			total := 0.0
			for _, v := range values {
				total += v
			}
			return ast.NewDouble(total / float64(len(values))), nil
		},
	}
}

// flattenArgs collects either a single vector's elements or the argument
// list itself into a flat slice of float64.
func flattenArgs(args []ast.Value) ([]float64, error) {
	if len(args) == 1 {
		if v, ok := args[0].(*ast.Vector); ok {
			out := make([]float64, len(v.Elements))
			for i, n := range v.Elements {
				ev, ok := n.(ast.Value)
				if !ok {
					return nil, errs.New(errs.TypeError, "expected evaluated vector elements")
				}
				f, err := floatOf(ev)
				if err != nil {
					return nil, err
				}
				out[i] = f
			}
			return out, nil
		}
	}
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := floatOf(a)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
