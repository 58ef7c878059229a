package mathengine

import (
	"testing"

	"github.com/tidwall/gjson"

	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
)

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   float64
	}{
		{"addition", "1 + 2", 3},
		{"precedence", "2 + 3 * 4", 14},
		{"power right-assoc", "2 ^ 3 ^ 2", 512},
		{"unary minus", "-(3 + 4)", -7},
		{"implicit multiply", "2(3 + 4)", 14},
		{"zero to the zero", "0 ^ 0", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New()
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			got, err := e.Evaluate(tt.source)
			if err != nil {
				t.Fatalf("Evaluate(%q) error = %v", tt.source, err)
			}
			f, ok := asFloat(got)
			if !ok {
				t.Fatalf("Evaluate(%q) = %#v, want a number", tt.source, got)
			}
			if f != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.source, f, tt.want)
			}
		})
	}
}

func TestEvaluateSessionPersistence(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := e.Evaluate("x := 10"); err != nil {
		t.Fatalf("assignment error = %v", err)
	}
	got, err := e.Evaluate("x * 2")
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	if f, ok := asFloat(got); !ok || f != 20 {
		t.Errorf("x * 2 = %#v, want 20", got)
	}

	e.ClearVariables()
	if _, err := e.Evaluate("x"); err == nil {
		t.Error("expected undefined identifier error after ClearVariables, got nil")
	}
}

func TestEvaluateUserDefinedFunctionAndLambda(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := e.Evaluate("square(x) := x * x"); err != nil {
		t.Fatalf("function def error = %v", err)
	}
	got, err := e.Evaluate("square(5)")
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	if f, ok := asFloat(got); !ok || f != 25 {
		t.Errorf("square(5) = %#v, want 25", got)
	}

	if _, err := e.Evaluate("addN := (n) -> (x) -> x + n"); err != nil {
		t.Fatalf("lambda def error = %v", err)
	}
	if _, err := e.Evaluate("add5 := addN(5)"); err != nil {
		t.Fatalf("closure capture error = %v", err)
	}
	got, err = e.Evaluate("add5(10)")
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	if f, ok := asFloat(got); !ok || f != 15 {
		t.Errorf("add5(10) = %#v, want 15 (closure over n=5)", got)
	}
}

func TestEvaluateIfIsLazy(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := e.Evaluate("if(true, 1, 1/0)")
	if err != nil {
		t.Fatalf("expected the untaken branch to stay unevaluated, got error: %v", err)
	}
	if f, ok := asFloat(got); !ok || f != 1 {
		t.Errorf("if(true, 1, 1/0) = %#v, want 1", got)
	}
}

func TestEvaluateVectorBroadcast(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := e.Evaluate("{1, 2, 3} + 10")
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	vec, ok := got.(*ast.Vector)
	if !ok {
		t.Fatalf("got %T, want *ast.Vector", got)
	}
	if len(vec.Elements) != 3 {
		t.Fatalf("got %d elements, want 3", len(vec.Elements))
	}
	for i, want := range []float64{11, 12, 13} {
		f, ok := asFloat(vec.Elements[i].(ast.Value))
		if !ok || f != want {
			t.Errorf("element %d = %v, want %v", i, vec.Elements[i], want)
		}
	}
}

func TestEvaluateComprehension(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := e.Evaluate("{x * x for x in 1..4}")
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	vec, ok := got.(*ast.Vector)
	if !ok {
		t.Fatalf("got %T, want *ast.Vector", got)
	}
	want := []float64{1, 4, 9, 16}
	if len(vec.Elements) != len(want) {
		t.Fatalf("got %d elements, want %d", len(vec.Elements), len(want))
	}
	for i, w := range want {
		f, ok := asFloat(vec.Elements[i].(ast.Value))
		if !ok || f != w {
			t.Errorf("element %d = %v, want %v", i, vec.Elements[i], w)
		}
	}
}

func TestEvaluateUnitConversion(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := e.Evaluate("5 km in m")
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	uv, ok := got.(*ast.UnitValue)
	if !ok {
		t.Fatalf("got %T, want *ast.UnitValue", got)
	}
	if uv.Val != 5000 {
		t.Errorf("5 km in m = %v, want 5000", uv.Val)
	}
	if uv.Unit.Singular != "meter" {
		t.Errorf("target unit = %q, want meter", uv.Unit.Singular)
	}
}

func TestEvaluateSubscript(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := e.Evaluate("{10, 20, 30}[-1]")
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	if f, ok := asFloat(got); !ok || f != 30 {
		t.Errorf("last element = %#v, want 30", got)
	}
}

func TestCompiledExpressionReusesAST(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := e.Evaluate("x := 1"); err != nil {
		t.Fatalf("assignment error = %v", err)
	}
	compiled, err := e.Compile("x + 1")
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	if compiled.ID.String() == "" {
		t.Error("expected a non-empty compiled expression ID")
	}

	got, err := compiled.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate error = %v", err)
	}
	if f, ok := asFloat(got); !ok || f != 2 {
		t.Errorf("x + 1 = %#v, want 2", got)
	}

	e.SetVariable("x", ast.NewDouble(9))
	got, err = compiled.Evaluate()
	if err != nil {
		t.Fatalf("re-evaluate error = %v", err)
	}
	if f, ok := asFloat(got); !ok || f != 10 {
		t.Errorf("re-evaluated x + 1 = %#v, want 10 after session mutation", got)
	}
}

func TestCompiledExpressionDisplay(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	compiled, err := e.Compile("5 km in m")
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	display, err := compiled.Display()
	if err != nil {
		t.Fatalf("Display error = %v", err)
	}
	if kind := gjson.Get(display, "kind").String(); kind != "unit" {
		t.Errorf("display kind = %q, want unit", kind)
	}
	if unit := gjson.Get(display, "unit").String(); unit != "meter" {
		t.Errorf("display unit = %q, want meter", unit)
	}
}

func TestEngineResourceLimits(t *testing.T) {
	e, err := New(WithMaxVectorSize(3))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := e.Evaluate("{1, 2, 3}"); err != nil {
		t.Errorf("vector at the limit should succeed, got error: %v", err)
	}
	_, err = e.Evaluate("{1, 2, 3, 4}")
	if err == nil {
		t.Fatal("expected a ResourceError for a vector over max_vector_size, got nil")
	}
	if kind := errs.KindOf(err); kind != errs.ResourceError {
		t.Errorf("error kind = %v, want ResourceError", kind)
	}
}

func TestEngineRecursionLimit(t *testing.T) {
	e, err := New(WithMaxRecursionDepth(5))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := e.Evaluate("loop(n) := if(n <= 0, 0, loop(n - 1))"); err != nil {
		t.Fatalf("function def error = %v", err)
	}
	_, err = e.Evaluate("loop(100)")
	if err == nil {
		t.Fatal("expected a StackOverflow error, got nil")
	}
	if kind := errs.KindOf(err); kind != errs.StackOverflow {
		t.Errorf("error kind = %v, want StackOverflow", kind)
	}
}

func TestEngineFeatureToggles(t *testing.T) {
	e, err := New(WithVectorsEnabled(false))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := e.Evaluate("{1, 2, 3}"); err == nil {
		t.Error("expected vector literals to be rejected when disabled")
	}
	if _, err := e.Evaluate("1 + 2"); err != nil {
		t.Errorf("plain arithmetic should still work with vectors disabled, got error: %v", err)
	}
}

func TestEngineDescribe(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	d := e.Describe()
	if len(d.Functions) == 0 {
		t.Error("expected at least one described function")
	}
	if len(d.Units) == 0 {
		t.Error("expected at least one described unit")
	}
	if len(d.Constants) == 0 {
		t.Error("expected at least one described constant")
	}
}

// asFloat coerces any of the engine's numeric scalar value kinds to a
// float64 for test comparisons, without pulling in internal/operators.
func asFloat(v ast.Value) (float64, bool) {
	switch t := v.(type) {
	case *ast.Double:
		return t.Val, true
	case *ast.Rational:
		return t.Float64(), true
	case *ast.Percent:
		return t.Decimal, true
	case *ast.Boolean:
		if t.Val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func TestEvaluatePercentArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   float64
	}{
		{"percent of number, percent left", "20% of 5", 1},
		{"percent of number, percent right", "5 of 20%", 1},
		{"number plus percent", "50 + 10%", 55},
		{"percent plus percent", "10% + 10%", 0.2},
		{"percent times percent", "50% * 50%", 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New()
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			got, err := e.Evaluate(tt.source)
			if err != nil {
				t.Fatalf("Evaluate(%q) error = %v", tt.source, err)
			}
			f, ok := asFloat(got)
			if !ok {
				t.Fatalf("Evaluate(%q) = %#v, want a number", tt.source, got)
			}
			if f != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.source, f, tt.want)
			}
		})
	}
}

func TestEvaluateZeroDenominatorRationalIsDomainError(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = e.Evaluate("5/0")
	if err == nil {
		t.Fatal("expected a DomainError for 5/0, got nil")
	}
	if k := errs.KindOf(err); k != errs.DomainError {
		t.Errorf("Evaluate(\"5/0\") error kind = %v, want DomainError", k)
	}
}

func TestEvaluateZeroToNegativePowerIsDomainError(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = e.Evaluate("0 ^ -2")
	if err == nil {
		t.Fatal("expected a DomainError for 0^-2, got nil")
	}
	if k := errs.KindOf(err); k != errs.DomainError {
		t.Errorf("Evaluate(\"0 ^ -2\") error kind = %v, want DomainError", k)
	}
}

func TestEvaluateAtOperatorIsMatrixMultiply(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := e.Evaluate("{1, 2} @ {3, 4}")
	if err != nil {
		t.Fatalf("Evaluate({1,2} @ {3,4}) error = %v", err)
	}
	f, ok := asFloat(got)
	if !ok {
		t.Fatalf("Evaluate({1,2} @ {3,4}) = %#v, want a number", got)
	}
	if f != 11 {
		t.Errorf("{1,2} @ {3,4} = %v, want 11", f)
	}
}

func TestEvaluateAtUnitRefStillLexesAsUnitReference(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := e.Evaluate("5@m")
	if err != nil {
		t.Fatalf("Evaluate(5@m) error = %v", err)
	}
	uv, ok := got.(*ast.UnitValue)
	if !ok {
		t.Fatalf("Evaluate(5@m) = %#v, want a UnitValue", got)
	}
	if uv.Val != 5 {
		t.Errorf("Evaluate(5@m) value = %v, want 5", uv.Val)
	}
}

func TestForceDoubleArithmeticOption(t *testing.T) {
	e, err := New(WithForceDoubleArithmetic(true))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := e.Evaluate("10 / 3")
	if err != nil {
		t.Fatalf("Evaluate(10 / 3) error = %v", err)
	}
	if _, ok := got.(*ast.Double); !ok {
		t.Errorf("Evaluate(10 / 3) with ForceDoubleArithmetic = %#v, want *ast.Double", got)
	}
}

func TestDecimalPlacesOption(t *testing.T) {
	e, err := New(WithDecimalPlaces(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := e.Evaluate("10 / 3")
	if err != nil {
		t.Fatalf("Evaluate(10/3) error = %v", err)
	}
	f, ok := asFloat(got)
	if !ok {
		t.Fatalf("Evaluate(10/3) = %#v, want a number", got)
	}
	if f != 3.33 {
		t.Errorf("Evaluate(10/3) with DecimalPlaces(2) = %v, want 3.33", f)
	}
}
