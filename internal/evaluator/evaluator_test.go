package evaluator

import (
	"testing"

	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/evalctx"
	"github.com/raharrison/mathengine/internal/functions"
	"github.com/raharrison/mathengine/internal/lexer"
	"github.com/raharrison/mathengine/internal/parser"
	"github.com/raharrison/mathengine/internal/registry"
)

// newTestEvaluator builds a fresh Evaluator, Context, and Pipeline sharing
// one set of registries, mirroring how pkg/mathengine wires these together.
func newTestEvaluator(t *testing.T) (*Evaluator, *evalctx.Context, *lexer.Pipeline) {
	t.Helper()
	units, err := registry.NewUnitRegistry()
	if err != nil {
		t.Fatalf("NewUnitRegistry() error = %v", err)
	}
	constants, err := registry.NewConstantRegistry()
	if err != nil {
		t.Fatalf("NewConstantRegistry() error = %v", err)
	}
	fns := functions.NewRegistry()
	keywords := registry.NewKeywordSet()
	pipeline := lexer.NewPipeline(units, constants, keywords, fns)
	ctx := evalctx.NewRoot(units, constants, evalctx.Radians, 256)
	return New(fns), ctx, pipeline
}

func evalSource(t *testing.T, e *Evaluator, ctx *evalctx.Context, p *lexer.Pipeline, source string) (ast.Value, error) {
	t.Helper()
	toks, err := p.Tokenize(source)
	if err != nil {
		return nil, err
	}
	node, err := parser.Parse(toks)
	if err != nil {
		return nil, err
	}
	return e.Eval(node, ctx)
}

func mustDouble(t *testing.T, v ast.Value) float64 {
	t.Helper()
	d, ok := v.(*ast.Double)
	if ok {
		return d.Val
	}
	r, ok := v.(*ast.Rational)
	if ok {
		return r.Float64()
	}
	t.Fatalf("value %#v is not numeric", v)
	return 0
}

func TestResolveGeneralVariableShadowsConstant(t *testing.T) {
	e, ctx, p := newTestEvaluator(t)

	if _, err := evalSource(t, e, ctx, p, "pi := 100"); err != nil {
		t.Fatalf("assignment error = %v", err)
	}
	got, err := evalSource(t, e, ctx, p, "pi")
	if err != nil {
		t.Fatalf("Eval(pi) error = %v", err)
	}
	if f := mustDouble(t, got); f != 100 {
		t.Errorf("shadowed pi = %v, want 100", f)
	}

	got, err = evalSource(t, e, ctx, p, "#pi")
	if err != nil {
		t.Fatalf("Eval(#pi) error = %v", err)
	}
	if f := mustDouble(t, got); f == 100 {
		t.Errorf("#pi should bypass the shadowing variable, got %v", f)
	}
}

func TestImplicitMultiplicationBetweenNumberAndVariable(t *testing.T) {
	e, ctx, p := newTestEvaluator(t)
	ctx.SetVariable("x", ast.NewDouble(3))

	got, err := evalSource(t, e, ctx, p, "2x")
	if err != nil {
		t.Fatalf("Eval(2x) error = %v", err)
	}
	if f := mustDouble(t, got); f != 6 {
		t.Errorf("2x = %v, want 6", f)
	}
}

func TestLambdaClosureCapturesDefiningScope(t *testing.T) {
	e, ctx, p := newTestEvaluator(t)

	if _, err := evalSource(t, e, ctx, p, "n := 5"); err != nil {
		t.Fatalf("assignment error = %v", err)
	}
	if _, err := evalSource(t, e, ctx, p, "addN := (x) -> x + n"); err != nil {
		t.Fatalf("lambda def error = %v", err)
	}
	if _, err := evalSource(t, e, ctx, p, "n := 999"); err != nil {
		t.Fatalf("reassignment error = %v", err)
	}

	got, err := evalSource(t, e, ctx, p, "addN(1)")
	if err != nil {
		t.Fatalf("Eval(addN(1)) error = %v", err)
	}
	if f := mustDouble(t, got); f != 6 {
		t.Errorf("addN(1) = %v, want 6 (closure over n=5, not the later n=999)", f)
	}
}

func TestNamedFunctionResolvesFreeNamesDynamically(t *testing.T) {
	e, ctx, p := newTestEvaluator(t)

	if _, err := evalSource(t, e, ctx, p, "n := 5"); err != nil {
		t.Fatalf("assignment error = %v", err)
	}
	if _, err := evalSource(t, e, ctx, p, "addN(x) := x + n"); err != nil {
		t.Fatalf("function def error = %v", err)
	}
	if _, err := evalSource(t, e, ctx, p, "n := 999"); err != nil {
		t.Fatalf("reassignment error = %v", err)
	}

	got, err := evalSource(t, e, ctx, p, "addN(1)")
	if err != nil {
		t.Fatalf("Eval(addN(1)) error = %v", err)
	}
	if f := mustDouble(t, got); f != 1000 {
		t.Errorf("addN(1) = %v, want 1000 (dynamic scope sees the later n=999)", f)
	}
}

func TestRecursionDepthIsEnforced(t *testing.T) {
	units, err := registry.NewUnitRegistry()
	if err != nil {
		t.Fatalf("NewUnitRegistry() error = %v", err)
	}
	constants, err := registry.NewConstantRegistry()
	if err != nil {
		t.Fatalf("NewConstantRegistry() error = %v", err)
	}
	fns := functions.NewRegistry()
	keywords := registry.NewKeywordSet()
	p := lexer.NewPipeline(units, constants, keywords, fns)
	ctx := evalctx.NewRoot(units, constants, evalctx.Radians, 3)
	e := New(fns)

	if _, err := evalSource(t, e, ctx, p, "loop(n) := if(n <= 0, 0, loop(n - 1))"); err != nil {
		t.Fatalf("function def error = %v", err)
	}
	if _, err := evalSource(t, e, ctx, p, "loop(100)"); err == nil {
		t.Fatal("expected a recursion-depth error, got nil")
	}
}

func TestSubscriptAndComprehensionCompose(t *testing.T) {
	e, ctx, p := newTestEvaluator(t)

	got, err := evalSource(t, e, ctx, p, "{x * 2 for x in 1..3}[1]")
	if err != nil {
		t.Fatalf("Eval error = %v", err)
	}
	if f := mustDouble(t, got); f != 4 {
		t.Errorf("second element of {2,4,6} = %v, want 4", f)
	}
}
