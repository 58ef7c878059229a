package evaluator

import (
	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
	"github.com/raharrison/mathengine/internal/evalctx"
	"github.com/raharrison/mathengine/internal/functions"
	"github.com/raharrison/mathengine/internal/ident"
	"github.com/raharrison/mathengine/internal/operators"
	"github.com/raharrison/mathengine/internal/token"
)

// evalCall implements the call-dispatch ladder of spec §4.10.2. When the
// callee is a bare name the ladder runs in order: the `if` special form,
// a user-defined function, a built-in function, a variable holding a
// function value, a variable times a single argument (implicit
// multiplication), an implicit-multiplication split of the name into a
// variable prefix and a function suffix, and finally UndefinedIdentifier.
// Any other callee expression is evaluated and must produce a function
// value.
func (e *Evaluator) evalCall(n *ast.Call, ctx *evalctx.Context) (ast.Value, error) {
	nameNode, ok := n.Callee.(*ast.Variable)
	if !ok {
		calleeVal, err := e.Eval(n.Callee, ctx)
		if err != nil {
			return nil, err
		}
		fnVal, ok := calleeVal.(*ast.Function)
		if !ok {
			return nil, errs.New(errs.TypeError, "value of type %s is not callable", calleeVal.TypeName())
		}
		return e.callUserFunction(fnVal.Def, n.Args, ctx)
	}

	name := nameNode.Name

	if ident.Equal(name, "if") {
		return e.evalIf(n, ctx)
	}
	if def, ok := ctx.LookupFunction(name); ok {
		return e.callUserFunction(def, n.Args, ctx)
	}
	if fn, ok := e.Functions.Lookup(name); ok {
		args, err := e.evalArgs(n.Args, ctx)
		if err != nil {
			return nil, err
		}
		return fn.Call(args, ctx)
	}
	if v, ok := ctx.LookupVariable(name); ok {
		if fnVal, ok := v.(*ast.Function); ok {
			return e.callUserFunction(fnVal.Def, n.Args, ctx)
		}
		if len(n.Args) != 1 {
			return nil, errs.New(errs.TypeError, "%q is not a function", name)
		}
		arg, err := e.Eval(n.Args[0], ctx)
		if err != nil {
			return nil, err
		}
		return operators.Binary(token.MULTIPLY, v, arg)
	}
	if prefix, fn, ok := e.splitCallTarget(name, ctx); ok {
		prefixVal, _ := ctx.LookupVariable(prefix)
		args, err := e.evalArgs(n.Args, ctx)
		if err != nil {
			return nil, err
		}
		result, err := fn.Call(args, ctx)
		if err != nil {
			return nil, err
		}
		return operators.Binary(token.MULTIPLY, prefixVal, result)
	}
	return nil, errs.New(errs.UndefinedIdentifier, "undefined function %q", name)
}

// splitCallTarget tries every prefix/suffix split of name, returning the
// first where the prefix is a defined variable and the suffix is a
// registered built-in function (spec §4.10.2 implicit-multiplication
// split of a call target).
func (e *Evaluator) splitCallTarget(name string, ctx *evalctx.Context) (string, *functions.Function, bool) {
	runes := []rune(name)
	for i := 1; i < len(runes); i++ {
		prefix := string(runes[:i])
		suffix := string(runes[i:])
		if _, ok := ctx.LookupVariable(prefix); !ok {
			continue
		}
		if fn, ok := e.Functions.Lookup(suffix); ok {
			return prefix, fn, true
		}
	}
	return "", nil, false
}

func (e *Evaluator) evalArgs(nodes []ast.Node, ctx *evalctx.Context) ([]ast.Value, error) {
	out := make([]ast.Value, len(nodes))
	for i, node := range nodes {
		v, err := e.Eval(node, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// evalIf evaluates the condition eagerly, then only the taken branch,
// giving `if` its required lazy short-circuit behaviour (spec §4.10.2);
// this is why `if` is handled here rather than through the function
// registry.
func (e *Evaluator) evalIf(n *ast.Call, ctx *evalctx.Context) (ast.Value, error) {
	if len(n.Args) != 3 {
		return nil, errs.New(errs.ArityError, "if expects 3 arguments (condition, then, else), got %d", len(n.Args))
	}
	cond, err := e.Eval(n.Args[0], ctx)
	if err != nil {
		return nil, err
	}
	if operators.Truthy(cond) {
		return e.Eval(n.Args[1], ctx)
	}
	return e.Eval(n.Args[2], ctx)
}

// callUserFunction invokes a user-defined function or lambda: parameters
// are bound in a fresh scope (lexical via the captured closure for
// lambdas, dynamic via the caller's context otherwise), and the shared
// recursion counter is incremented and decremented around the body
// evaluation on every exit path, including errors (spec §4.10.2).
func (e *Evaluator) callUserFunction(def *ast.FunctionDef, argNodes []ast.Node, ctx *evalctx.Context) (ast.Value, error) {
	if len(argNodes) != len(def.Params) {
		name := def.Name
		if name == "" {
			name = "lambda"
		}
		return nil, errs.New(errs.ArityError, "%s expects %d arguments, got %d", name, len(def.Params), len(argNodes))
	}
	args, err := e.evalArgs(argNodes, ctx)
	if err != nil {
		return nil, err
	}

	var callCtx *evalctx.Context
	if def.Closure != nil {
		callCtx = ctx.ChildFromClosure(def.Closure)
	} else {
		callCtx = ctx.Child()
	}
	for i, p := range def.Params {
		callCtx.SetVariable(p, args[i])
	}

	if !ctx.EnterCall() {
		ctx.ExitCall()
		return nil, errs.New(errs.StackOverflow, "maximum recursion depth exceeded")
	}
	defer ctx.ExitCall()

	return e.Eval(def.Body, callCtx)
}
