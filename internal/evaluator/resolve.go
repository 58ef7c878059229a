package evaluator

import (
	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
	"github.com/raharrison/mathengine/internal/evalctx"
	"github.com/raharrison/mathengine/internal/operators"
	"github.com/raharrison/mathengine/internal/token"
)

// resolveGeneral implements the General variable-resolution mode of spec
// §4.10.1: defined variable (with the constant registry folded into this
// tier, so an unshadowed `pi` resolves the same way a user-assigned name
// would) → user-defined function value → unit reference → implicit-
// multiplication split.
func (e *Evaluator) resolveGeneral(name string, ctx *evalctx.Context) (ast.Value, error) {
	if v, ok := ctx.LookupVariable(name); ok {
		return v, nil
	}
	if v, ok := ctx.Constants.Lookup(name); ok {
		return v, nil
	}
	if def, ok := ctx.LookupFunction(name); ok {
		return ast.NewFunction(def), nil
	}
	if u, ok := ctx.Units.Lookup(name); ok {
		return ast.NewUnitValue(1, u), nil
	}
	if v, ok := e.implicitSplit(name, ctx); ok {
		return v, nil
	}
	return nil, errs.New(errs.UndefinedIdentifier, "undefined identifier %q", name)
}

// resolvePostfixUnit implements the PostfixUnit mode used to resolve the
// target name of an `in`/`to`/`as` conversion: a registered unit first,
// then a variable that itself holds a unit value (spec §4.10.1).
func (e *Evaluator) resolvePostfixUnit(name string, ctx *evalctx.Context) (*ast.UnitDef, error) {
	if u, ok := ctx.Units.Lookup(name); ok {
		return u, nil
	}
	if v, ok := ctx.LookupVariable(name); ok {
		if uv, ok := v.(*ast.UnitValue); ok {
			return uv.Unit, nil
		}
	}
	return nil, errs.New(errs.UndefinedIdentifier, "undefined unit %q", name)
}

// implicitSplit attempts spec §4.10.1's implicit-multiplication split: the
// name is greedily decomposed left-to-right into the shortest sequence of
// known pieces (each a defined variable, a constant, or a user function),
// then reduced left-to-right with the * operator. Bare references to a
// built-in function name are intentionally excluded from "known piece"
// here since a native built-in has no AST representation as a first-class
// value (see SPEC_FULL.md Open Questions).
func (e *Evaluator) implicitSplit(name string, ctx *evalctx.Context) (ast.Value, bool) {
	pieces, ok := splitIntoKnownPieces(name, ctx)
	if !ok {
		return nil, false
	}
	var result ast.Value
	for i, p := range pieces {
		v, ok := resolvePiece(p, ctx)
		if !ok {
			return nil, false
		}
		if i == 0 {
			result = v
			continue
		}
		r, err := operators.Binary(token.MULTIPLY, result, v)
		if err != nil {
			return nil, false
		}
		result = r
	}
	return result, true
}

func splitIntoKnownPieces(name string, ctx *evalctx.Context) ([]string, bool) {
	runes := []rune(name)
	var pieces []string
	i := 0
	for i < len(runes) {
		found := false
		for l := len(runes) - i; l >= 1; l-- {
			piece := string(runes[i : i+l])
			if isKnownPiece(piece, ctx) {
				pieces = append(pieces, piece)
				i += l
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	if len(pieces) < 2 {
		return nil, false
	}
	return pieces, true
}

func isKnownPiece(piece string, ctx *evalctx.Context) bool {
	if _, ok := ctx.LookupVariable(piece); ok {
		return true
	}
	if _, ok := ctx.Constants.Lookup(piece); ok {
		return true
	}
	if _, ok := ctx.LookupFunction(piece); ok {
		return true
	}
	return false
}

func resolvePiece(piece string, ctx *evalctx.Context) (ast.Value, bool) {
	if v, ok := ctx.LookupVariable(piece); ok {
		return v, true
	}
	if v, ok := ctx.Constants.Lookup(piece); ok {
		return v, true
	}
	if def, ok := ctx.LookupFunction(piece); ok {
		return ast.NewFunction(def), true
	}
	return nil, false
}
