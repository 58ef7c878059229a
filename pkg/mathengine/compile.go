package mathengine

import (
	"github.com/google/uuid"

	"github.com/raharrison/mathengine/internal/ast"
)

// CompiledExpression is a parsed-once AST bound to the Engine that
// produced it, so repeated evaluation (e.g. inside a host application's
// hot loop, or against a changing set of session variables) skips the
// lex/parse pass (spec §6 "compile(source) -> reusable handle").
type CompiledExpression struct {
	ID     uuid.UUID
	Source string

	engine *Engine
	node   ast.Node
}

// Compile lexes and parses source once, returning a handle that can be
// evaluated repeatedly against the engine's current session context.
func (e *Engine) Compile(source string) (*CompiledExpression, error) {
	node, err := e.parse(source)
	if err != nil {
		return nil, err
	}
	return &CompiledExpression{
		ID:     uuid.New(),
		Source: source,
		engine: e,
		node:   node,
	}, nil
}

// Evaluate re-evaluates the compiled AST against the owning engine's
// current session context. Session variable assignments made since
// Compile was called (by this expression or any other) are visible.
func (c *CompiledExpression) Evaluate() (ast.Value, error) {
	v, err := c.engine.eval.Eval(c.node, c.engine.ctx)
	if err != nil {
		return nil, err
	}
	return applyDecimalPlaces(v, c.engine.opts.DecimalPlaces), nil
}

// Display evaluates the expression and returns its structural display
// form (spec §C), independent of the value's textual formatting.
func (c *CompiledExpression) Display() (string, error) {
	v, err := c.Evaluate()
	if err != nil {
		return "", err
	}
	return v.Display(), nil
}
