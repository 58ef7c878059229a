// Package evalctx implements the evaluation context of spec §3.5: nested
// variable/function scopes, the angle-unit setting, and recursion-depth
// bookkeeping shared across an entire evaluation call tree.
package evalctx

import (
	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/ident"
	"github.com/raharrison/mathengine/internal/registry"
)

// AngleUnit selects how trigonometric built-ins interpret and produce
// angle values (spec §6).
type AngleUnit int

const (
	Radians AngleUnit = iota
	Degrees
	Gradians
)

// recursionState is shared by every Context in a call tree so the depth
// counter is global to one evaluation, not per-scope.
type recursionState struct {
	depth int
	max   int
}

// Context is a mutable variable/function scope with an optional parent
// (spec §3.5). The root context is created by the engine facade; child
// contexts are created per function invocation or per comprehension
// iteration and discarded on return.
type Context struct {
	vars    map[string]ast.Value
	funcs   map[string]*ast.FunctionDef
	parent  *Context
	closure ast.Closure // set only on a lambda invocation's own scope

	angleUnit AngleUnit
	recursion *recursionState

	Units     *registry.UnitRegistry
	Constants *registry.ConstantRegistry

	MaxVectorSize     int
	MaxMatrixDimension int

	// ForceDoubleArithmetic runs binary arithmetic in float64 instead of
	// exact Rational (spec §6 force_double_arithmetic).
	ForceDoubleArithmetic bool
}

// NewRoot creates a top-level context with no parent.
func NewRoot(units *registry.UnitRegistry, constants *registry.ConstantRegistry, angleUnit AngleUnit, maxRecursionDepth int) *Context {
	return &Context{
		vars:      make(map[string]ast.Value),
		funcs:     make(map[string]*ast.FunctionDef),
		angleUnit: angleUnit,
		recursion: &recursionState{max: maxRecursionDepth},
		Units:     units,
		Constants: constants,
	}
}

// WithResourceLimits sets the vector/matrix size bounds enforced by the
// evaluator (spec §6 max_vector_size / max_matrix_dimension), returning
// the receiver for chaining onto NewRoot.
func (c *Context) WithResourceLimits(maxVectorSize, maxMatrixDimension int) *Context {
	c.MaxVectorSize = maxVectorSize
	c.MaxMatrixDimension = maxMatrixDimension
	return c
}

// WithForceDoubleArithmetic sets whether binary arithmetic runs in float64
// instead of exact Rational (spec §6), returning the receiver for chaining
// onto NewRoot.
func (c *Context) WithForceDoubleArithmetic(v bool) *Context {
	c.ForceDoubleArithmetic = v
	return c
}

// Child creates a new scope whose parent is c, sharing c's recursion
// counter, angle unit, and registries.
func (c *Context) Child() *Context {
	return &Context{
		vars:                  make(map[string]ast.Value),
		funcs:                 make(map[string]*ast.FunctionDef),
		parent:                c,
		angleUnit:             c.angleUnit,
		recursion:             c.recursion,
		Units:                 c.Units,
		Constants:             c.Constants,
		MaxVectorSize:         c.MaxVectorSize,
		MaxMatrixDimension:    c.MaxMatrixDimension,
		ForceDoubleArithmetic: c.ForceDoubleArithmetic,
	}
}

// ChildFromClosure creates a lambda-invocation scope with no Context parent:
// names unresolved in the invocation's own parameter bindings fall back to
// the captured closure rather than the caller's scope (lexical scoping,
// spec §4.10.2), while angle unit, recursion counter, and registries are
// still inherited from the caller (ambient engine-wide settings).
func (c *Context) ChildFromClosure(closure ast.Closure) *Context {
	return &Context{
		vars:                  make(map[string]ast.Value),
		funcs:                 make(map[string]*ast.FunctionDef),
		closure:               closure,
		angleUnit:             c.angleUnit,
		recursion:             c.recursion,
		Units:                 c.Units,
		Constants:             c.Constants,
		MaxVectorSize:         c.MaxVectorSize,
		MaxMatrixDimension:    c.MaxMatrixDimension,
		ForceDoubleArithmetic: c.ForceDoubleArithmetic,
	}
}

// AngleUnit reports the configured angle unit, satisfying functions.Context.
func (c *Context) AngleUnit() int { return int(c.angleUnit) }

// SetVariable binds name to value in this scope.
func (c *Context) SetVariable(name string, value ast.Value) {
	c.vars[ident.Normalize(name)] = value
}

// LookupVariable searches this scope and its ancestors, falling back to a
// captured closure (if any) once the Context chain is exhausted.
func (c *Context) LookupVariable(name string) (ast.Value, bool) {
	key := ident.Normalize(name)
	for cur := c; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[key]; ok {
			return v, true
		}
		if cur.closure != nil {
			return cur.closure.Lookup(name)
		}
	}
	return nil, false
}

// ClearVariables removes every binding from this scope only.
func (c *Context) ClearVariables() {
	c.vars = make(map[string]ast.Value)
}

// SetFunction binds name to def in this scope.
func (c *Context) SetFunction(name string, def *ast.FunctionDef) {
	c.funcs[ident.Normalize(name)] = def
}

// LookupFunction searches this scope and its ancestors for a user-defined
// function.
func (c *Context) LookupFunction(name string) (*ast.FunctionDef, bool) {
	key := ident.Normalize(name)
	for cur := c; cur != nil; cur = cur.parent {
		if f, ok := cur.funcs[key]; ok {
			return f, true
		}
	}
	return nil, false
}

// ClearFunctions removes every user-defined function from this scope only.
func (c *Context) ClearFunctions() {
	c.funcs = make(map[string]*ast.FunctionDef)
}

// Lookup implements ast.Closure so a Snapshot (and Context itself) can
// serve as a lambda's captured scope.
func (c *Context) Lookup(name string) (ast.Value, bool) {
	return c.LookupVariable(name)
}

// EnterCall increments the shared recursion counter and reports whether
// the depth is still within the configured maximum. The counter is
// incremented either way, so ExitCall must be called exactly once per
// EnterCall, on every exit path including errors.
func (c *Context) EnterCall() bool {
	c.recursion.depth++
	return c.recursion.depth <= c.recursion.max
}

// ExitCall decrements the shared recursion counter.
func (c *Context) ExitCall() {
	c.recursion.depth--
}

// Snapshot captures an immutable structural copy of the full variable
// chain visible from c, for use as a lambda closure (spec §3.5). Later
// mutation of c or its ancestors is not visible through the snapshot.
type Snapshot struct {
	vars map[string]ast.Value
}

// Snapshot builds a Snapshot of every variable visible from c, innermost
// scope taking precedence over outer ones with the same name.
func (c *Context) Snapshot() *Snapshot {
	flat := make(map[string]ast.Value)
	chain := []*Context{}
	for cur := c; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	if s, ok := chain[len(chain)-1].closure.(*Snapshot); ok {
		for k, v := range s.vars {
			flat[k] = v
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].vars {
			flat[k] = v
		}
	}
	return &Snapshot{vars: flat}
}

// Lookup implements ast.Closure.
func (s *Snapshot) Lookup(name string) (ast.Value, bool) {
	v, ok := s.vars[ident.Normalize(name)]
	return v, ok
}
