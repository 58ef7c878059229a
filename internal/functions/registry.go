// Package functions implements the function executor of spec §4.8: an
// immutable registry of built-in functions keyed by name and alias, each
// carrying arity bounds and a broadcasting flag.
package functions

import (
	"fmt"

	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
	"github.com/raharrison/mathengine/internal/ident"
)

// AngleUnit mirrors evalctx.AngleUnit without importing it, avoiding a
// cycle (evalctx does not need to know about functions, but functions
// needs to read the caller's angle unit for trig built-ins).
type AngleUnit int

const (
	Radians AngleUnit = iota
	Degrees
	Gradians
)

// Context is the minimal view of the evaluation context a built-in needs.
type Context interface {
	AngleUnit() int
}

// Apply is a built-in function's implementation.
type Apply func(args []ast.Value, ctx Context) (ast.Value, error)

// Function is one entry in the registry (spec §4.8).
type Function struct {
	Name                       string
	Aliases                    []string
	Description                string
	Category                   string
	MinArity                   int
	MaxArity                   int // -1 = unbounded
	SupportsVectorBroadcasting bool
	Apply                      Apply
}

// Registry is the immutable, built-once function table (spec §4.9).
type Registry struct {
	byName map[string]*Function
	all    []*Function
}

// NewRegistry builds the registry containing the minimal built-in set
// named in the domain-stack expansion (trig, roots, rounding, logs,
// aggregation). `if` is handled by the evaluator and is not registered.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*Function)}
	for _, fn := range builtins() {
		r.register(fn)
	}
	return r
}

func (r *Registry) register(fn *Function) {
	r.all = append(r.all, fn)
	r.byName[ident.Normalize(fn.Name)] = fn
	for _, a := range fn.Aliases {
		r.byName[ident.Normalize(a)] = fn
	}
}

// Register adds fn to the registry, overwriting any existing entry with
// the same name or alias. This is the seam an embedder uses to add
// functions this package does not register at all (gamma, statistical
// functions, matrix inverse — see SPEC_FULL.md §C).
func (r *Registry) Register(fn *Function) {
	r.register(fn)
}

// Lookup finds a function by name or alias, case-insensitively.
func (r *Registry) Lookup(name string) (*Function, bool) {
	fn, ok := r.byName[ident.Normalize(name)]
	return fn, ok
}

// Has implements lexer.NameSet.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// All returns every distinct registered function.
func (r *Registry) All() []*Function {
	out := make([]*Function, len(r.all))
	copy(out, r.all)
	return out
}

// Call validates arity and broadcasting before invoking fn.Apply (spec
// §4.8 dispatch rules).
func (fn *Function) Call(args []ast.Value, ctx Context) (ast.Value, error) {
	n := len(args)
	if n < fn.MinArity || (fn.MaxArity >= 0 && n > fn.MaxArity) {
		max := "unbounded"
		if fn.MaxArity >= 0 {
			max = fmt.Sprintf("%d", fn.MaxArity)
		}
		return nil, errs.New(errs.ArityError, "%s expects between %d and %s arguments, got %d", fn.Name, fn.MinArity, max, n)
	}
	if fn.SupportsVectorBroadcasting && n == 1 {
		if v, ok := args[0].(*ast.Vector); ok {
			out := make([]ast.Node, len(v.Elements))
			for i, el := range v.Elements {
				ev, ok := el.(ast.Value)
				if !ok {
					return nil, errs.New(errs.TypeError, "%s requires evaluated vector elements", fn.Name)
				}
				r, err := fn.Apply([]ast.Value{ev}, ctx)
				if err != nil {
					return nil, err
				}
				out[i] = r
			}
			return &ast.Vector{Elements: out}, nil
		}
	}
	return fn.Apply(args, ctx)
}

