package mathengine

import (
	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
	"github.com/raharrison/mathengine/internal/evalctx"
	"github.com/raharrison/mathengine/internal/evaluator"
	"github.com/raharrison/mathengine/internal/functions"
	"github.com/raharrison/mathengine/internal/lexer"
	"github.com/raharrison/mathengine/internal/parser"
	"github.com/raharrison/mathengine/internal/registry"
	"github.com/raharrison/mathengine/internal/token"
)

// Engine is one embeddable session: a fixed set of registries and a
// mutable, session-persistent evaluation context (spec §3.5, §6). It is
// not safe for concurrent use by multiple callers (spec §5).
type Engine struct {
	opts Options

	units     *registry.UnitRegistry
	constants *registry.ConstantRegistry
	keywords  *registry.KeywordSet
	fns       *functions.Registry

	splitter   *lexer.Splitter
	classifier *lexer.Classifier

	eval *evaluator.Evaluator
	ctx  *evalctx.Context
}

// Create builds an Engine, applying opts over the documented defaults
// (spec §6 "create() -> Engine, create(config) -> Engine").
func Create(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	units := o.Units
	if units == nil {
		var err error
		units, err = registry.NewUnitRegistry()
		if err != nil {
			return nil, err
		}
	}
	constants := o.Constants
	if constants == nil {
		var err error
		constants, err = registry.NewConstantRegistry()
		if err != nil {
			return nil, err
		}
	}
	fns := o.Functions
	if fns == nil {
		fns = functions.NewRegistry()
	}
	keywords := registry.NewKeywordSet()

	ctx := evalctx.NewRoot(units, constants, evalctx.AngleUnit(o.AngleUnit), o.MaxRecursionDepth).
		WithResourceLimits(o.MaxVectorSize, o.MaxMatrixDimension).
		WithForceDoubleArithmetic(o.ForceDoubleArithmetic)

	return &Engine{
		opts:       o,
		units:      units,
		constants:  constants,
		keywords:   keywords,
		fns:        fns,
		splitter:   lexer.NewSplitter(constants, fns, units),
		classifier: lexer.NewClassifier(keywords, fns),
		eval:       evaluator.New(fns),
		ctx:        ctx,
	}, nil
}

// New is an alias of Create, matching the teacher's preferred constructor
// name for the common case of no explicit options.
func New(opts ...Option) (*Engine, error) { return Create(opts...) }

// tokenize runs the lexer pipeline, honoring the implicit_multiplication
// feature toggle (spec §6) — the one pipeline stage the engine may skip.
func (e *Engine) tokenize(source string) ([]token.Token, error) {
	toks, err := lexer.NewScanner(source).Scan()
	if err != nil {
		return nil, err
	}
	toks = e.splitter.Split(toks)
	toks = e.classifier.Classify(toks)
	if e.opts.ImplicitMultiplication {
		toks = lexer.InsertImplicitMultiply(toks)
	}
	if err := e.checkIdentifierLengths(toks); err != nil {
		return nil, err
	}
	return toks, nil
}

func (e *Engine) checkIdentifierLengths(toks []token.Token) error {
	if e.opts.MaxIdentifierLength <= 0 {
		return nil
	}
	for _, t := range toks {
		if t.Kind != token.IDENTIFIER {
			continue
		}
		if n := len([]rune(t.Lexeme)); n > e.opts.MaxIdentifierLength {
			return errs.At(errs.ResourceError, t.Line, t.Column, "identifier %q (%d characters) exceeds the configured maximum of %d", t.Lexeme, n, e.opts.MaxIdentifierLength)
		}
	}
	return nil
}

// parse runs the full lex+parse pipeline and validates the disabled-
// feature and expression-depth bounds against the resulting AST (spec §6).
func (e *Engine) parse(source string) (ast.Node, error) {
	toks, err := e.tokenize(source)
	if err != nil {
		return nil, err
	}
	node, err := parser.Parse(toks)
	if err != nil {
		return nil, err
	}
	if err := e.checkFeatures(node); err != nil {
		return nil, err
	}
	if e.opts.MaxExpressionDepth > 0 {
		if d := nodeDepth(node); d > e.opts.MaxExpressionDepth {
			return nil, errs.New(errs.ResourceError, "expression depth %d exceeds the configured maximum of %d", d, e.opts.MaxExpressionDepth)
		}
	}
	return node, nil
}

// Evaluate lexes, parses, and evaluates source against the engine's
// session-persistent context (spec §6).
func (e *Engine) Evaluate(source string) (ast.Value, error) {
	node, err := e.parse(source)
	if err != nil {
		return nil, err
	}
	v, err := e.eval.Eval(node, e.ctx)
	if err != nil {
		return nil, err
	}
	return applyDecimalPlaces(v, e.opts.DecimalPlaces), nil
}

// SetVariable binds name in the session context, as if by `name := value`.
func (e *Engine) SetVariable(name string, value ast.Value) { e.ctx.SetVariable(name, value) }

// GetVariable looks up a session variable.
func (e *Engine) GetVariable(name string) (ast.Value, bool) { return e.ctx.LookupVariable(name) }

// ClearVariables removes every session variable binding.
func (e *Engine) ClearVariables() { e.ctx.ClearVariables() }

// ClearFunctions removes every session user-defined function binding.
func (e *Engine) ClearFunctions() { e.ctx.ClearFunctions() }
