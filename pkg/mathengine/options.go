// Package mathengine is the embedding facade of spec §6: construct an
// Engine from Options, then evaluate source strings (or precompiled
// expressions) against a session-persistent variable/function context.
package mathengine

import (
	"github.com/raharrison/mathengine/internal/functions"
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

// Options configures an Engine (spec §6). Use Create/New with functional
// Option values rather than constructing this directly.
type Options struct {
	AngleUnit             AngleUnit
	ForceDoubleArithmetic bool
	DecimalPlaces         int

	MaxRecursionDepth   int
	MaxExpressionDepth  int
	MaxVectorSize       int
	MaxMatrixDimension  int
	MaxIdentifierLength int

	ImplicitMultiplication      bool
	VectorsEnabled              bool
	MatricesEnabled             bool
	UnitsEnabled                bool
	ComprehensionsEnabled       bool
	LambdasEnabled              bool
	UserDefinedFunctionsEnabled bool

	// Component registrations: a nil field takes the engine's own default.
	Functions *functions.Registry
	Units     *registry.UnitRegistry
	Constants *registry.ConstantRegistry
}

// Option mutates an in-progress Options value.
type Option func(*Options)

// defaultOptions returns spec §6's documented defaults.
func defaultOptions() Options {
	return Options{
		AngleUnit:             Radians,
		ForceDoubleArithmetic: false,
		DecimalPlaces:         -1,

		MaxRecursionDepth:   256,
		MaxExpressionDepth:  128,
		MaxVectorSize:       10_000,
		MaxMatrixDimension:  1_000,
		MaxIdentifierLength: 64,

		ImplicitMultiplication:      true,
		VectorsEnabled:              true,
		MatricesEnabled:             true,
		UnitsEnabled:                true,
		ComprehensionsEnabled:       true,
		LambdasEnabled:              true,
		UserDefinedFunctionsEnabled: true,
	}
}

func WithAngleUnit(u AngleUnit) Option { return func(o *Options) { o.AngleUnit = u } }

func WithForceDoubleArithmetic(v bool) Option {
	return func(o *Options) { o.ForceDoubleArithmetic = v }
}

func WithDecimalPlaces(n int) Option { return func(o *Options) { o.DecimalPlaces = n } }

func WithMaxRecursionDepth(n int) Option { return func(o *Options) { o.MaxRecursionDepth = n } }

func WithMaxExpressionDepth(n int) Option { return func(o *Options) { o.MaxExpressionDepth = n } }

func WithMaxVectorSize(n int) Option { return func(o *Options) { o.MaxVectorSize = n } }

func WithMaxMatrixDimension(n int) Option { return func(o *Options) { o.MaxMatrixDimension = n } }

func WithMaxIdentifierLength(n int) Option { return func(o *Options) { o.MaxIdentifierLength = n } }

func WithImplicitMultiplication(v bool) Option {
	return func(o *Options) { o.ImplicitMultiplication = v }
}

func WithVectorsEnabled(v bool) Option { return func(o *Options) { o.VectorsEnabled = v } }

func WithMatricesEnabled(v bool) Option { return func(o *Options) { o.MatricesEnabled = v } }

func WithUnitsEnabled(v bool) Option { return func(o *Options) { o.UnitsEnabled = v } }

func WithComprehensionsEnabled(v bool) Option {
	return func(o *Options) { o.ComprehensionsEnabled = v }
}

func WithLambdasEnabled(v bool) Option { return func(o *Options) { o.LambdasEnabled = v } }

func WithUserDefinedFunctionsEnabled(v bool) Option {
	return func(o *Options) { o.UserDefinedFunctionsEnabled = v }
}

func WithFunctions(r *functions.Registry) Option { return func(o *Options) { o.Functions = r } }

func WithUnits(r *registry.UnitRegistry) Option { return func(o *Options) { o.Units = r } }

func WithConstants(r *registry.ConstantRegistry) Option { return func(o *Options) { o.Constants = r } }
