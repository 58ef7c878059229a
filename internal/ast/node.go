// Package ast defines the two node families of the engine: unevaluated
// Expression nodes produced by the parser, and fully-evaluated immutable
// Value nodes produced by the evaluator. Both families implement Node so a
// Vector or Matrix can hold either kind of element interchangeably until the
// evaluator materializes them (spec §3.2).
package ast

// Node is the closed-sum marker implemented by every AST node, expression or
// value. Consumers type-switch rather than relying on virtual dispatch,
// matching the "tagged unions with exhaustive matching" guidance of spec §9.
type Node interface {
	// String renders a debug form of the node; it is not the language's
	// display contract (see Value.Display for that).
	String() string
	node()
}

// Value is a fully evaluated, immutable AST node: the result of running the
// evaluator on an Expression. Every Value also knows its own structural
// display payload.
type Value interface {
	Node
	// TypeName identifies the runtime type (e.g. "rational", "vector").
	TypeName() string
	// Display returns the structural (JSON) display payload required by
	// spec §1's "structural display contract" non-goal carve-out.
	Display() string
}

// Expression is an unevaluated AST node produced by the parser.
type Expression interface {
	Node
	expr()
}
