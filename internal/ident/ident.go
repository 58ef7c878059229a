// Package ident provides Unicode-correct identifier normalization shared by
// every registry (units, constants, functions, keywords) and the classifier,
// so lookups are consistently case-insensitive regardless of script.
package ident

import (
	"golang.org/x/text/cases"
)

var caser = cases.Fold()

// Normalize lowercases s using Unicode case-folding rules, suitable for use
// as a map key. Folding (rather than plain ToLower) is deliberate: it keeps
// names like "KM/H" and "km/h" identical even when they carry non-ASCII
// unit letters such as "µs" or "Ω".
func Normalize(s string) string {
	return caser.String(s)
}

// Equal reports whether a and b are equal under Normalize, without
// allocating a normalized copy of either when they already match byte for
// byte.
func Equal(a, b string) bool {
	if a == b {
		return true
	}
	return Normalize(a) == Normalize(b)
}
