package lexer

import (
	"unicode"

	"github.com/raharrison/mathengine/internal/registry"
	"github.com/raharrison/mathengine/internal/token"
)

// Splitter breaks compound IDENTIFIER tokens apart conservatively, so that
// "m1" stays a single identifier but "pi2" or "xsin" split into their
// constant/numeric/function pieces (spec §4.2). A leading number such as
// the 2 in "2pi" is already a separate token from the scanner.
type Splitter struct {
	constants *registry.ConstantRegistry
	functions NameSet
	units     *registry.UnitRegistry
}

// NameSet answers membership queries for the function registry without
// the splitter depending on the functions package directly (it only needs
// names, not callables, avoiding an import cycle with internal/functions).
type NameSet interface {
	Has(name string) bool
}

// NewSplitter builds a Splitter backed by the given registries.
func NewSplitter(constants *registry.ConstantRegistry, functions NameSet, units *registry.UnitRegistry) *Splitter {
	return &Splitter{constants: constants, functions: functions, units: units}
}

// Split rewrites toks, expanding compound identifiers in place.
func (sp *Splitter) Split(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for i, t := range toks {
		if t.Kind != token.IDENTIFIER {
			out = append(out, t)
			continue
		}
		if sp.isDefinitionTarget(toks, i) {
			out = append(out, t)
			continue
		}
		out = append(out, sp.splitOne(t)...)
	}
	return out
}

// isDefinitionTarget reports whether t (an identifier at index i) is the
// target of a `name := ...` or `name(params) := ...` definition, in which
// case it must never be split (spec §4.2 step 1).
func (sp *Splitter) isDefinitionTarget(toks []token.Token, i int) bool {
	if i+1 >= len(toks) {
		return false
	}
	next := toks[i+1]
	if next.Kind == token.ASSIGN {
		return true
	}
	if next.Kind != token.LPAREN {
		return false
	}
	depth := 0
	for j := i + 1; j < len(toks); j++ {
		switch toks[j].Kind {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return j+1 < len(toks) && toks[j+1].Kind == token.ASSIGN
			}
		}
	}
	return false
}

func (sp *Splitter) splitOne(t token.Token) []token.Token {
	lexeme := t.Lexeme
	if len(lexeme) < 2 {
		return []token.Token{t}
	}

	if toks, ok := sp.digitSplit(t); ok {
		return toks
	}
	if toks, ok := sp.functionSuffixSplit(t); ok {
		return toks
	}
	return []token.Token{t}
}

// digitSplit finds the longest prefix P of L such that the remainder begins
// with digits, P is a constant or function, and P is not a unit (spec §4.2
// step 2). On success it emits IDENTIFIER(P), INTEGER(digits), and recurses
// on whatever follows the digit run.
func (sp *Splitter) digitSplit(t token.Token) ([]token.Token, bool) {
	runes := []rune(t.Lexeme)
	for plen := len(runes) - 1; plen >= 1; plen-- {
		if plen >= len(runes) || !unicode.IsDigit(runes[plen]) {
			continue
		}
		prefix := string(runes[:plen])
		if !sp.isConstantOrFunction(prefix) || sp.isUnit(prefix) {
			continue
		}
		digitEnd := plen
		for digitEnd < len(runes) && unicode.IsDigit(runes[digitEnd]) {
			digitEnd++
		}
		digits := string(runes[plen:digitEnd])
		remainder := string(runes[digitEnd:])

		prefixTok := token.New(token.IDENTIFIER, prefix, t.Line, t.Column, t.Pos)
		numTok := token.New(token.INTEGER, digits, t.Line, t.Column+plen, t.Pos+plen)
		numTok.Literal.Integer = parseInt(digits)

		out := []token.Token{prefixTok, numTok}
		if remainder == "" {
			return out, true
		}
		remTok := token.New(token.IDENTIFIER, remainder, t.Line, t.Column+digitEnd, t.Pos+digitEnd)
		out = append(out, sp.splitOne(remTok)...)
		return out, true
	}
	return nil, false
}

// functionSuffixSplit finds the longest suffix S of L such that the prefix
// is exactly one character or a registered constant, and S is a registered
// function (spec §4.2 step 3).
func (sp *Splitter) functionSuffixSplit(t token.Token) ([]token.Token, bool) {
	runes := []rune(t.Lexeme)
	for slen := len(runes) - 1; slen >= 1; slen-- {
		plen := len(runes) - slen
		prefix := string(runes[:plen])
		suffix := string(runes[plen:])
		if !sp.functions.Has(suffix) {
			continue
		}
		if plen != 1 && !sp.isConstant(prefix) {
			continue
		}
		prefixTok := token.New(token.IDENTIFIER, prefix, t.Line, t.Column, t.Pos)
		suffixTok := token.New(token.IDENTIFIER, suffix, t.Line, t.Column+plen, t.Pos+plen)
		return []token.Token{prefixTok, suffixTok}, true
	}
	return nil, false
}

func (sp *Splitter) isConstantOrFunction(name string) bool {
	return sp.isConstant(name) || sp.functions.Has(name)
}

func (sp *Splitter) isConstant(name string) bool {
	_, ok := sp.constants.Lookup(name)
	return ok
}

func (sp *Splitter) isUnit(name string) bool {
	return sp.units.IsUnit(name)
}
