package lexer

import (
	"github.com/raharrison/mathengine/internal/registry"
	"github.com/raharrison/mathengine/internal/token"
)

// Classifier reclassifies IDENTIFIER tokens against the keyword and
// function registries (spec §4.3). Units and constants are deliberately
// left unclassified so user variables can shadow them at evaluation time.
type Classifier struct {
	keywords  *registry.KeywordSet
	functions NameSet
}

// NewClassifier builds a Classifier backed by the given registries.
func NewClassifier(keywords *registry.KeywordSet, functions NameSet) *Classifier {
	return &Classifier{keywords: keywords, functions: functions}
}

// Classify returns a copy of toks in which the Kind of every IDENTIFIER
// token is rewritten, in priority order: word-form operator keyword, plain
// control keyword, function, otherwise unchanged. toks is not modified.
func (c *Classifier) Classify(toks []token.Token) []token.Token {
	out := make([]token.Token, len(toks))
	for i, t := range toks {
		out[i] = c.classifyOne(t)
	}
	return out
}

func (c *Classifier) classifyOne(t token.Token) token.Token {
	if t.Kind != token.IDENTIFIER {
		return t
	}
	if kind, ok := c.keywords.OperatorKind(t.Lexeme); ok {
		t.Kind = kind
		return t
	}
	if c.keywords.IsPlainKeyword(t.Lexeme) {
		t.Kind = token.KEYWORD
		return t
	}
	if c.functions.Has(t.Lexeme) {
		t.Kind = token.FUNCTION
		return t
	}
	return t
}
