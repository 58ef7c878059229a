package registry

import (
	"github.com/raharrison/mathengine/internal/ident"
	"github.com/raharrison/mathengine/internal/token"
)

// operatorKeywords are keywords the classifier turns into their specific
// operator token kind rather than the generic KEYWORD kind (spec §4.3,
// first priority tier: word-form operators outrank plain control words).
var operatorKeywords = map[string]token.Kind{
	"and": token.AND,
	"or":  token.OR,
	"xor": token.XOR,
	"not": token.NOT,
	"mod": token.MOD,
	"of":  token.OF,
}

// plainKeywords are reserved words with no dedicated operator token; the
// classifier reclassifies a matching identifier to token.KEYWORD and the
// parser switches on the lexeme.
var plainKeywords = map[string]bool{
	"for":   true,
	"in":    true,
	"if":    true,
	"step":  true,
	"to":    true,
	"as":    true,
	"true":  true,
	"false": true,
}

// KeywordSet answers classifier queries about reserved words, folding case
// via ident.Normalize so MOD, Mod and mod are all recognised.
type KeywordSet struct{}

// NewKeywordSet returns the fixed reserved-word set used by the classifier.
func NewKeywordSet() *KeywordSet { return &KeywordSet{} }

// OperatorKind reports the specific operator token kind for a word-form
// operator keyword such as "mod" or "and".
func (KeywordSet) OperatorKind(name string) (token.Kind, bool) {
	k, ok := operatorKeywords[ident.Normalize(name)]
	return k, ok
}

// IsPlainKeyword reports whether name is a reserved control word with no
// dedicated operator token (for, in, if, step, to, as, true, false).
func (KeywordSet) IsPlainKeyword(name string) bool {
	return plainKeywords[ident.Normalize(name)]
}

// IsKeyword reports whether name is reserved in either tier.
func (k KeywordSet) IsKeyword(name string) bool {
	if _, ok := k.OperatorKind(name); ok {
		return true
	}
	return k.IsPlainKeyword(name)
}
