package lexer

import "github.com/raharrison/mathengine/internal/token"

// InsertImplicitMultiply inserts a synthetic MULTIPLY token between adjacent
// tokens that represent juxtaposed values, e.g. "2pi" or "(1+2)(3+4)" (spec
// §4.4). It must run after classification so it can distinguish FUNCTION
// from IDENTIFIER.
func InsertImplicitMultiply(toks []token.Token) []token.Token {
	if len(toks) == 0 {
		return toks
	}
	out := make([]token.Token, 0, len(toks)+4)
	out = append(out, toks[0])
	for i := 1; i < len(toks); i++ {
		prev, next := toks[i-1], toks[i]
		if shouldInsert(prev, next) {
			out = append(out, token.New(token.MULTIPLY, "*", next.Line, next.Column, next.Pos))
		}
		out = append(out, next)
	}
	return out
}

func shouldInsert(prev, next token.Token) bool {
	if prev.Line != next.Line {
		return false
	}

	// Explicit non-insertion cases (spec §4.4).
	switch {
	case prev.Kind == token.FUNCTION && next.Kind == token.LPAREN:
		return false
	case prev.Kind == token.IDENTIFIER && next.Kind == token.LPAREN:
		return false
	case prev.Kind == token.RBRACKET && next.Kind == token.LBRACKET:
		return false
	case prev.Kind == token.RBRACKET && next.Kind == token.LPAREN:
		return false
	}

	return leftClass(prev) && rightClass(next)
}

func leftClass(t token.Token) bool {
	switch t.Kind {
	case token.INTEGER, token.DECIMAL, token.SCIENTIFIC, token.RATIONAL,
		token.RPAREN, token.IDENTIFIER, token.UNIT,
		token.FACTORIAL, token.DOUBLE_FACTORIAL, token.PERCENT,
		token.RBRACE, token.RBRACKET:
		return true
	default:
		return false
	}
}

func rightClass(t token.Token) bool {
	switch t.Kind {
	case token.INTEGER, token.DECIMAL, token.SCIENTIFIC, token.RATIONAL,
		token.LPAREN, token.IDENTIFIER, token.UNIT, token.FUNCTION,
		token.UNIT_REF, token.VAR_REF, token.CONST_REF:
		return true
	default:
		return false
	}
}
