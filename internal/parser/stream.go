package parser

import (
	"github.com/raharrison/mathengine/internal/errs"
	"github.com/raharrison/mathengine/internal/token"
)

// TokenStream exposes the minimal cursor operations the parser needs over
// an immutable token slice: peek/advance/check/match/expect plus an
// integer-cursor save/restore pair for bounded backtracking (spec §4.5,
// §9 "lookahead with backtracking" — never copy tokens, only the cursor).
type TokenStream struct {
	tokens []token.Token
	pos    int
}

// NewTokenStream wraps an already-lexed token slice.
func NewTokenStream(tokens []token.Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

// Peek returns the token offset positions ahead of the cursor without
// advancing it. Peek(0) is the current token.
func (s *TokenStream) Peek(offset int) token.Token {
	i := s.pos + offset
	if i < 0 || i >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1] // EOF
	}
	return s.tokens[i]
}

// Current is shorthand for Peek(0).
func (s *TokenStream) Current() token.Token { return s.Peek(0) }

// Advance returns the current token and moves the cursor forward, unless
// already at EOF.
func (s *TokenStream) Advance() token.Token {
	t := s.Current()
	if t.Kind != token.EOF {
		s.pos++
	}
	return t
}

// Check reports whether the current token has the given kind, without
// consuming it.
func (s *TokenStream) Check(kind token.Kind) bool {
	return s.Current().Kind == kind
}

// Match consumes and returns true if the current token has the given
// kind; otherwise it leaves the cursor untouched and returns false.
func (s *TokenStream) Match(kind token.Kind) bool {
	if s.Check(kind) {
		s.Advance()
		return true
	}
	return false
}

// Expect consumes a token of the given kind or returns a ParseError.
func (s *TokenStream) Expect(kind token.Kind) (token.Token, error) {
	if s.Check(kind) {
		return s.Advance(), nil
	}
	return token.Token{}, s.unexpected(kind.String())
}

// Save returns the current cursor position for later Restore.
func (s *TokenStream) Save() int { return s.pos }

// Restore resets the cursor to a position previously returned by Save.
func (s *TokenStream) Restore(mark int) { s.pos = mark }

func (s *TokenStream) AtEOF() bool { return s.Check(token.EOF) }

func (s *TokenStream) unexpected(expected string) error {
	cur := s.Current()
	return errs.At(errs.ParseError, cur.Line, cur.Column, "expected %s but found %s %q", expected, cur.Kind, cur.Lexeme)
}
