// Package parser implements the recursive-descent parser of spec §4.5: a
// fixed precedence chain over a TokenStream with bounded integer-cursor
// backtracking for the assignment, function-definition, and lambda forms.
package parser

import (
	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
	"github.com/raharrison/mathengine/internal/ident"
	"github.com/raharrison/mathengine/internal/token"
)

// Parser holds the token cursor for one parse.
type Parser struct {
	s *TokenStream
}

// Parse parses a full program: expressions separated by semicolons until
// EOF. One statement returns its node directly; more than one wraps as a
// Sequence. A trailing semicolon is allowed (spec §4.5).
func Parse(tokens []token.Token) (ast.Node, error) {
	p := &Parser{s: NewTokenStream(tokens)}

	var stmts []ast.Node
	for !p.s.AtEOF() {
		stmt, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if !p.s.Match(token.SEMICOLON) {
			break
		}
	}
	if !p.s.AtEOF() {
		return nil, p.s.unexpected("end of expression")
	}
	if len(stmts) == 0 {
		return nil, errs.New(errs.ParseError, "empty expression")
	}
	if len(stmts) == 1 {
		return stmts[0], nil
	}
	return &ast.Sequence{Statements: stmts}, nil
}

func (p *Parser) parseExpression() (ast.Node, error) {
	return p.parseAssignment()
}

// parseAssignment implements the assignment-lookahead rule: save the
// cursor, and if what follows an identifier is `:=` or a balanced
// paren-list immediately followed by `:=`, commit to an assignment or
// function definition; otherwise restore and fall through to lambdas.
func (p *Parser) parseAssignment() (ast.Node, error) {
	if p.s.Check(token.IDENTIFIER) {
		mark := p.s.Save()
		nameTok := p.s.Advance()

		if p.s.Match(token.ASSIGN) {
			value, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			return &ast.Assignment{Name: nameTok.Lexeme, Value: value}, nil
		}

		if p.s.Check(token.LPAREN) && p.functionDefFollows() {
			p.s.Advance() // consume (
			params, err := p.parseParamList()
			if err != nil {
				return nil, err
			}
			if _, err := p.s.Expect(token.RPAREN); err != nil {
				return nil, err
			}
			if _, err := p.s.Expect(token.ASSIGN); err != nil {
				return nil, err
			}
			body, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			return &ast.FunctionDefExpr{Name: nameTok.Lexeme, Params: params, Body: body}, nil
		}

		p.s.Restore(mark)
	}
	return p.parseLambda()
}

// functionDefFollows looks ahead from the current LPAREN for a matching
// RPAREN immediately followed by ASSIGN, without consuming anything.
func (p *Parser) functionDefFollows() bool {
	depth := 0
	for i := 0; ; i++ {
		t := p.s.Peek(i)
		if t.Kind == token.EOF {
			return false
		}
		switch t.Kind {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return p.s.Peek(i + 1).Kind == token.ASSIGN
			}
		}
	}
}

// parseParamList parses a comma-separated parameter list; IDENTIFIER,
// UNIT, KEYWORD, and FUNCTION tokens are all accepted as names so words
// like "to" or "sin" may be shadowed as parameters (spec §4.5).
func (p *Parser) parseParamList() ([]string, error) {
	var params []string
	if p.s.Check(token.RPAREN) {
		return params, nil
	}
	for {
		t := p.s.Current()
		if !isNameLike(t.Kind) {
			return nil, p.s.unexpected("parameter name")
		}
		p.s.Advance()
		params = append(params, t.Lexeme)
		if !p.s.Match(token.COMMA) {
			break
		}
	}
	return params, nil
}

func isNameLike(k token.Kind) bool {
	switch k {
	case token.IDENTIFIER, token.UNIT, token.KEYWORD, token.FUNCTION:
		return true
	default:
		return false
	}
}

// parseLambda handles the single-identifier lambda form `x -> body`;
// multi-parameter lambdas are detected inside primary's `(` handling.
func (p *Parser) parseLambda() (ast.Node, error) {
	if p.s.Check(token.IDENTIFIER) && p.s.Peek(1).Kind == token.LAMBDA {
		name := p.s.Advance().Lexeme
		p.s.Advance() // ->
		body, err := p.parseLambda()
		if err != nil {
			return nil, err
		}
		return &ast.LambdaExpr{Params: []string{name}, Body: body}, nil
	}
	return p.parseLogicalOr()
}

func (p *Parser) parseLogicalOr() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseLogicalXor, token.OR)
}

func (p *Parser) parseLogicalXor() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseLogicalAnd, token.XOR)
}

func (p *Parser) parseLogicalAnd() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseEquality, token.AND)
}

func (p *Parser) parseEquality() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseRange, token.EQ, token.NEQ)
}

// parseRange handles `start..end [step s]` (spec §4.5); it is non-
// associative so at most one range is built per relational pair.
func (p *Parser) parseRange() (ast.Node, error) {
	start, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	if !p.s.Match(token.RANGE) {
		return start, nil
	}
	end, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	var step ast.Node
	if p.s.Check(token.KEYWORD) && ident.Equal(p.s.Current().Lexeme, "step") {
		p.s.Advance()
		step, err = p.parseUnary()
		if err != nil {
			return nil, err
		}
	}
	return &ast.RangeExpr{Start: start, End: end, Step: step}, nil
}

func (p *Parser) parseRelational() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseAdditive, token.LT, token.GT, token.LTE, token.GTE)
}

func (p *Parser) parseAdditive() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseMultiplicative, token.PLUS, token.MINUS)
}

func (p *Parser) parseMultiplicative() (ast.Node, error) {
	return p.parseBinaryLevel(p.parseUnary, token.MULTIPLY, token.DIVIDE, token.MOD, token.OF, token.AT)
}

// parseBinaryLevel implements one left-associative precedence level:
// parse next, then loop consuming any operator in kinds.
func (p *Parser) parseBinaryLevel(next func() (ast.Node, error), kinds ...token.Kind) (ast.Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.currentIsOneOf(kinds...) {
		opTok := p.s.Advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.Binary{Op: opTok, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) currentIsOneOf(kinds ...token.Kind) bool {
	cur := p.s.Current().Kind
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// parseUnary recurses on itself for `-`, `+`, `not` (right-associative);
// otherwise it falls to parsePower (spec §4.5).
func (p *Parser) parseUnary() (ast.Node, error) {
	if p.currentIsOneOf(token.MINUS, token.PLUS, token.NOT) {
		opTok := p.s.Advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: opTok, Operand: operand, Prefix: true}, nil
	}
	return p.parsePower()
}

// parsePower parses one postfix expression; if `^` follows, the right
// operand is parsed by calling parseUnary again, giving right-associativity
// and allowing `2^-3` (spec §4.5).
func (p *Parser) parsePower() (ast.Node, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if p.s.Check(token.POWER) {
		opTok := p.s.Advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: opTok, Left: left, Right: right}, nil
	}
	return left, nil
}

// parsePostfix consumes a left-chained run of `!`, `!!`, `%`, and unit
// conversions after a call/subscript expression (spec §4.5).
func (p *Parser) parsePostfix() (ast.Node, error) {
	node, err := p.parseCallSubscript()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.currentIsOneOf(token.FACTORIAL, token.DOUBLE_FACTORIAL, token.PERCENT):
			opTok := p.s.Advance()
			node = &ast.Unary{Op: opTok, Operand: node, Prefix: false}
		case p.s.Check(token.KEYWORD) && isConversionKeyword(p.s.Current().Lexeme):
			p.s.Advance()
			unitTok, err := p.s.Expect(token.IDENTIFIER)
			if err != nil {
				return nil, err
			}
			node = &ast.UnitConversion{Value: node, TargetUnit: unitTok.Lexeme}
		default:
			return node, nil
		}
	}
}

func isConversionKeyword(lexeme string) bool {
	return ident.Equal(lexeme, "in") || ident.Equal(lexeme, "to") || ident.Equal(lexeme, "as")
}

// parseCallSubscript left-chains `(args)` and `[slice-args]` onto a primary
// expression (spec §4.5).
func (p *Parser) parseCallSubscript() (ast.Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.s.Check(token.LPAREN):
			p.s.Advance()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			if _, err := p.s.Expect(token.RPAREN); err != nil {
				return nil, err
			}
			node = &ast.Call{Callee: node, Args: args}
		case p.s.Check(token.LBRACKET):
			p.s.Advance()
			indices, err := p.parseSubscriptArgs()
			if err != nil {
				return nil, err
			}
			if _, err := p.s.Expect(token.RBRACKET); err != nil {
				return nil, err
			}
			node = &ast.Subscript{Target: node, Indices: indices}
		default:
			return node, nil
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Node, error) {
	var args []ast.Node
	if p.s.Check(token.RPAREN) {
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.s.Match(token.COMMA) {
			break
		}
	}
	return args, nil
}

func (p *Parser) parseSubscriptArgs() ([]ast.SliceArg, error) {
	var args []ast.SliceArg
	for {
		arg, err := p.parseSliceArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.s.Match(token.COMMA) {
			break
		}
	}
	return args, nil
}

func (p *Parser) parseSliceArg() (ast.SliceArg, error) {
	var start, end ast.Node
	var err error
	if !p.s.Check(token.COLON) && !p.s.Check(token.RBRACKET) && !p.s.Check(token.COMMA) {
		start, err = p.parseExpression()
		if err != nil {
			return ast.SliceArg{}, err
		}
	}
	isRange := false
	if p.s.Match(token.COLON) {
		isRange = true
		if !p.s.Check(token.RBRACKET) && !p.s.Check(token.COMMA) {
			end, err = p.parseExpression()
			if err != nil {
				return ast.SliceArg{}, err
			}
		}
	}
	return ast.SliceArg{Start: start, End: end, IsRange: isRange}, nil
}
