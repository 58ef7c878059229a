package parser

import (
	"github.com/raharrison/mathengine/internal/ast"
	"github.com/raharrison/mathengine/internal/errs"
	"github.com/raharrison/mathengine/internal/ident"
	"github.com/raharrison/mathengine/internal/token"
)

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.s.Current()
	switch tok.Kind {
	case token.INTEGER:
		p.s.Advance()
		return ast.NewRational(tok.Literal.Integer, 1)
	case token.DECIMAL, token.SCIENTIFIC:
		p.s.Advance()
		return ast.NewDouble(tok.Literal.Float), nil
	case token.RATIONAL:
		p.s.Advance()
		// Deferred to evaluation time: a zero denominator here must raise a
		// DomainError, not a parse error.
		return &ast.RationalLit{N: tok.Literal.RationalN, D: tok.Literal.RationalD}, nil
	case token.STRING:
		p.s.Advance()
		return ast.NewString(tok.Literal.Str), nil
	case token.IDENTIFIER, token.FUNCTION, token.KEYWORD:
		p.s.Advance()
		return &ast.Variable{Name: tok.Lexeme}, nil
	case token.UNIT_REF:
		p.s.Advance()
		return &ast.UnitRef{Name: tok.Literal.Str, Quoted: tok.Quoted}, nil
	case token.VAR_REF:
		p.s.Advance()
		return &ast.VarRef{Name: tok.Literal.Str}, nil
	case token.CONST_REF:
		p.s.Advance()
		return &ast.ConstRef{Name: tok.Literal.Str}, nil
	case token.LPAREN:
		return p.parseParenGroup()
	case token.LBRACE:
		return p.parseBraceGroup()
	case token.LBRACKET:
		return p.parseBracketGroup()
	default:
		return nil, errs.At(errs.ParseError, tok.Line, tok.Column, "unexpected token %s %q", tok.Kind, tok.Lexeme)
	}
}

// parseParenGroup handles `(`: a multi-parameter lambda, a semicolon-
// separated sequence, or a single parenthesised expression (spec §4.5).
func (p *Parser) parseParenGroup() (ast.Node, error) {
	openTok := p.s.Advance() // consume (

	if params, ok := p.tryMultiParamLambda(); ok {
		body, err := p.parseLambda()
		if err != nil {
			return nil, err
		}
		return &ast.LambdaExpr{Params: params, Body: body}, nil
	}

	if p.s.Check(token.RPAREN) {
		return nil, errs.At(errs.ParseError, openTok.Line, openTok.Column, "empty expression inside parentheses")
	}

	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.s.Check(token.SEMICOLON) {
		stmts := []ast.Node{first}
		for p.s.Match(token.SEMICOLON) {
			if p.s.Check(token.RPAREN) {
				break
			}
			next, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, next)
		}
		if _, err := p.s.Expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.Sequence{Statements: stmts}, nil
	}

	if _, err := p.s.Expect(token.RPAREN); err != nil {
		return nil, err
	}
	return first, nil
}

// tryMultiParamLambda looks ahead (from just past the opening paren) for
// `id (, id)* ) ->` or `) ->`, restoring the cursor on failure.
func (p *Parser) tryMultiParamLambda() ([]string, bool) {
	mark := p.s.Save()
	var params []string

	if !p.s.Check(token.RPAREN) {
		for {
			t := p.s.Current()
			if !isNameLike(t.Kind) {
				p.s.Restore(mark)
				return nil, false
			}
			p.s.Advance()
			params = append(params, t.Lexeme)
			if !p.s.Match(token.COMMA) {
				break
			}
		}
	}

	if !p.s.Match(token.RPAREN) || !p.s.Match(token.LAMBDA) {
		p.s.Restore(mark)
		return nil, false
	}
	return params, true
}

// parseBraceGroup handles `{`: an empty vector, a vector literal, or a
// comprehension (spec §4.5).
func (p *Parser) parseBraceGroup() (ast.Node, error) {
	p.s.Advance() // consume {

	if p.s.Match(token.RBRACE) {
		return &ast.Vector{}, nil
	}

	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.s.Check(token.KEYWORD) && ident.Equal(p.s.Current().Lexeme, "for") {
		return p.parseComprehensionTail(first)
	}

	elements := []ast.Node{first}
	for p.s.Match(token.COMMA) {
		next, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elements = append(elements, next)
	}
	if _, err := p.s.Expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.Vector{Elements: elements}, nil
}

func (p *Parser) parseComprehensionTail(expr ast.Node) (ast.Node, error) {
	var iterators []ast.Iterator
	for p.s.Check(token.KEYWORD) && ident.Equal(p.s.Current().Lexeme, "for") {
		p.s.Advance() // for
		varTok, err := p.s.Expect(token.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if !(p.s.Check(token.KEYWORD) && ident.Equal(p.s.Current().Lexeme, "in")) {
			return nil, p.s.unexpected("'in'")
		}
		p.s.Advance() // in
		iterable, err := p.parseRange()
		if err != nil {
			return nil, err
		}
		iterators = append(iterators, ast.Iterator{VarName: varTok.Lexeme, Iterable: iterable})
	}

	var condition ast.Node
	if p.s.Check(token.KEYWORD) && ident.Equal(p.s.Current().Lexeme, "if") {
		p.s.Advance()
		c, err := p.parseRange()
		if err != nil {
			return nil, err
		}
		condition = c
	}

	if _, err := p.s.Expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.Comprehension{Expr: expr, Iterators: iterators, Condition: condition}, nil
}

// parseBracketGroup handles `[`: an empty matrix, a semicolon-delimited
// traditional matrix, or a nested-vector matrix (spec §4.5).
func (p *Parser) parseBracketGroup() (ast.Node, error) {
	openTok := p.s.Advance() // consume [

	if p.s.Match(token.RBRACKET) {
		return &ast.Matrix{}, nil
	}

	if p.s.Check(token.LBRACKET) {
		return p.parseNestedMatrix(openTok)
	}
	return p.parseTraditionalMatrix(openTok)
}

func (p *Parser) parseNestedMatrix(openTok token.Token) (ast.Node, error) {
	var rows [][]ast.Node
	row, err := p.parseRowLiteral()
	if err != nil {
		return nil, err
	}
	rows = append(rows, row)
	for p.s.Match(token.COMMA) {
		row, err := p.parseRowLiteral()
		if err != nil {
			return nil, err
		}
		if len(row) != len(rows[0]) {
			return nil, errs.At(errs.ParseError, openTok.Line, openTok.Column, "matrix rows have inconsistent length")
		}
		rows = append(rows, row)
	}
	if _, err := p.s.Expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.Matrix{Rows: rows}, nil
}

func (p *Parser) parseRowLiteral() ([]ast.Node, error) {
	if _, err := p.s.Expect(token.LBRACKET); err != nil {
		return nil, err
	}
	if p.s.Match(token.RBRACKET) {
		return nil, nil
	}
	row, err := p.parseCommaList()
	if err != nil {
		return nil, err
	}
	if _, err := p.s.Expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return row, nil
}

func (p *Parser) parseTraditionalMatrix(openTok token.Token) (ast.Node, error) {
	var rows [][]ast.Node
	row, err := p.parseCommaList()
	if err != nil {
		return nil, err
	}
	rows = append(rows, row)
	for p.s.Match(token.SEMICOLON) {
		row, err := p.parseCommaList()
		if err != nil {
			return nil, err
		}
		if len(row) != len(rows[0]) {
			return nil, errs.At(errs.ParseError, openTok.Line, openTok.Column, "matrix rows have inconsistent length")
		}
		rows = append(rows, row)
	}
	if _, err := p.s.Expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.Matrix{Rows: rows}, nil
}

func (p *Parser) parseCommaList() ([]ast.Node, error) {
	var elems []ast.Node
	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	elems = append(elems, first)
	for p.s.Match(token.COMMA) {
		next, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, next)
	}
	return elems, nil
}
