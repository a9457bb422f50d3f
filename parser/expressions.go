package parser

import (
	"github.com/TheLegendOfMataNui/lss/ast"
	"github.com/TheLegendOfMataNui/lss/errors"
	"github.com/TheLegendOfMataNui/lss/internal/token"
)

// parseExpression parses an expression starting at curToken. On success
// curToken is the last token of the expression. It returns nil after
// recording an error.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	if p.curTokenIs(token.EOF) {
		p.tokenError(errors.E1004, p.curToken, "unexpected end of file (expected expression)")
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.tokenError(errors.E1003, p.curToken, "maximum nesting depth exceeded")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.tokenError(errors.E1004, p.curToken, "unexpected %s (expected expression)",
			tokenDescription(p.curToken))
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}
	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseVariable() ast.Expr {
	return &ast.Variable{Name: p.curToken}
}

func (p *Parser) parseLiteral() ast.Expr {
	return &ast.Literal{Token: p.curToken}
}

func (p *Parser) parseInt() ast.Expr {
	lit := &ast.Literal{Token: p.curToken}
	if _, err := lit.Int(); err != nil {
		p.tokenError(errors.E1008, p.curToken, "%s", err.Error())
		return nil
	}
	return lit
}

func (p *Parser) parseFloat() ast.Expr {
	lit := &ast.Literal{Token: p.curToken}
	if _, err := lit.Float(); err != nil {
		p.tokenError(errors.E1008, p.curToken, "%s", err.Error())
		return nil
	}
	return lit
}

func (p *Parser) parseGrouping() ast.Expr {
	lparen := p.curToken.StartPosition
	p.nextToken()
	x := p.parseExpression(LOWEST)
	if x == nil {
		return nil
	}
	if !p.expectPeek("grouping", token.RPAREN) {
		return nil
	}
	return &ast.Grouping{Lparen: lparen, X: x, Rparen: p.curToken.EndPosition}
}

func (p *Parser) parseArray() ast.Expr {
	lbrack := p.curToken.StartPosition
	items, ok := p.parseExprList("array", token.RBRACKET)
	if !ok {
		return nil
	}
	return &ast.Array{Lbrack: lbrack, Items: items, Rbrack: p.curToken.EndPosition}
}

func (p *Parser) parseConstructor() ast.Expr {
	newPos := p.curToken.StartPosition
	if !p.expectPeek("constructor", token.IDENT) {
		return nil
	}
	class := p.curToken
	if !p.expectPeek("constructor", token.LPAREN) {
		return nil
	}
	args, ok := p.parseExprList("constructor arguments", token.RPAREN)
	if !ok {
		return nil
	}
	return &ast.Constructor{New: newPos, Class: class, Args: args, Rparen: p.curToken.EndPosition}
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	opTok := p.curToken
	p.nextToken()
	x := p.parseExpression(PREFIX)
	if x == nil {
		return nil
	}
	return &ast.Unary{Op: opTok, X: x, Prefix: true}
}

func (p *Parser) parsePostfix(left ast.Expr) ast.Expr {
	return &ast.Unary{Op: p.curToken, X: left}
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	opTok := p.curToken
	precedence := p.curPrecedence()
	if opTok.Type == token.CARET {
		precedence-- // right associative
	}
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.Binary{Left: left, Op: opTok, Right: right}
}

// parseMember parses "a.b", "a.$b", "a::b" and "a::$b".
func (p *Parser) parseMember(left ast.Expr) ast.Expr {
	opTok := p.curToken
	if !p.expectPeek("member access", token.IDENT) {
		return nil
	}
	return &ast.Binary{Left: left, Op: opTok, Right: &ast.Variable{Name: p.curToken}}
}

func (p *Parser) parseCall(fn ast.Expr) ast.Expr {
	lparen := p.curToken.StartPosition
	args, ok := p.parseExprList("call arguments", token.RPAREN)
	if !ok {
		return nil
	}
	return &ast.Call{Fn: fn, Lparen: lparen, Args: args, Rparen: p.curToken.EndPosition}
}

func (p *Parser) parseIndex(x ast.Expr) ast.Expr {
	lbrack := p.curToken.StartPosition
	p.nextToken()
	index := p.parseExpression(LOWEST)
	if index == nil {
		return nil
	}
	if !p.expectPeek("index", token.RBRACKET) {
		return nil
	}
	return &ast.ArrayAccess{X: x, Lbrack: lbrack, Index: index, Rbrack: p.curToken.EndPosition}
}

// parseExprList parses a comma separated list of expressions. curToken is
// the opening delimiter on entry and the closing delimiter on success.
func (p *Parser) parseExprList(context string, end token.Type) ([]ast.Expr, bool) {
	var list []ast.Expr
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}
	p.nextToken()
	for {
		x := p.parseExpression(LOWEST)
		if x == nil {
			return nil, false
		}
		list = append(list, x)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(context, end) {
		return nil, false
	}
	return list, true
}
