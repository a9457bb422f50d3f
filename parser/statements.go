package parser

import (
	"github.com/TheLegendOfMataNui/lss/ast"
	"github.com/TheLegendOfMataNui/lss/errors"
	"github.com/TheLegendOfMataNui/lss/internal/token"
)

// parseClass parses "class Name { property x; method m(a) { ... } }".
func (p *Parser) parseClass() *ast.Class {
	cls := &ast.Class{Class: p.curToken.StartPosition}
	if !p.expectPeek("class", token.IDENT) {
		return nil
	}
	cls.Name = p.curToken
	if !p.expectPeek("class", token.LBRACE) {
		return nil
	}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		switch p.curToken.Type {
		case token.PROPERTY:
			prop := &ast.Property{Property: p.curToken.StartPosition}
			if !p.expectPeek("property", token.IDENT) {
				return nil
			}
			prop.Name = p.curToken
			if !p.expectPeek("property", token.SEMICOLON) {
				return nil
			}
			prop.Semicolon = p.curToken.EndPosition
			cls.Properties = append(cls.Properties, prop)
		case token.METHOD:
			method := p.parseSubroutine()
			if method == nil {
				return nil
			}
			cls.Methods = append(cls.Methods, method)
		default:
			p.tokenError(errors.E1001, p.curToken,
				"unexpected %s in class body (expected property, method or \"}\")",
				tokenDescription(p.curToken))
			return nil
		}
		p.nextToken()
	}
	cls.Rbrace = p.curToken.EndPosition
	return cls
}

// parseSubroutine parses a function or method declaration. curToken is the
// "function" or "method" keyword.
func (p *Parser) parseSubroutine() *ast.Subroutine {
	fn := &ast.Subroutine{Keyword: p.curToken}
	context := p.curToken.Literal
	if !p.expectPeek(context, token.IDENT) {
		return nil
	}
	fn.Name = p.curToken
	if !p.expectPeek(context, token.LPAREN) {
		return nil
	}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		for {
			if !p.expectPeek("parameter list", token.IDENT) {
				return nil
			}
			fn.Params = append(fn.Params, p.curToken)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		if !p.expectPeek("parameter list", token.RPAREN) {
			return nil
		}
	}
	if !p.expectPeek(context, token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlock()
	if fn.Body == nil {
		return nil
	}
	return fn
}

func (p *Parser) parseGlobal() *ast.Global {
	g := &ast.Global{Global: p.curToken.StartPosition}
	if !p.expectPeek("global", token.IDENT) {
		return nil
	}
	g.Name = p.curToken
	if !p.expectPeek("global", token.SEMICOLON) {
		return nil
	}
	g.Semicolon = p.curToken.EndPosition
	return g
}

// parseBlock parses "{ stmt... }". A statement that fails to parse is
// skipped so later statements can still be checked.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Lbrace: p.curToken.StartPosition}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.tokenError(errors.E1001, p.curToken, "unexpected end of file while parsing block (expected \"}\")")
			return nil
		}
		if p.tooManyErrors() {
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			p.synchronize()
			if p.curTokenIs(token.SEMICOLON) {
				p.nextToken()
			}
			continue
		}
		block.Stmts = append(block.Stmts, stmt)
		p.nextToken()
	}
	block.Rbrace = p.curToken.EndPosition
	return block
}

// parseStatement parses one statement starting at curToken. On success
// curToken is the statement's last token.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.LBRACE:
		if block := p.parseBlock(); block != nil {
			return block
		}
		return nil
	case token.VAR:
		return p.parseVar()
	case token.RETURN:
		return p.parseReturn()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.CLASS, token.FUNCTION, token.GLOBAL, token.PROPERTY, token.METHOD:
		p.tokenError(errors.E1010, p.curToken,
			"%s declarations are only allowed at the top level", p.curToken.Literal)
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVar() ast.Stmt {
	stmt := &ast.Var{Var: p.curToken.StartPosition}
	if !p.expectPeek("var statement", token.IDENT) {
		return nil
	}
	stmt.Name = p.curToken
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
	}
	if !p.expectPeek("var statement", token.SEMICOLON) {
		return nil
	}
	stmt.Semicolon = p.curToken.EndPosition
	return stmt
}

func (p *Parser) parseReturn() ast.Stmt {
	stmt := &ast.Return{Return: p.curToken.StartPosition}
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
	}
	if !p.expectPeek("return statement", token.SEMICOLON) {
		return nil
	}
	stmt.Semicolon = p.curToken.EndPosition
	return stmt
}

// parseIf parses "if (cond) stmt [else stmt]". An "else" body is wrapped in
// an If with no condition; "else if" nests the next If directly.
func (p *Parser) parseIf() ast.Stmt {
	stmt := &ast.If{If: p.curToken.StartPosition}
	cond, body := p.parseCondition("if statement")
	if cond == nil || body == nil {
		return nil
	}
	stmt.Cond, stmt.Body = cond, body
	if !p.peekTokenIs(token.ELSE) {
		return stmt
	}
	p.nextToken()
	elsePos := p.curToken.StartPosition
	p.nextToken()
	if p.curTokenIs(token.IF) {
		stmt.Else = p.parseIf()
	} else if elseBody := p.parseStatement(); elseBody != nil {
		stmt.Else = &ast.If{If: elsePos, Body: elseBody}
	}
	if stmt.Else == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Stmt {
	stmt := &ast.While{While: p.curToken.StartPosition}
	cond, body := p.parseCondition("while statement")
	if cond == nil || body == nil {
		return nil
	}
	stmt.Cond, stmt.Body = cond, body
	return stmt
}

// parseCondition parses "(cond) stmt" following an if or while keyword.
func (p *Parser) parseCondition(context string) (ast.Expr, ast.Stmt) {
	if !p.expectPeek(context, token.LPAREN) {
		return nil, nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil, nil
	}
	if !p.expectPeek(context, token.RPAREN) {
		return nil, nil
	}
	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		return nil, nil
	}
	return cond, body
}

var assignOps = map[token.Type]bool{
	token.ASSIGN:          true,
	token.PLUS_EQUALS:     true,
	token.MINUS_EQUALS:    true,
	token.ASTERISK_EQUALS: true,
	token.SLASH_EQUALS:    true,
}

// parseExpressionStatement parses "expr;" or an assignment "target op expr;".
func (p *Parser) parseExpressionStatement() ast.Stmt {
	x := p.parseExpression(LOWEST)
	if x == nil {
		return nil
	}
	if assignOps[p.peekToken.Type] {
		p.nextToken()
		opTok := p.curToken
		if !isAssignable(x) {
			p.tokenError(errors.E1005, opTok, "cannot assign to %s", x.String())
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		if !p.expectPeek("assignment", token.SEMICOLON) {
			return nil
		}
		return &ast.Assign{Target: x, Op: opTok, Value: value, Semicolon: p.curToken.EndPosition}
	}
	if !p.expectPeek("expression statement", token.SEMICOLON) {
		return nil
	}
	return &ast.ExprStmt{X: x, Semicolon: p.curToken.EndPosition}
}

func isAssignable(x ast.Expr) bool {
	switch x := x.(type) {
	case *ast.Variable, *ast.ArrayAccess:
		return true
	case *ast.Binary:
		switch x.Op.Type {
		case token.PERIOD, token.PERIOD_DOL, token.COLON_COLON, token.COLON_COLON_DOL:
			return true
		}
	}
	return false
}
