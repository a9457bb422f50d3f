// Package parser builds the abstract syntax tree (AST) for one LSS source
// file.
//
// A parser is created by calling New() with the scanned tokens as input. The
// parser should then be used only once, by calling Parse() to produce the
// file's top-level declarations.
package parser

import (
	"fmt"
	"strings"

	"github.com/TheLegendOfMataNui/lss/ast"
	"github.com/TheLegendOfMataNui/lss/errors"
	"github.com/TheLegendOfMataNui/lss/internal/lexer"
	"github.com/TheLegendOfMataNui/lss/internal/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// ParseSource scans and parses the provided LSS source code. Scan errors stop
// the file from being parsed: they are returned with an empty unit.
func ParseSource(source string, options ...Option) (*ast.Unit, []*errors.CompileError) {
	probe := &Parser{}
	for _, opt := range options {
		opt(probe)
	}
	tokens, scanErrs := lexer.Scan(source, lexer.WithFilename(probe.filename))
	if len(scanErrs) > 0 {
		return &ast.Unit{Filename: probe.filename}, scanErrs
	}
	options = append([]Option{WithSource(source)}, options...)
	return Parse(tokens, options...)
}

// Parse parses a token stream produced by the lexer. Parsing continues after
// errors so that several can be reported at once; the returned unit holds
// every declaration that parsed cleanly.
func Parse(tokens []token.Token, options ...Option) (*ast.Unit, []*errors.CompileError) {
	return New(tokens, options...).Parse()
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name recorded on the unit and on errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithSource provides the source text, used to show the offending line in
// error messages.
func WithSource(source string) Option {
	return func(p *Parser) {
		p.source = source
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// Parser object
type Parser struct {
	tokens []token.Token
	index  int // index of peekToken

	// prevToken holds the previous token, which we already processed.
	prevToken token.Token

	// curToken holds the current token.
	curToken token.Token

	// peekToken holds the next token.
	peekToken token.Token

	errors []*errors.CompileError

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	filename string
	source   string

	depth    int
	maxDepth int
}

// New returns a Parser for the given tokens.
func New(tokens []token.Token, options ...Option) *Parser {
	p := &Parser{
		tokens:         tokens,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}

	// Prime the token pump
	p.nextToken()
	p.nextToken()

	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.FALSE, p.parseLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloat)
	p.registerPrefix(token.IDENT, p.parseVariable)
	p.registerPrefix(token.INT, p.parseInt)
	p.registerPrefix(token.LBRACKET, p.parseArray)
	p.registerPrefix(token.LPAREN, p.parseGrouping)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.MINUS_MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.NEW, p.parseConstructor)
	p.registerPrefix(token.PLUS_PLUS, p.parsePrefixExpr)
	p.registerPrefix(token.STRING, p.parseLiteral)
	p.registerPrefix(token.TILDE, p.parsePrefixExpr)
	p.registerPrefix(token.TRUE, p.parseLiteral)

	for _, typ := range []token.Type{
		token.AMPERSAND, token.AND, token.ASTERISK, token.CARET, token.EQ,
		token.GT, token.GT_EQUALS, token.GT_GT, token.HASH, token.LT,
		token.LT_EQUALS, token.LT_LT, token.MINUS, token.MOD, token.NOT_EQ,
		token.OR, token.PIPE, token.PLUS, token.SLASH,
	} {
		p.registerInfix(typ, p.parseInfixExpr)
	}
	p.registerInfix(token.COLON_COLON, p.parseMember)
	p.registerInfix(token.COLON_COLON_DOL, p.parseMember)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.MINUS_MINUS, p.parsePostfix)
	p.registerInfix(token.PERIOD, p.parseMember)
	p.registerInfix(token.PERIOD_DOL, p.parseMember)
	p.registerInfix(token.PLUS_PLUS, p.parsePostfix)

	return p
}

// Parse parses the whole token stream as a sequence of class, function and
// global declarations.
func (p *Parser) Parse() (*ast.Unit, []*errors.CompileError) {
	unit := &ast.Unit{Filename: p.filename}
	for !p.curTokenIs(token.EOF) {
		if p.tooManyErrors() {
			break
		}
		ok := true
		switch p.curToken.Type {
		case token.CLASS:
			cls := p.parseClass()
			if ok = cls != nil; ok {
				unit.Classes = append(unit.Classes, cls)
			}
		case token.FUNCTION:
			fn := p.parseSubroutine()
			if ok = fn != nil; ok {
				unit.Functions = append(unit.Functions, fn)
			}
		case token.GLOBAL:
			g := p.parseGlobal()
			if ok = g != nil; ok {
				unit.Globals = append(unit.Globals, g)
			}
		default:
			p.tokenError(errors.E1001, p.curToken,
				"unexpected %s at top level (expected class, function or global)",
				tokenDescription(p.curToken))
			ok = false
		}
		if !ok {
			p.synchronizeTopLevel()
			continue
		}
		p.nextToken()
	}
	return unit, p.errors
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken moves to the next token, updating all of prevToken, curToken,
// and peekToken. Past the end of the stream every token is EOF.
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	if p.index < len(p.tokens) {
		p.peekToken = p.tokens[p.index]
		p.index++
		return
	}
	p.peekToken = token.Token{Type: token.EOF, StartPosition: p.curToken.EndPosition, EndPosition: p.curToken.EndPosition}
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has the expected type and records an
// error otherwise.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(context, t, p.peekToken)
	return false
}

func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= MaxErrors
}

func (p *Parser) tokenError(code errors.ErrorCode, t token.Token, msg string, args ...any) {
	err := errors.Errorf(code, t, msg, args...)
	if err.Filename == "" {
		err.Filename = p.filename
	}
	p.errors = append(p.errors, err.WithSource(p.source))
}

// peekError records that the next token is not the expected type.
func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	code := errors.E1001
	if expected == token.IDENT {
		code = errors.E1006
	}
	p.tokenError(code, got, "unexpected %s while parsing %s (expected %s)",
		tokenDescription(got), context, tokenTypeDescription(expected))
}

// synchronizeTopLevel skips tokens until the start of the next declaration.
func (p *Parser) synchronizeTopLevel() {
	p.nextToken()
	for {
		switch p.curToken.Type {
		case token.CLASS, token.FUNCTION, token.GLOBAL, token.EOF:
			return
		}
		p.nextToken()
	}
}

// synchronize skips tokens until a statement boundary inside a block.
func (p *Parser) synchronize() {
	for {
		switch p.curToken.Type {
		case token.SEMICOLON, token.RBRACE, token.EOF:
			return
		}
		p.nextToken()
	}
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return fmt.Sprintf("identifier %q", t.Literal)
	case token.INT, token.FLOAT, token.STRING:
		return fmt.Sprintf("literal %s", t.Literal)
	}
	if token.IsKeyword(t.Literal) {
		return fmt.Sprintf("keyword %q", t.Literal)
	}
	return fmt.Sprintf("%q", t.Literal)
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.EOF:
		return "end of file"
	}
	if word := strings.ToLower(string(t)); token.IsKeyword(word) {
		return fmt.Sprintf("%q", word)
	}
	return fmt.Sprintf("%q", string(t))
}
