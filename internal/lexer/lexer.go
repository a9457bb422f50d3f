// Package lexer converts LSS source text into tokens.
package lexer

import (
	"github.com/TheLegendOfMataNui/lss/errors"
	"github.com/TheLegendOfMataNui/lss/internal/token"
)

// Lexer scans one source text. Call Next repeatedly until it returns an EOF
// token.
type Lexer struct {
	input     string
	filename  string
	pos       int // offset of the current byte
	line      int // 0-indexed
	lineStart int // offset of the first byte of the current line
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithFilename sets the filename recorded in token positions.
func WithFilename(filename string) Option {
	return func(l *Lexer) {
		l.filename = filename
	}
}

// New returns a Lexer for the given input.
func New(input string, options ...Option) *Lexer {
	l := &Lexer{input: input}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// SetFilename sets the filename recorded in token positions.
func (l *Lexer) SetFilename(filename string) {
	l.filename = filename
}

// Filename returns the filename recorded in token positions.
func (l *Lexer) Filename() string {
	return l.filename
}

// Scan tokenizes the whole input. Scanning continues past errors; invalid
// input is left out of the token list and reported in the error list. The
// returned tokens always end with an EOF token.
func Scan(source string, options ...Option) ([]token.Token, []*errors.CompileError) {
	l := New(source, options...)
	var tokens []token.Token
	var errs []*errors.CompileError
	for {
		tok, err := l.Next()
		if err != nil {
			errs = append(errs, err.WithSource(source))
		}
		if tok.Type == token.ILLEGAL {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, errs
		}
	}
}

// Next returns the next token. When the input is malformed the token has
// type ILLEGAL and the error describes the problem; scanning may continue.
func (l *Lexer) Next() (token.Token, *errors.CompileError) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return l.tokenFrom(token.EOF, l.position()), err
	}
	start := l.position()
	if l.pos >= len(l.input) {
		return l.tokenFrom(token.EOF, start), nil
	}
	ch := l.input[l.pos]
	switch {
	case isLetter(ch):
		return l.readIdentifier(start), nil
	case isDigit(ch):
		return l.readNumber(start)
	case ch == '"':
		return l.readString(start)
	}
	if typ, width := l.readOperator(); width > 0 {
		l.pos += width
		return l.tokenFrom(typ, start), nil
	}
	l.pos++
	tok := l.tokenFrom(token.ILLEGAL, start)
	return tok, errors.Errorf(errors.E1009, tok, "unexpected character %q", tok.Literal)
}

func (l *Lexer) position() token.Position {
	return token.Position{
		Char:      l.pos,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.pos - l.lineStart,
		File:      l.filename,
	}
}

func (l *Lexer) tokenFrom(typ token.Type, start token.Position) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       l.input[start.Char:l.pos],
		StartPosition: start,
		EndPosition:   l.position(),
	}
}

func (l *Lexer) peek(offset int) byte {
	if l.pos+offset < len(l.input) {
		return l.input[l.pos+offset]
	}
	return 0
}

// advance consumes one byte, tracking line starts.
func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.lineStart = l.pos + 1
	}
	l.pos++
}

func (l *Lexer) skipWhitespaceAndComments() *errors.CompileError {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peek(1) == '/':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance()
			}
		case ch == '/' && l.peek(1) == '*':
			start := l.position()
			l.advance()
			l.advance()
			closed := false
			for l.pos < len(l.input) {
				if l.input[l.pos] == '*' && l.peek(1) == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				return errors.At(errors.E1007, start, 2, "unterminated block comment")
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) readIdentifier(start token.Position) token.Token {
	for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos])) {
		l.pos++
	}
	tok := l.tokenFrom(token.IDENT, start)
	tok.Type = token.LookupIdentifier(tok.Literal)
	return tok
}

func (l *Lexer) readNumber(start token.Position) (token.Token, *errors.CompileError) {
	if l.input[l.pos] == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X') {
		l.pos += 2
		digits := 0
		for l.pos < len(l.input) && isHexDigit(l.input[l.pos]) {
			l.pos++
			digits++
		}
		if digits == 0 || l.pos < len(l.input) && isLetter(l.input[l.pos]) {
			return l.malformedNumber(start)
		}
		return l.tokenFrom(token.INT, start), nil
	}
	typ := token.INT
	l.skipDigits()
	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		typ = token.FLOAT
		l.pos++
		l.skipDigits()
	}
	if ch := l.peek(0); ch == 'e' || ch == 'E' {
		typ = token.FLOAT
		l.pos++
		if ch := l.peek(0); ch == '+' || ch == '-' {
			l.pos++
		}
		if !isDigit(l.peek(0)) {
			return l.malformedNumber(start)
		}
		l.skipDigits()
	}
	if ch := l.peek(0); ch == 'f' || ch == 'F' {
		typ = token.FLOAT
		l.pos++
	}
	if l.pos < len(l.input) && isLetter(l.input[l.pos]) {
		return l.malformedNumber(start)
	}
	return l.tokenFrom(typ, start), nil
}

func (l *Lexer) skipDigits() {
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) malformedNumber(start token.Position) (token.Token, *errors.CompileError) {
	for l.pos < len(l.input) && (isLetter(l.input[l.pos]) || isDigit(l.input[l.pos]) || l.input[l.pos] == '.') {
		l.pos++
	}
	tok := l.tokenFrom(token.ILLEGAL, start)
	return tok, errors.Errorf(errors.E1008, tok, "invalid number literal %q", tok.Literal)
}

// readString reads a double-quoted string. The token literal keeps the quotes
// and any escape sequences exactly as written.
func (l *Lexer) readString(start token.Position) (token.Token, *errors.CompileError) {
	l.pos++ // opening quote
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case '"':
			l.pos++
			return l.tokenFrom(token.STRING, start), nil
		case '\\':
			l.pos++
			if l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		case '\n':
			tok := l.tokenFrom(token.ILLEGAL, start)
			return tok, errors.Errorf(errors.E1002, tok, "unterminated string literal")
		default:
			l.pos++
		}
	}
	tok := l.tokenFrom(token.ILLEGAL, start)
	return tok, errors.Errorf(errors.E1002, tok, "unterminated string literal")
}

// operators lists multi-byte operators first so the longest match wins.
var operators = []struct {
	text string
	typ  token.Type
}{
	{"::$", token.COLON_COLON_DOL},
	{"::", token.COLON_COLON},
	{".$", token.PERIOD_DOL},
	{"&&", token.AND},
	{"||", token.OR},
	{"==", token.EQ},
	{"!=", token.NOT_EQ},
	{"<=", token.LT_EQUALS},
	{"<<", token.LT_LT},
	{">=", token.GT_EQUALS},
	{">>", token.GT_GT},
	{"++", token.PLUS_PLUS},
	{"--", token.MINUS_MINUS},
	{"+=", token.PLUS_EQUALS},
	{"-=", token.MINUS_EQUALS},
	{"*=", token.ASTERISK_EQUALS},
	{"/=", token.SLASH_EQUALS},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
	{",", token.COMMA},
	{";", token.SEMICOLON},
	{"=", token.ASSIGN},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.ASTERISK},
	{"/", token.SLASH},
	{"%", token.MOD},
	{"^", token.CARET},
	{"&", token.AMPERSAND},
	{"|", token.PIPE},
	{"#", token.HASH},
	{"~", token.TILDE},
	{"!", token.BANG},
	{"<", token.LT},
	{">", token.GT},
	{".", token.PERIOD},
}

func (l *Lexer) readOperator() (token.Type, int) {
	rest := l.input[l.pos:]
	for _, o := range operators {
		if len(rest) >= len(o.text) && rest[:len(o.text)] == o.text {
			return o.typ, len(o.text)
		}
	}
	return "", 0
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
