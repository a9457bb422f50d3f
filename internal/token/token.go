// Package token defines language keywords and tokens used when scanning LSS
// source code.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token scanned from the input source code. Literal holds
// the exact source text, so string literals keep their quotes and escapes.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Offset returns the byte offset of the token in its source.
func (t Token) Offset() int {
	return t.StartPosition.Char
}

// Length returns the number of source bytes covered by the token.
func (t Token) Length() int {
	return t.EndPosition.Char - t.StartPosition.Char
}

// Token types
const (
	AMPERSAND       Type = "&"
	AND             Type = "&&"
	ASSIGN          Type = "="
	ASTERISK        Type = "*"
	ASTERISK_EQUALS Type = "*="
	BANG            Type = "!"
	CARET           Type = "^"
	CLASS           Type = "CLASS"
	COLON_COLON     Type = "::"
	COLON_COLON_DOL Type = "::$"
	COMMA           Type = ","
	ELSE            Type = "ELSE"
	EOF             Type = "EOF"
	EQ              Type = "=="
	FALSE           Type = "FALSE"
	FLOAT           Type = "FLOAT"
	FUNCTION        Type = "FUNCTION"
	GLOBAL          Type = "GLOBAL"
	GT              Type = ">"
	GT_EQUALS       Type = ">="
	GT_GT           Type = ">>"
	HASH            Type = "#"
	IDENT           Type = "IDENT"
	IF              Type = "IF"
	ILLEGAL         Type = "ILLEGAL"
	INT             Type = "INT"
	LBRACE          Type = "{"
	LBRACKET        Type = "["
	LPAREN          Type = "("
	LT              Type = "<"
	LT_EQUALS       Type = "<="
	LT_LT           Type = "<<"
	METHOD          Type = "METHOD"
	MINUS           Type = "-"
	MINUS_EQUALS    Type = "-="
	MINUS_MINUS     Type = "--"
	MOD             Type = "%"
	NEW             Type = "NEW"
	NOT_EQ          Type = "!="
	OR              Type = "||"
	PERIOD          Type = "."
	PERIOD_DOL      Type = ".$"
	PIPE            Type = "|"
	PLUS            Type = "+"
	PLUS_EQUALS     Type = "+="
	PLUS_PLUS       Type = "++"
	PROPERTY        Type = "PROPERTY"
	RBRACE          Type = "}"
	RBRACKET        Type = "]"
	RETURN          Type = "RETURN"
	RPAREN          Type = ")"
	SEMICOLON       Type = ";"
	SLASH           Type = "/"
	SLASH_EQUALS    Type = "/="
	STRING          Type = "STRING"
	TILDE           Type = "~"
	TRUE            Type = "TRUE"
	VAR             Type = "VAR"
	WHILE           Type = "WHILE"
)

// Reserved keywords
var keywords = map[string]Type{
	"class":    CLASS,
	"else":     ELSE,
	"false":    FALSE,
	"function": FUNCTION,
	"global":   GLOBAL,
	"if":       IF,
	"method":   METHOD,
	"new":      NEW,
	"property": PROPERTY,
	"return":   RETURN,
	"true":     TRUE,
	"var":      VAR,
	"while":    WHILE,
}

// LookupIdentifier used to determinate whether identifier is keyword nor not
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether the given word is reserved.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}
