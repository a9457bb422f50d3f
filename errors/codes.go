package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Syntax errors (scanner and parser)
//   - E2xxx: Semantic and link errors
//   - E3xxx: Constructs the code generator does not support yet
type ErrorCode string

const (
	// Syntax errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Missing expression
	E1005 ErrorCode = "E1005" // Invalid assignment target
	E1006 ErrorCode = "E1006" // Expected identifier
	E1007 ErrorCode = "E1007" // Unterminated block comment
	E1008 ErrorCode = "E1008" // Invalid number literal
	E1009 ErrorCode = "E1009" // Unexpected character
	E1010 ErrorCode = "E1010" // Declaration not allowed here

	// Semantic and link errors (E2xxx)
	E2001 ErrorCode = "E2001" // Undefined variable
	E2002 ErrorCode = "E2002" // Duplicate class
	E2003 ErrorCode = "E2003" // Duplicate function
	E2004 ErrorCode = "E2004" // Duplicate local variable
	E2005 ErrorCode = "E2005" // Duplicate class member
	E2006 ErrorCode = "E2006" // Duplicate parameter name
	E2007 ErrorCode = "E2007" // Too many local variables
	E2008 ErrorCode = "E2008" // Branch offset out of range
	E2009 ErrorCode = "E2009" // Table index out of range

	// Unsupported constructs (E3xxx)
	E3001 ErrorCode = "E3001" // Unsupported expression
	E3002 ErrorCode = "E3002" // Unsupported operator
	E3003 ErrorCode = "E3003" // Unsupported statement
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "unterminated string literal",
	E1003: "invalid syntax",
	E1004: "missing expression",
	E1005: "invalid assignment target",
	E1006: "expected identifier",
	E1007: "unterminated block comment",
	E1008: "invalid number literal",
	E1009: "unexpected character",
	E1010: "declaration not allowed here",

	E2001: "undefined variable",
	E2002: "duplicate class",
	E2003: "duplicate function",
	E2004: "duplicate local variable",
	E2005: "duplicate class member",
	E2006: "duplicate parameter name",
	E2007: "too many local variables",
	E2008: "branch offset out of range",
	E2009: "table index out of range",

	E3001: "unsupported expression",
	E3002: "unsupported operator",
	E3003: "unsupported statement",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "syntax"
	case '2':
		return "semantic"
	case '3':
		return "unsupported"
	default:
		return "unknown"
	}
}
