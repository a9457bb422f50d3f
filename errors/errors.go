// Package errors defines the diagnostics produced while scanning, parsing and
// compiling LSS source code.
package errors

import (
	"fmt"
	"strings"

	"github.com/TheLegendOfMataNui/lss/internal/token"
)

// CompileError is a recoverable diagnostic tied to a location in the source.
// Syntax, link and unsupported-construct errors all share this type so they
// can be reported in one ordered list.
type CompileError struct {
	Code        ErrorCode
	Message     string
	Filename    string
	Line        int // 1-based
	Column      int // 1-based
	EndColumn   int
	Offset      int // byte offset in the source
	Length      int // number of source bytes covered
	SourceLine  string
	Suggestions []Suggestion
	Note        string
}

// Errorf creates a CompileError located at the given token.
func Errorf(code ErrorCode, tok token.Token, format string, args ...any) *CompileError {
	return At(code, tok.StartPosition, tok.Length(), fmt.Sprintf(format, args...))
}

// At creates a CompileError located at the given position.
func At(code ErrorCode, pos token.Position, length int, msg string) *CompileError {
	err := &CompileError{
		Code:     code,
		Message:  msg,
		Filename: pos.File,
		Offset:   pos.Char,
		Length:   length,
	}
	if pos.IsValid() {
		err.Line = pos.LineNumber()
		err.Column = pos.ColumnNumber()
		if length > 1 {
			err.EndColumn = err.Column + length - 1
		}
	}
	return err
}

// Kind returns the human readable category prefix for the error.
func (e *CompileError) Kind() string {
	switch e.Code.Category() {
	case "syntax":
		return "syntax error"
	case "unsupported":
		return "unsupported"
	default:
		return "compile error"
	}
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Filename != "" || e.Line > 0 {
		b.WriteString("\n\nlocation: ")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d", e.Line, e.Column)
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}
	return b.String()
}

// WithSource fills in the offending source line from the full source text.
func (e *CompileError) WithSource(source string) *CompileError {
	if e.SourceLine != "" || e.Line < 1 || source == "" {
		return e
	}
	lines := strings.Split(source, "\n")
	if e.Line <= len(lines) {
		e.SourceLine = strings.TrimRight(lines[e.Line-1], "\r")
	}
	return e
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:      e.Code,
		Kind:      e.Kind(),
		Message:   e.Message,
		Filename:  e.Filename,
		Line:      e.Line,
		Column:    e.Column,
		EndColumn: e.EndColumn,
		Note:      e.Note,
	}
	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}

// CompileErrors holds multiple compile errors in the order they were found.
type CompileErrors struct {
	Errors []*CompileError
}

// Error implements the error interface.
func (e *CompileErrors) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.Errors[0].Error(), len(e.Errors)-1)
}

// FriendlyErrorMessage returns a human-friendly error message for all errors.
func (e *CompileErrors) FriendlyErrorMessage() string {
	return e.Format(NewFormatter(false))
}

// Format renders every error with the given formatter.
func (e *CompileErrors) Format(f *Formatter) string {
	if len(e.Errors) == 0 {
		return ""
	}
	formatted := make([]*FormattedError, 0, len(e.Errors))
	for _, err := range e.Errors {
		formatted = append(formatted, err.ToFormatted())
	}
	return f.FormatMultiple(formatted)
}

// Add adds compile errors to the collection.
func (e *CompileErrors) Add(errs ...*CompileError) {
	e.Errors = append(e.Errors, errs...)
}

// Count returns the number of errors.
func (e *CompileErrors) Count() int {
	return len(e.Errors)
}

// HasErrors returns true if there are any errors.
func (e *CompileErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// ToError returns the errors as a single error, or nil if empty.
func (e *CompileErrors) ToError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return e
}
