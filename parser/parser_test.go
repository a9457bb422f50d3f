package parser

import (
	"testing"

	"github.com/TheLegendOfMataNui/lss/ast"
	"github.com/TheLegendOfMataNui/lss/errors"
	"github.com/TheLegendOfMataNui/lss/internal/token"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, source string) *ast.Unit {
	t.Helper()
	unit, errs := ParseSource(source, WithFilename("test.lss"))
	require.Empty(t, errs)
	return unit
}

func parseExpr(t *testing.T, expr string) ast.Expr {
	t.Helper()
	unit := parseOK(t, "function f() { "+expr+"; }")
	require.Len(t, unit.Functions, 1)
	stmts := unit.Functions[0].Body.Stmts
	require.Len(t, stmts, 1)
	exprStmt, ok := stmts[0].(*ast.ExprStmt)
	require.True(t, ok, "expected expression statement, got %T", stmts[0])
	return exprStmt.X
}

func TestTopLevelDeclarations(t *testing.T) {
	unit := parseOK(t, `
global counter;
global other;

class Point {
	property x;
	property y;
	method length(scale) { return 1; }
}

function main() {}
function add(a, b) { return a + b; }
`)
	require.Equal(t, "test.lss", unit.Filename)
	require.Len(t, unit.Globals, 2)
	require.Equal(t, "counter", unit.Globals[0].Name.Literal)

	require.Len(t, unit.Classes, 1)
	cls := unit.Classes[0]
	require.Equal(t, "Point", cls.Name.Literal)
	require.Len(t, cls.Properties, 2)
	require.Equal(t, "y", cls.Properties[1].Name.Literal)
	require.Len(t, cls.Methods, 1)
	require.True(t, cls.Methods[0].IsMethod())
	require.Equal(t, []string{"scale"}, cls.Methods[0].ParamNames())

	require.Len(t, unit.Functions, 2)
	require.Equal(t, "main", unit.Functions[0].Name.Literal)
	require.Empty(t, unit.Functions[0].Params)
	require.Empty(t, unit.Functions[0].Body.Stmts)
	require.Equal(t, []string{"a", "b"}, unit.Functions[1].ParamNames())
	require.False(t, unit.Functions[1].IsMethod())
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a || b && c", "(a || (b && c))"},
		{"a | b # c & d", "(a | (b # (c & d)))"},
		{"a == b < c", "(a == (b < c))"},
		{"a < b << 1", "(a < (b << 1))"},
		{"a << 1 + 2", "(a << (1 + 2))"},
		{"a % b - c", "((a % b) - c)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"-a ^ 2", "((-a) ^ 2)"},
		{"!a == b", "((!a) == b)"},
		{"~a & 1", "((~a) & 1)"},
		{"a - b - c", "((a - b) - c)"},
		{"a != b", "(a != b)"},
		{"i++", "(i++)"},
		{"--i", "(--i)"},
		{"p.x + 1", "(p.x + 1)"},
		{"p.$x", "p.$x"},
		{"Game::run(1, 2)", "Game::run(1, 2)"},
		{"a[1][2]", "a[1][2]"},
		{"f()", "f()"},
		{"[1, 2, 3]", "[1, 2, 3]"},
		{"new Point(1, 2)", "new Point(1, 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.want, parseExpr(t, tt.input).String())
		})
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input string
		typ   token.Type
	}{
		{"42", token.INT},
		{"0x2A", token.INT},
		{"1.5f", token.FLOAT},
		{`"text"`, token.STRING},
		{"true", token.TRUE},
		{"false", token.FALSE},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lit, ok := parseExpr(t, tt.input).(*ast.Literal)
			require.True(t, ok)
			require.Equal(t, tt.typ, lit.Token.Type)
			require.Equal(t, tt.input, lit.Token.Literal)
		})
	}
}

func TestStatements(t *testing.T) {
	unit := parseOK(t, `
function f(x) {
	var a;
	var b = 1;
	a = 2;
	b += 3;
	p.x = 4;
	return;
	return b;
	{ var c; }
	while (a < 10) a = a + 1;
}`)
	stmts := unit.Functions[0].Body.Stmts
	require.Len(t, stmts, 9)

	v := stmts[0].(*ast.Var)
	require.Equal(t, "a", v.Name.Literal)
	require.Nil(t, v.Value)
	require.NotNil(t, stmts[1].(*ast.Var).Value)

	assign := stmts[2].(*ast.Assign)
	require.Equal(t, token.ASSIGN, assign.Op.Type)
	require.Equal(t, token.PLUS_EQUALS, stmts[3].(*ast.Assign).Op.Type)
	require.Equal(t, "p.x = 4;", stmts[4].String())

	require.Nil(t, stmts[5].(*ast.Return).Value)
	require.NotNil(t, stmts[6].(*ast.Return).Value)
	require.Len(t, stmts[7].(*ast.Block).Stmts, 1)

	loop := stmts[8].(*ast.While)
	require.Equal(t, "(a < 10)", loop.Cond.String())
	require.IsType(t, &ast.Assign{}, loop.Body)
}

func TestIfElse(t *testing.T) {
	unit := parseOK(t, `
function f(x) {
	if (x) { return 1; }
	if (x) return 1; else return 2;
	if (x == 1) { return 1; } else if (x == 2) { return 2; } else { return 3; }
}`)
	stmts := unit.Functions[0].Body.Stmts
	require.Len(t, stmts, 3)

	plain := stmts[0].(*ast.If)
	require.NotNil(t, plain.Cond)
	require.Nil(t, plain.Else)

	withElse := stmts[1].(*ast.If)
	elseBody := withElse.Else.(*ast.If)
	require.Nil(t, elseBody.Cond)
	require.Equal(t, "return 2;", elseBody.Body.String())

	chain := stmts[2].(*ast.If)
	elseIf := chain.Else.(*ast.If)
	require.Equal(t, "(x == 2)", elseIf.Cond.String())
	last := elseIf.Else.(*ast.If)
	require.Nil(t, last.Cond)
	require.IsType(t, &ast.Block{}, last.Body)
}

func TestPositions(t *testing.T) {
	unit := parseOK(t, "function main() {\n  return 1;\n}")
	fn := unit.Functions[0]
	require.Equal(t, 1, fn.Name.StartPosition.LineNumber())
	require.Equal(t, 10, fn.Name.StartPosition.ColumnNumber())
	ret := fn.Body.Stmts[0].(*ast.Return)
	require.Equal(t, 2, ret.Pos().LineNumber())
	require.Equal(t, 3, ret.Pos().ColumnNumber())
	require.Equal(t, "test.lss", ret.Pos().File)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.ErrorCode
		msg   string
	}{
		{"missing semicolon", "global g", errors.E1001, "unexpected end of file while parsing global"},
		{"missing name", "function () {}", errors.E1006, "expected identifier"},
		{"bad top level", "var x;", errors.E1001, "at top level"},
		{"missing expression", "function f() { return +; }", errors.E1004, "expected expression"},
		{"nested function", "function f() { function g() {} }", errors.E1010, "only allowed at the top level"},
		{"nested global", "function f() { global g; }", errors.E1010, "global declarations"},
		{"bad assignment target", "function f() { 1 = 2; }", errors.E1005, "cannot assign to 1"},
		{"unclosed block", "function f() { return 1;", errors.E1001, "while parsing block"},
		{"class body", "class A { var x; }", errors.E1001, "in class body"},
		{"int range", "function f() { return 9999999999; }", errors.E1008, "out of range"},
		{"unclosed call", "function f() { g(1, 2; }", errors.E1001, "call arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := ParseSource(tt.input, WithFilename("bad.lss"))
			require.NotEmpty(t, errs)
			require.Equal(t, tt.code, errs[0].Code)
			require.Contains(t, errs[0].Message, tt.msg)
			require.Equal(t, "bad.lss", errs[0].Filename)
		})
	}
}

func TestErrorRecovery(t *testing.T) {
	unit, errs := ParseSource(`
function f() {
	var a = ;
	var b = 1;
	return +;
}
garbage here;
function g() { return 1; }
`)
	require.Len(t, errs, 3)
	require.Equal(t, errors.E1004, errs[0].Code)
	require.Equal(t, 3, errs[0].Line)
	require.Equal(t, "\tvar a = ;", errs[0].SourceLine)
	require.Equal(t, errors.E1004, errs[1].Code)
	require.Equal(t, errors.E1001, errs[2].Code)
	require.Equal(t, 7, errs[2].Line)

	require.Len(t, unit.Functions, 2)
	require.Equal(t, "g", unit.Functions[1].Name.Literal)
	require.Len(t, unit.Functions[0].Body.Stmts, 1)
}

func TestScanErrorsStopParsing(t *testing.T) {
	unit, errs := ParseSource(`function f() { return "abc; }`, WithFilename("scan.lss"))
	require.Len(t, errs, 1)
	require.Equal(t, errors.E1002, errs[0].Code)
	require.Equal(t, "scan.lss", unit.Filename)
	require.Empty(t, unit.Functions)
}

func TestMaxDepth(t *testing.T) {
	expr := ""
	for i := 0; i < 20; i++ {
		expr += "("
	}
	expr += "1"
	for i := 0; i < 20; i++ {
		expr += ")"
	}
	_, errs := ParseSource("function f() { return "+expr+"; }", WithMaxDepth(10))
	require.NotEmpty(t, errs)
	require.Contains(t, errs[0].Message, "maximum nesting depth exceeded")
}

func TestParseTokens(t *testing.T) {
	tokens := []token.Token{
		{Type: token.GLOBAL, Literal: "global"},
		{Type: token.IDENT, Literal: "g"},
		{Type: token.SEMICOLON, Literal: ";"},
		{Type: token.EOF},
	}
	unit, errs := Parse(tokens)
	require.Empty(t, errs)
	require.Len(t, unit.Globals, 1)

	// A stream without a trailing EOF token still terminates.
	unit, errs = Parse(tokens[:3])
	require.Empty(t, errs)
	require.Len(t, unit.Globals, 1)
}
