package compiler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheLegendOfMataNui/lss/ast"
	"github.com/TheLegendOfMataNui/lss/errors"
	"github.com/TheLegendOfMataNui/lss/internal/token"
	"github.com/TheLegendOfMataNui/lss/op"
	"github.com/TheLegendOfMataNui/lss/osi"
	"github.com/TheLegendOfMataNui/lss/parser"
)

func parse(t *testing.T, filename, source string) *ast.Unit {
	t.Helper()
	unit, errs := parser.ParseSource(source, parser.WithFilename(filename))
	require.Empty(t, errs)
	return unit
}

func compileSource(t *testing.T, source string) *Result {
	t.Helper()
	res, err := Compile([]*ast.Unit{parse(t, "test.lss", source)}, nil)
	require.NoError(t, err)
	return res
}

func compileFunction(t *testing.T, body string) []osi.Instruction {
	t.Helper()
	res := compileSource(t, "function f() {\n"+body+"\n}")
	require.Empty(t, res.Errors)
	fn := res.Image.Function("f")
	require.NotNil(t, fn)
	return fn.Instructions
}

func instr(code op.Code, operands ...osi.Operand) osi.Instruction {
	return osi.NewInstruction(code, operands...)
}

func errorCodes(errs []*errors.CompileError) []errors.ErrorCode {
	var codes []errors.ErrorCode
	for _, err := range errs {
		codes = append(codes, err.Code)
	}
	return codes
}

func TestIntegerLiteralEncoding(t *testing.T) {
	tests := []struct {
		literal string
		want    osi.Instruction
		size    uint32
	}{
		{"0", instr(op.PushConstant0), 1},
		{"0x0", instr(op.PushConstant0), 1},
		{"1", instr(op.PushConstantI8, osi.I8(1)), 2},
		{"127", instr(op.PushConstantI8, osi.I8(127)), 2},
		{"0xFFFFFF80", instr(op.PushConstantI8, osi.I8(-128)), 2},
		{"0xFFFFFFFF", instr(op.PushConstantI8, osi.I8(-1)), 2},
		{"128", instr(op.PushConstantI16, osi.I16(128)), 3},
		{"0xFFFFFF7F", instr(op.PushConstantI16, osi.I16(-129)), 3},
		{"32767", instr(op.PushConstantI16, osi.I16(32767)), 3},
		{"0xFFFF8000", instr(op.PushConstantI16, osi.I16(-32768)), 3},
		{"32768", instr(op.PushConstantI32, osi.I32(32768)), 5},
		{"0xFFFF7FFF", instr(op.PushConstantI32, osi.I32(-32769)), 5},
		{"2147483647", instr(op.PushConstantI32, osi.I32(2147483647)), 5},
		{"0x80000000", instr(op.PushConstantI32, osi.I32(-2147483648)), 5},
	}
	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			ctx := newTestContext(t)
			lit := &ast.Literal{Token: token.Token{Type: token.INT, Literal: tt.literal}}
			size, err := GenerateExpr(ctx, lit)
			require.NoError(t, err)
			require.Equal(t, tt.size, size)
			require.Equal(t, []osi.Instruction{tt.want}, ctx.Instructions())
		})
	}
}

func TestOtherLiterals(t *testing.T) {
	got := compileFunction(t, `
		1.5;
		true;
		false;
		"hello";
		"say \"hi\"\n";
		"hello";
	`)
	require.Equal(t, []osi.Instruction{
		instr(op.PushConstantF32, osi.F32(1.5)), instr(op.Pop),
		instr(op.PushConstantI8, osi.I8(1)), instr(op.Pop),
		instr(op.PushConstant0), instr(op.Pop),
		instr(op.PushConstantString, osi.U16(0)), instr(op.Pop),
		instr(op.PushConstantString, osi.U16(1)), instr(op.Pop),
		instr(op.PushConstantString, osi.U16(0)), instr(op.Pop),
	}, got)
}

func TestStringsInternedAcrossFunctions(t *testing.T) {
	res := compileSource(t, `
		function a() { return "x"; }
		function b() { return "y"; }
		function c() { return "x"; }
	`)
	require.Empty(t, res.Errors)
	require.Equal(t, []string{"x", "y"}, res.Image.Strings)
	require.Equal(t, instr(op.PushConstantString, osi.U16(0)), res.Image.Function("c").Instructions[0])
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		source string
		want   []osi.Instruction
	}{
		{"1 + 2", []osi.Instruction{
			instr(op.PushConstantI8, osi.I8(1)), instr(op.PushConstantI8, osi.I8(2)), instr(op.Add),
		}},
		{"1 != 2", []osi.Instruction{
			instr(op.PushConstantI8, osi.I8(1)), instr(op.PushConstantI8, osi.I8(2)),
			instr(op.EqualTo), instr(op.Not),
		}},
		{"-5", []osi.Instruction{
			instr(op.PushConstantI8, osi.I8(5)), instr(op.PushConstantI8, osi.I8(-1)), instr(op.Multiply),
		}},
		{"!true", []osi.Instruction{instr(op.PushConstantI8, osi.I8(1)), instr(op.Not)}},
		{"~0", []osi.Instruction{instr(op.PushConstant0), instr(op.BitwiseNot)}},
		{"(1 + 2) * 3", []osi.Instruction{
			instr(op.PushConstantI8, osi.I8(1)), instr(op.PushConstantI8, osi.I8(2)), instr(op.Add),
			instr(op.PushConstantI8, osi.I8(3)), instr(op.Multiply),
		}},
		{"1 - 2 / 3 % 4", []osi.Instruction{
			instr(op.PushConstantI8, osi.I8(1)),
			instr(op.PushConstantI8, osi.I8(2)), instr(op.PushConstantI8, osi.I8(3)), instr(op.Divide),
			instr(op.PushConstantI8, osi.I8(4)), instr(op.Modulus),
			instr(op.Subtract),
		}},
		{"2 ^ 3", []osi.Instruction{
			instr(op.PushConstantI8, osi.I8(2)), instr(op.PushConstantI8, osi.I8(3)), instr(op.Power),
		}},
		{"1 < 2 && 3 >= 4 || false", []osi.Instruction{
			instr(op.PushConstantI8, osi.I8(1)), instr(op.PushConstantI8, osi.I8(2)), instr(op.LessThan),
			instr(op.PushConstantI8, osi.I8(3)), instr(op.PushConstantI8, osi.I8(4)), instr(op.GreaterOrEqual),
			instr(op.And),
			instr(op.PushConstant0),
			instr(op.Or),
		}},
		{"1 & 2 | 3 # 4", []osi.Instruction{
			instr(op.PushConstantI8, osi.I8(1)), instr(op.PushConstantI8, osi.I8(2)), instr(op.BitwiseAnd),
			instr(op.PushConstantI8, osi.I8(3)), instr(op.PushConstantI8, osi.I8(4)), instr(op.BitwiseXor),
			instr(op.BitwiseOr),
		}},
		{"1 << 2 > 3 >> 4", []osi.Instruction{
			instr(op.PushConstantI8, osi.I8(1)), instr(op.PushConstantI8, osi.I8(2)), instr(op.ShiftLeft),
			instr(op.PushConstantI8, osi.I8(3)), instr(op.PushConstantI8, osi.I8(4)), instr(op.ShiftRight),
			instr(op.GreaterThan),
		}},
		{"1 <= 2 == 3 > 4", []osi.Instruction{
			instr(op.PushConstantI8, osi.I8(1)), instr(op.PushConstantI8, osi.I8(2)), instr(op.LessOrEqual),
			instr(op.PushConstantI8, osi.I8(3)), instr(op.PushConstantI8, osi.I8(4)), instr(op.GreaterThan),
			instr(op.EqualTo),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got := compileFunction(t, "return "+tt.source+";")
			want := append(tt.want, instr(op.Return))
			require.Equal(t, want, got)
		})
	}
}

func TestReturnWithoutValue(t *testing.T) {
	got := compileFunction(t, "return;")
	require.Equal(t, []osi.Instruction{instr(op.PushNothing), instr(op.Return)}, got)
}

func TestVarDeclaration(t *testing.T) {
	res := compileSource(t, `function f(a) { var x = 5; var y; }`)
	require.Empty(t, res.Errors)
	require.Equal(t, []osi.Instruction{
		instr(op.MemberFunctionArgumentCheck, osi.I8(1)),
		instr(op.CreateStackVariables, osi.I8(2)),
		instr(op.PushConstantI8, osi.I8(5)),
		instr(op.SetVariableValue, osi.U16(1)),
	}, res.Image.Function("f").Instructions)
}

func TestSiblingScopesGetDistinctSlots(t *testing.T) {
	got := compileFunction(t, `{ var a = 1; } { var b = 2; }`)
	require.Equal(t, []osi.Instruction{
		instr(op.CreateStackVariables, osi.I8(2)),
		instr(op.PushConstantI8, osi.I8(1)),
		instr(op.SetVariableValue, osi.U16(0)),
		instr(op.PushConstantI8, osi.I8(2)),
		instr(op.SetVariableValue, osi.U16(1)),
	}, got)
}

func TestIfWithoutElse(t *testing.T) {
	got := compileFunction(t, `if (false) { return 1; }`)
	body := []osi.Instruction{instr(op.PushConstantI8, osi.I8(1)), instr(op.Return)}
	require.Equal(t, []osi.Instruction{
		instr(op.PushConstant0),
		instr(op.CompareAndBranchIfFalse, osi.I16(int16(osi.TotalSize(body)))),
		body[0], body[1],
	}, got)
	require.Equal(t, osi.I16(3), got[1].Operands[0])
}

func TestIfElse(t *testing.T) {
	got := compileFunction(t, `if (true) { return 1; } else { return 300; }`)
	require.Equal(t, []osi.Instruction{
		instr(op.PushConstantI8, osi.I8(1)),
		instr(op.CompareAndBranchIfFalse, osi.I16(6)), // body (3) + skip branch (3)
		instr(op.PushConstantI8, osi.I8(1)),
		instr(op.Return),
		instr(op.BranchAlways, osi.I16(4)), // else body
		instr(op.PushConstantI16, osi.I16(300)),
		instr(op.Return),
	}, got)
}

func TestElseIfChain(t *testing.T) {
	got := compileFunction(t, `
		if (false) { 1; }
		else if (true) { 2; }
		else { 3; }
	`)
	require.Equal(t, []osi.Instruction{
		instr(op.PushConstant0),
		instr(op.CompareAndBranchIfFalse, osi.I16(6)),
		instr(op.PushConstantI8, osi.I8(1)), instr(op.Pop),
		instr(op.BranchAlways, osi.I16(14)),
		instr(op.PushConstantI8, osi.I8(1)),
		instr(op.CompareAndBranchIfFalse, osi.I16(6)),
		instr(op.PushConstantI8, osi.I8(2)), instr(op.Pop),
		instr(op.BranchAlways, osi.I16(3)),
		instr(op.PushConstantI8, osi.I8(3)), instr(op.Pop),
	}, got)
}

func TestWhile(t *testing.T) {
	got := compileFunction(t, `while (true) { 1; }`)
	require.Equal(t, []osi.Instruction{
		instr(op.PushConstantI8, osi.I8(1)),
		instr(op.CompareAndBranchIfFalse, osi.I16(6)), // body (3) + loop-back (3)
		instr(op.PushConstantI8, osi.I8(1)),
		instr(op.Pop),
		instr(op.BranchAlways, osi.I16(-11)), // cond (2) + exit (3) + body (3) + loop-back (3)
	}, got)
}

func TestNestedLoops(t *testing.T) {
	got := compileFunction(t, `while (true) { while (false) { } }`)
	require.Equal(t, []osi.Instruction{
		instr(op.PushConstantI8, osi.I8(1)),
		instr(op.CompareAndBranchIfFalse, osi.I16(10)),
		instr(op.PushConstant0),
		instr(op.CompareAndBranchIfFalse, osi.I16(3)),
		instr(op.BranchAlways, osi.I16(-7)),
		instr(op.BranchAlways, osi.I16(-15)),
	}, got)
}

func TestPrologue(t *testing.T) {
	res := compileSource(t, `
		function two(a, b) { var c; }
		function none() { }
	`)
	require.Empty(t, res.Errors)
	require.Equal(t, []osi.Instruction{
		instr(op.MemberFunctionArgumentCheck, osi.I8(2)),
		instr(op.CreateStackVariables, osi.I8(1)),
	}, res.Image.Function("two").Instructions)
	require.Empty(t, res.Image.Function("none").Instructions)
}

func TestDeterminism(t *testing.T) {
	source := `
		global counter;
		class Point {
			property x;
			method move(dx) {
				var label = "moved";
				if (1) { return "left"; } else { return "right"; }
			}
		}
		function main(a, b) {
			var greeting = "hello";
			while (1 < 10) {
				if (true) { return "done"; } else if (false) { 1 + 2 * 3; } else { var n = -4; }
			}
			return "hello";
		}
	`
	unit := func() []*ast.Unit { return []*ast.Unit{parse(t, "main.lss", source)} }
	first, err := Compile(unit(), nil)
	require.NoError(t, err)
	require.Empty(t, first.Errors)
	second, err := Compile(unit(), nil)
	require.NoError(t, err)
	require.Empty(t, second.Errors)

	main := first.Image.Function("main")
	require.NotEmpty(t, main.Instructions)
	require.Equal(t, osi.Encode(main.Instructions), osi.Encode(second.Image.Function("main").Instructions))

	move := first.Image.Class("Point").Methods[0]
	require.NotEmpty(t, move.Instructions)
	require.Equal(t, osi.Encode(move.Instructions), osi.Encode(second.Image.Class("Point").Methods[0].Instructions))

	require.Equal(t, []string{"moved", "left", "right", "hello", "done"}, first.Image.Strings)
	require.Equal(t, first.Image.String(), second.Image.String())
}

func TestDuplicateClassAcrossUnits(t *testing.T) {
	a := parse(t, "a.lss", "class Foo { property x; property y; }")
	b := parse(t, "b.lss", "class Foo { property z; }")
	res, err := Compile([]*ast.Unit{a, b}, nil)
	require.NoError(t, err)

	require.Len(t, res.Errors, 1)
	dup := res.Errors[0]
	require.Equal(t, errors.E2002, dup.Code)
	require.Equal(t, "b.lss", dup.Filename)
	require.Equal(t, 1, dup.Line)
	require.Equal(t, 7, dup.Column)
	require.Contains(t, dup.Note, "a.lss:1:7")

	require.Len(t, res.Image.Classes, 1)
	foo := res.Image.Class("Foo")
	require.Equal(t, []uint16{0, 1}, foo.Properties)
	require.Equal(t, []string{"x", "y"}, res.Image.Symbols)
}

func TestDuplicateFunction(t *testing.T) {
	res := compileSource(t, `
		function f() { return 1; }
		function f(a) { return 2; }
	`)
	require.Equal(t, []errors.ErrorCode{errors.E2003}, errorCodes(res.Errors))
	require.Len(t, res.Image.Functions, 1)
	fn := res.Image.Function("f")
	require.Equal(t, uint16(0), fn.ParameterCount)
	require.Equal(t, instr(op.PushConstantI8, osi.I8(1)), fn.Instructions[0])
}

func TestDuplicateGlobal(t *testing.T) {
	res := compileSource(t, "global g; global h; global g;")
	require.Empty(t, res.Errors)
	require.Equal(t, []string{"g", "h"}, res.Image.Globals)
}

func TestForwardReferencesAcrossUnits(t *testing.T) {
	// Declaration order: classes, functions and globals of the first unit,
	// then those of the second.
	a := parse(t, "a.lss", "function second() { } global g1; class A { }")
	b := parse(t, "b.lss", "global g2; function first() { } class B { }")
	res, err := Compile([]*ast.Unit{a, b}, nil)
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, []string{"g1", "g2"}, res.Image.Globals)
	require.Equal(t, "second", res.Image.Functions[0].Name)
	require.Equal(t, "first", res.Image.Functions[1].Name)
	require.Equal(t, "A", res.Image.Classes[0].Name)
	require.Equal(t, "B", res.Image.Classes[1].Name)
}

func TestMethods(t *testing.T) {
	res := compileSource(t, `
		class Counter {
			property count;
			method add(n) { var total = 1; }
			method reset() { return; }
		}
	`)
	require.Empty(t, res.Errors)
	require.Equal(t, []string{"count", "add", "reset"}, res.Image.Symbols)

	cls := res.Image.Class("Counter")
	require.Equal(t, []uint16{0}, cls.Properties)
	require.Len(t, cls.Methods, 2)

	add := cls.Method(1)
	require.Equal(t, uint16(2), add.ParameterCount)
	require.Equal(t, []osi.Instruction{
		instr(op.MemberFunctionArgumentCheck, osi.I8(2)),
		instr(op.CreateStackVariables, osi.I8(1)),
		instr(op.PushConstantI8, osi.I8(1)),
		instr(op.SetVariableValue, osi.U16(2)),
	}, add.Instructions)

	reset := cls.Method(2)
	require.Equal(t, uint16(1), reset.ParameterCount)
	require.Equal(t, []osi.Instruction{
		instr(op.MemberFunctionArgumentCheck, osi.I8(1)),
		instr(op.PushNothing),
		instr(op.Return),
	}, reset.Instructions)
}

func TestSymbolsSharedBetweenClasses(t *testing.T) {
	res := compileSource(t, `
		class A { property name; method draw() { } }
		class B { property draw; property name; }
	`)
	require.Empty(t, res.Errors)
	require.Equal(t, []string{"name", "draw"}, res.Image.Symbols)
	require.Equal(t, []uint16{1, 0}, res.Image.Class("B").Properties)
}

func TestMemberAndParameterErrors(t *testing.T) {
	res := compileSource(t, `
		class A { property x; property x; method x() { } method ok() { } }
		class B { method m(this) { } }
		function f(a, b, a) { }
	`)
	require.Equal(t, []errors.ErrorCode{errors.E2005, errors.E2005, errors.E2006, errors.E2006}, errorCodes(res.Errors))

	a := res.Image.Class("A")
	require.Equal(t, []uint16{0}, a.Properties)
	require.Len(t, a.Methods, 1)
	require.Equal(t, "ok", res.Image.SymbolAt(a.Methods[0].Symbol))

	// Declared but never generated.
	require.Len(t, res.Image.Class("B").Methods, 1)
	f := res.Image.Function("f")
	require.NotNil(t, f)
	require.Empty(t, f.Instructions)
}

func TestRecoverableErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.ErrorCode
	}{
		{"call", "f();", errors.E3001},
		{"array", "[1, 2];", errors.E3001},
		{"index", "[1][0];", errors.E3001},
		{"constructor", "new Foo();", errors.E3001},
		{"bound variable", "var x = 1; x;", errors.E3001},
		{"undefined variable", "y;", errors.E2001},
		{"prefix increment", "++y;", errors.E3002},
		{"postfix decrement", "1--;", errors.E3002},
		{"member", "1 .x;", errors.E3002},
		{"scope", "1 :: x;", errors.E3002},
		{"assignment", "var x; x = 1;", errors.E3003},
		{"compound assignment", "var x; x += 1;", errors.E3003},
		{"duplicate local", "var a; var a;", errors.E2004},
		{"duplicate param", "var p;", errors.E2004},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compileSource(t, "function f(p) { return 1; }\nfunction g(p) {\n"+tt.body+"\n}")
			require.Equal(t, []errors.ErrorCode{tt.code}, errorCodes(res.Errors))
			require.Equal(t, 3, res.Errors[0].Line)
			// The failing function is left without code; others compile.
			require.Empty(t, res.Image.Function("g").Instructions)
			require.NotEmpty(t, res.Image.Function("f").Instructions)
		})
	}
}

func TestUndefinedVariableSuggestions(t *testing.T) {
	res := compileSource(t, "function f(count) { var total; totl; }")
	require.Len(t, res.Errors, 1)
	err := res.Errors[0]
	require.Equal(t, errors.E2001, err.Code)
	require.NotEmpty(t, err.Suggestions)
	require.Equal(t, "total", err.Suggestions[0].Value)
}

func TestInnerScopeNotVisibleAfterBlock(t *testing.T) {
	res := compileSource(t, "function f() { { var inner; } inner; }")
	require.Equal(t, []errors.ErrorCode{errors.E2001}, errorCodes(res.Errors))
}

func TestTooManyLocalsError(t *testing.T) {
	var b strings.Builder
	for i := 0; i <= MaxPrologueCount; i++ {
		fmt.Fprintf(&b, "var v%d;\n", i)
	}
	res := compileSource(t, "function big() {\n"+b.String()+"}")
	require.Equal(t, []errors.ErrorCode{errors.E2007}, errorCodes(res.Errors))
	require.Equal(t, 1, res.Errors[0].Line)
}

func TestBranchOutOfRange(t *testing.T) {
	body := strings.Repeat("1;\n", 11000) // 3 bytes each
	res := compileSource(t, "function f() {\nwhile (true) {\n"+body+"}\n}")
	require.Equal(t, []errors.ErrorCode{errors.E2008}, errorCodes(res.Errors))
	require.Equal(t, 2, res.Errors[0].Line)
}

func TestInvalidStatementIsFatal(t *testing.T) {
	unit := &ast.Unit{Functions: []*ast.Subroutine{{
		Keyword: token.Token{Type: token.FUNCTION, Literal: "function"},
		Name:    token.Token{Type: token.IDENT, Literal: "f"},
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.Global{Name: token.Token{Type: token.IDENT, Literal: "g"}},
		}},
	}}}
	_, err := Compile([]*ast.Unit{unit}, nil)
	require.ErrorIs(t, err, ErrInvalidStatement)
}

func TestErrorSourceLines(t *testing.T) {
	source := "function f() {\n  missing;\n}"
	unit := parse(t, "f.lss", source)
	res, err := Compile([]*ast.Unit{unit}, &Config{Sources: map[string]string{"f.lss": source}})
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	require.Equal(t, "  missing;", res.Errors[0].SourceLine)
	require.True(t, res.HasErrors())
	require.Error(t, res.Err())
}

func seedImage() *osi.Image {
	img := osi.NewImage()
	img.Strings = []string{"seeded"}
	img.Symbols = []string{"x"}
	img.Globals = []string{"g"}
	img.Functions = []*osi.FunctionInfo{{
		Name:         "f",
		Instructions: []osi.Instruction{instr(op.PushNothing), instr(op.Return)},
	}}
	img.Classes = []*osi.ClassInfo{{Name: "C", Properties: []uint16{0}}}
	return img
}

func TestSeedImageReused(t *testing.T) {
	seed := seedImage()
	unit := parse(t, "new.lss", `global g; global h; function h() { return "seeded"; } class D { property x; }`)
	res, err := Compile([]*ast.Unit{unit}, &Config{Image: seed})
	require.NoError(t, err)
	require.Empty(t, res.Errors)

	img := res.Image
	require.Equal(t, []string{"g", "h"}, img.Globals)
	require.Equal(t, []string{"seeded"}, img.Strings)
	require.Equal(t, []string{"x"}, img.Symbols)
	require.Equal(t, []uint16{0}, img.Class("D").Properties)
	require.Len(t, img.Functions, 2)

	// The caller's image is untouched.
	require.Equal(t, []string{"g"}, seed.Globals)
	require.Len(t, seed.Functions, 1)
}

func TestSeedCollisionWithoutReplace(t *testing.T) {
	unit := parse(t, "new.lss", `class C { } function f() { return 1; }`)
	res, err := Compile([]*ast.Unit{unit}, &Config{Image: seedImage()})
	require.NoError(t, err)
	require.Equal(t, []errors.ErrorCode{errors.E2002, errors.E2003}, errorCodes(res.Errors))
	require.Equal(t, "declared in the existing image", res.Errors[0].Note)
	require.Equal(t, []osi.Instruction{instr(op.PushNothing), instr(op.Return)},
		res.Image.Function("f").Instructions)
}

func TestReplace(t *testing.T) {
	unit := parse(t, "new.lss", `
		class C { property y; method m() { } }
		function f(a) { return 1; }
	`)
	res, err := Compile([]*ast.Unit{unit}, &Config{Image: seedImage(), Replace: true})
	require.NoError(t, err)
	require.Empty(t, res.Errors)

	img := res.Image
	require.Len(t, img.Functions, 1)
	f := img.Function("f")
	require.Equal(t, uint16(1), f.ParameterCount)
	require.Equal(t, []osi.Instruction{
		instr(op.MemberFunctionArgumentCheck, osi.I8(1)),
		instr(op.PushConstantI8, osi.I8(1)),
		instr(op.Return),
	}, f.Instructions)

	require.Len(t, img.Classes, 1)
	c := img.Class("C")
	require.Equal(t, []uint16{1}, c.Properties)
	require.Len(t, c.Methods, 1)
	require.Equal(t, "m", img.SymbolAt(c.Methods[0].Symbol))
}

func TestReplaceOnlyOnce(t *testing.T) {
	unit := parse(t, "new.lss", `function f() { } function f() { }`)
	res, err := Compile([]*ast.Unit{unit}, &Config{Image: seedImage(), Replace: true})
	require.NoError(t, err)
	require.Equal(t, []errors.ErrorCode{errors.E2003}, errorCodes(res.Errors))
	require.Contains(t, res.Errors[0].Note, "new.lss:1:10")
}

func TestReplaceKeepsInstructionsOnError(t *testing.T) {
	unit := parse(t, "new.lss", `function f() { g(); }`)
	res, err := Compile([]*ast.Unit{unit}, &Config{Image: seedImage(), Replace: true})
	require.NoError(t, err)
	require.Equal(t, []errors.ErrorCode{errors.E3001}, errorCodes(res.Errors))
	require.Equal(t, []osi.Instruction{instr(op.PushNothing), instr(op.Return)},
		res.Image.Function("f").Instructions)
}

func TestReplaceKeepsParameterCountOnError(t *testing.T) {
	base, err := Compile([]*ast.Unit{parse(t, "base.lss", `
		class C { method m() { return; } }
		function f(a) { return 1; }
	`)}, nil)
	require.NoError(t, err)
	require.Empty(t, base.Errors)
	oldF := base.Image.Function("f").Instructions
	oldM := base.Image.Class("C").Methods[0].Instructions

	unit := parse(t, "new.lss", `
		class C { method m(a, b) { g(); } method n() { return 2; } }
		function f(a, b, c) { g(); }
	`)
	res, err := Compile([]*ast.Unit{unit}, &Config{Image: base.Image, Replace: true})
	require.NoError(t, err)
	require.Equal(t, []errors.ErrorCode{errors.E3001, errors.E3001}, errorCodes(res.Errors))

	f := res.Image.Function("f")
	require.Equal(t, uint16(1), f.ParameterCount)
	require.Equal(t, oldF, f.Instructions)

	c := res.Image.Class("C")
	require.Len(t, c.Methods, 2)
	m := c.Methods[0]
	require.Equal(t, "m", res.Image.SymbolAt(m.Symbol))
	require.Equal(t, uint16(1), m.ParameterCount)
	require.Equal(t, oldM, m.Instructions)

	n := c.Methods[1]
	require.Equal(t, uint16(1), n.ParameterCount)
	require.Equal(t, []osi.Instruction{
		instr(op.MemberFunctionArgumentCheck, osi.I8(1)),
		instr(op.PushConstantI8, osi.I8(2)),
		instr(op.Return),
	}, n.Instructions)

	// Once the new bodies compile, the counts follow them.
	fixed := parse(t, "new.lss", `
		class C { method m(a, b) { return; } }
		function f(a, b, c) { return; }
	`)
	res, err = Compile([]*ast.Unit{fixed}, &Config{Image: base.Image, Replace: true})
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Equal(t, uint16(3), res.Image.Function("f").ParameterCount)
	require.Equal(t, instr(op.MemberFunctionArgumentCheck, osi.I8(3)), res.Image.Function("f").Instructions[0])
	require.Equal(t, uint16(3), res.Image.Class("C").Methods[0].ParameterCount)
}

func TestCompileExtendsImage(t *testing.T) {
	c := New(nil)
	res, err := c.Compile(parse(t, "a.lss", "function a() { return \"one\"; }"))
	require.NoError(t, err)
	require.Empty(t, res.Errors)

	res, err = c.Compile(parse(t, "b.lss", "function b() { return \"two\"; } function a() { }"))
	require.NoError(t, err)
	require.Equal(t, []errors.ErrorCode{errors.E2003}, errorCodes(res.Errors))
	require.Equal(t, []string{"one", "two"}, c.Image().Strings)
	require.Len(t, c.Image().Functions, 2)
}
