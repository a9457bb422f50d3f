package compiler

import (
	goerrors "errors"
	"fmt"
	"math"

	"github.com/TheLegendOfMataNui/lss/ast"
	"github.com/TheLegendOfMataNui/lss/errors"
	"github.com/TheLegendOfMataNui/lss/internal/token"
	"github.com/TheLegendOfMataNui/lss/op"
	"github.com/TheLegendOfMataNui/lss/osi"
)

// binaryOps maps infix operator tokens to the opcodes that implement them.
var binaryOps = map[token.Type][]op.Code{
	token.AMPERSAND: {op.BitwiseAnd},
	token.AND:       {op.And},
	token.ASTERISK:  {op.Multiply},
	token.CARET:     {op.Power},
	token.MINUS:     {op.Subtract},
	token.EQ:        {op.EqualTo},
	token.NOT_EQ:    {op.EqualTo, op.Not},
	token.GT:        {op.GreaterThan},
	token.GT_EQUALS: {op.GreaterOrEqual},
	token.GT_GT:     {op.ShiftRight},
	token.LT:        {op.LessThan},
	token.LT_EQUALS: {op.LessOrEqual},
	token.LT_LT:     {op.ShiftLeft},
	token.HASH:      {op.BitwiseXor},
	token.MOD:       {op.Modulus},
	token.PIPE:      {op.BitwiseOr},
	token.OR:        {op.Or},
	token.PLUS:      {op.Add},
	token.SLASH:     {op.Divide},
}

// exprGenerator emits the code that leaves the value of an expression on top
// of the stack.
type exprGenerator struct {
	ctx *Context
}

// GenerateExpr appends the code for x to ctx and returns its size in bytes.
func GenerateExpr(ctx *Context, x ast.Expr) (uint32, error) {
	start := ctx.Size()
	if err := x.Accept(&exprGenerator{ctx: ctx}); err != nil {
		return 0, err
	}
	return ctx.Size() - start, nil
}

func (g *exprGenerator) emit(code op.Code, operands ...osi.Operand) error {
	_, err := g.ctx.Emit(code, operands...)
	return err
}

func (g *exprGenerator) VisitBinary(x *ast.Binary) error {
	switch x.Op.Type {
	case token.PERIOD, token.PERIOD_DOL, token.COLON_COLON, token.COLON_COLON_DOL:
		return unsupported(errors.E3002, x.Op, "operator %q is not supported yet", x.Op.Literal)
	}
	codes, ok := binaryOps[x.Op.Type]
	if !ok {
		return fmt.Errorf("%w: binary %q", ErrUnknownOperator, x.Op.Literal)
	}
	if err := x.Left.Accept(g); err != nil {
		return err
	}
	if err := x.Right.Accept(g); err != nil {
		return err
	}
	for _, code := range codes {
		if err := g.emit(code); err != nil {
			return err
		}
	}
	return nil
}

func (g *exprGenerator) VisitUnary(x *ast.Unary) error {
	var code op.Code
	switch x.Op.Type {
	case token.PLUS_PLUS, token.MINUS_MINUS:
		return unsupported(errors.E3002, x.Op, "operator %q is not supported yet", x.Op.Literal)
	case token.BANG:
		code = op.Not
	case token.TILDE:
		code = op.BitwiseNot
	case token.MINUS:
		// Negation is multiplication by -1.
		if err := x.X.Accept(g); err != nil {
			return err
		}
		if err := g.emit(op.PushConstantI8, osi.I8(-1)); err != nil {
			return err
		}
		return g.emit(op.Multiply)
	default:
		return fmt.Errorf("%w: unary %q", ErrUnknownOperator, x.Op.Literal)
	}
	if err := x.X.Accept(g); err != nil {
		return err
	}
	return g.emit(code)
}

func (g *exprGenerator) VisitLiteral(x *ast.Literal) error {
	switch x.Token.Type {
	case token.INT:
		v, err := x.Int()
		if err != nil {
			return errors.Errorf(errors.E1008, x.Token, "%s", err.Error())
		}
		return g.emitInt(v)
	case token.FLOAT:
		v, err := x.Float()
		if err != nil {
			return errors.Errorf(errors.E1008, x.Token, "%s", err.Error())
		}
		return g.emit(op.PushConstantF32, osi.F32(v))
	case token.TRUE:
		return g.emit(op.PushConstantI8, osi.I8(1))
	case token.FALSE:
		return g.emit(op.PushConstant0)
	case token.STRING:
		index, err := g.ctx.universe.InternString(x.Str())
		if goerrors.Is(err, errTableFull) {
			return errors.Errorf(errors.E2009, x.Token, "string table is full (more than %d entries)", math.MaxUint16+1)
		}
		if err != nil {
			return err
		}
		return g.emit(op.PushConstantString, osi.U16(index))
	default:
		return unsupported(errors.E3001, x.Token, "literal %s is not supported", x.Token.Literal)
	}
}

// emitInt pushes v with the narrowest encoding that holds it.
func (g *exprGenerator) emitInt(v int32) error {
	switch {
	case v == 0:
		return g.emit(op.PushConstant0)
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return g.emit(op.PushConstantI8, osi.I8(int8(v)))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return g.emit(op.PushConstantI16, osi.I16(int16(v)))
	default:
		return g.emit(op.PushConstantI32, osi.I32(v))
	}
}

func (g *exprGenerator) VisitGrouping(x *ast.Grouping) error {
	return x.X.Accept(g)
}

// VisitVariable resolves the name first so that misspelled names get the
// more useful diagnostic; reading a bound variable is not supported yet.
func (g *exprGenerator) VisitVariable(x *ast.Variable) error {
	name := x.Name.Literal
	if _, ok := g.ctx.Lookup(name); ok {
		return unsupported(errors.E3001, x.Name, "reading variable %q is not supported yet", name)
	}
	err := errors.Errorf(errors.E2001, x.Name, "undefined variable %q", name)
	err.Suggestions = errors.SuggestSimilar(name, g.ctx.VisibleNames())
	return err
}

func (g *exprGenerator) VisitCall(x *ast.Call) error {
	return unsupportedNode(x, "function calls are not supported yet")
}

func (g *exprGenerator) VisitArrayAccess(x *ast.ArrayAccess) error {
	return unsupportedNode(x, "array indexing is not supported yet")
}

func (g *exprGenerator) VisitArray(x *ast.Array) error {
	return unsupportedNode(x, "array literals are not supported yet")
}

func (g *exprGenerator) VisitConstructor(x *ast.Constructor) error {
	return unsupportedNode(x, "constructing %s is not supported yet", x.Class.Literal)
}

func unsupported(code errors.ErrorCode, tok token.Token, format string, args ...any) *errors.CompileError {
	return errors.Errorf(code, tok, format, args...)
}

func unsupportedNode(n ast.Node, format string, args ...any) *errors.CompileError {
	return nodeError(errors.E3001, n, format, args...)
}

func nodeError(code errors.ErrorCode, n ast.Node, format string, args ...any) *errors.CompileError {
	pos := n.Pos()
	return errors.At(code, pos, n.End().Char-pos.Char, fmt.Sprintf(format, args...))
}
