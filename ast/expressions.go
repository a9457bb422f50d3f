package ast

import (
	"strings"

	"github.com/TheLegendOfMataNui/lss/internal/token"
)

// Binary is an infix operator expression such as "a + b". Member access and
// scope resolution ("a.b", "a::b") are also represented as Binary.
type Binary struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (x *Binary) Accept(v ExprVisitor) error { return v.VisitBinary(x) }

func (x *Binary) Pos() token.Position { return x.Left.Pos() }
func (x *Binary) End() token.Position { return x.Right.End() }

func (x *Binary) String() string {
	switch x.Op.Type {
	case token.PERIOD, token.PERIOD_DOL, token.COLON_COLON, token.COLON_COLON_DOL:
		return x.Left.String() + x.Op.Literal + x.Right.String()
	}
	return "(" + x.Left.String() + " " + x.Op.Literal + " " + x.Right.String() + ")"
}

// Unary is a prefix or postfix operator expression such as "-x" or "i++".
type Unary struct {
	Op     token.Token
	X      Expr
	Prefix bool
}

func (x *Unary) Accept(v ExprVisitor) error { return v.VisitUnary(x) }

func (x *Unary) Pos() token.Position {
	if x.Prefix {
		return x.Op.StartPosition
	}
	return x.X.Pos()
}

func (x *Unary) End() token.Position {
	if x.Prefix {
		return x.X.End()
	}
	return x.Op.EndPosition
}

func (x *Unary) String() string {
	if x.Prefix {
		return "(" + x.Op.Literal + x.X.String() + ")"
	}
	return "(" + x.X.String() + x.Op.Literal + ")"
}

// Literal is an integer, float, string or boolean constant. The token keeps
// the exact source text.
type Literal struct {
	Token token.Token
}

func (x *Literal) Accept(v ExprVisitor) error { return v.VisitLiteral(x) }

func (x *Literal) Pos() token.Position { return x.Token.StartPosition }
func (x *Literal) End() token.Position { return x.Token.EndPosition }
func (x *Literal) String() string      { return x.Token.Literal }

// Grouping is a parenthesized expression.
type Grouping struct {
	Lparen token.Position
	X      Expr
	Rparen token.Position
}

func (x *Grouping) Accept(v ExprVisitor) error { return v.VisitGrouping(x) }

func (x *Grouping) Pos() token.Position { return x.Lparen }
func (x *Grouping) End() token.Position { return x.Rparen }
func (x *Grouping) String() string      { return "(" + x.X.String() + ")" }

// Variable is a reference to a name.
type Variable struct {
	Name token.Token
}

func (x *Variable) Accept(v ExprVisitor) error { return v.VisitVariable(x) }

func (x *Variable) Pos() token.Position { return x.Name.StartPosition }
func (x *Variable) End() token.Position { return x.Name.EndPosition }
func (x *Variable) String() string      { return x.Name.Literal }

// Call is a function or method call such as "f(a, b)".
type Call struct {
	Fn     Expr
	Lparen token.Position
	Args   []Expr
	Rparen token.Position
}

func (x *Call) Accept(v ExprVisitor) error { return v.VisitCall(x) }

func (x *Call) Pos() token.Position { return x.Fn.Pos() }
func (x *Call) End() token.Position { return x.Rparen }

func (x *Call) String() string {
	return x.Fn.String() + "(" + joinExprs(x.Args) + ")"
}

// ArrayAccess is an index expression such as "a[i]".
type ArrayAccess struct {
	X      Expr
	Lbrack token.Position
	Index  Expr
	Rbrack token.Position
}

func (x *ArrayAccess) Accept(v ExprVisitor) error { return v.VisitArrayAccess(x) }

func (x *ArrayAccess) Pos() token.Position { return x.X.Pos() }
func (x *ArrayAccess) End() token.Position { return x.Rbrack }

func (x *ArrayAccess) String() string {
	return x.X.String() + "[" + x.Index.String() + "]"
}

// Array is an array literal such as "[1, 2, 3]".
type Array struct {
	Lbrack token.Position
	Items  []Expr
	Rbrack token.Position
}

func (x *Array) Accept(v ExprVisitor) error { return v.VisitArray(x) }

func (x *Array) Pos() token.Position { return x.Lbrack }
func (x *Array) End() token.Position { return x.Rbrack }
func (x *Array) String() string      { return "[" + joinExprs(x.Items) + "]" }

// Constructor instantiates a class: "new Point(1, 2)".
type Constructor struct {
	New    token.Position
	Class  token.Token
	Args   []Expr
	Rparen token.Position
}

func (x *Constructor) Accept(v ExprVisitor) error { return v.VisitConstructor(x) }

func (x *Constructor) Pos() token.Position { return x.New }
func (x *Constructor) End() token.Position { return x.Rparen }

func (x *Constructor) String() string {
	return "new " + x.Class.Literal + "(" + joinExprs(x.Args) + ")"
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
