package ast

import (
	"strings"

	"github.com/TheLegendOfMataNui/lss/internal/token"
)

// Block is a brace-delimited list of statements.
type Block struct {
	Lbrace token.Position
	Stmts  []Stmt
	Rbrace token.Position // position after the closing brace
}

func (s *Block) Accept(v StmtVisitor) error { return v.VisitBlock(s) }

func (s *Block) Pos() token.Position { return s.Lbrace }
func (s *Block) End() token.Position { return s.Rbrace }

func (s *Block) String() string {
	var b strings.Builder
	b.WriteString("{")
	for _, stmt := range s.Stmts {
		b.WriteString(" ")
		b.WriteString(stmt.String())
	}
	b.WriteString(" }")
	return b.String()
}

// Class declares a class with its properties and methods.
type Class struct {
	Class      token.Position
	Name       token.Token
	Properties []*Property
	Methods    []*Subroutine
	Rbrace     token.Position
}

func (s *Class) Accept(v StmtVisitor) error { return v.VisitClass(s) }

func (s *Class) Pos() token.Position { return s.Class }
func (s *Class) End() token.Position { return s.Rbrace }

func (s *Class) String() string {
	var b strings.Builder
	b.WriteString("class ")
	b.WriteString(s.Name.Literal)
	b.WriteString(" {")
	for _, p := range s.Properties {
		b.WriteString(" ")
		b.WriteString(p.String())
	}
	for _, m := range s.Methods {
		b.WriteString(" ")
		b.WriteString(m.String())
	}
	b.WriteString(" }")
	return b.String()
}

// Property declares a class property.
type Property struct {
	Property  token.Position
	Name      token.Token
	Semicolon token.Position
}

func (s *Property) Accept(v StmtVisitor) error { return v.VisitProperty(s) }

func (s *Property) Pos() token.Position { return s.Property }
func (s *Property) End() token.Position { return s.Semicolon }
func (s *Property) String() string      { return "property " + s.Name.Literal + ";" }

// Subroutine declares a function or a class method.
type Subroutine struct {
	Keyword token.Token // "function" or "method"
	Name    token.Token
	Params  []token.Token
	Body    *Block
}

func (s *Subroutine) Accept(v StmtVisitor) error { return v.VisitSubroutine(s) }

func (s *Subroutine) Pos() token.Position { return s.Keyword.StartPosition }
func (s *Subroutine) End() token.Position { return s.Body.End() }

// IsMethod reports whether the subroutine was declared inside a class.
func (s *Subroutine) IsMethod() bool { return s.Keyword.Type == token.METHOD }

// ParamNames returns the parameter names in declaration order.
func (s *Subroutine) ParamNames() []string {
	names := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		names = append(names, p.Literal)
	}
	return names
}

func (s *Subroutine) String() string {
	return s.Keyword.Literal + " " + s.Name.Literal +
		"(" + strings.Join(s.ParamNames(), ", ") + ") " + s.Body.String()
}

// Global declares a global variable.
type Global struct {
	Global    token.Position
	Name      token.Token
	Semicolon token.Position
}

func (s *Global) Accept(v StmtVisitor) error { return v.VisitGlobal(s) }

func (s *Global) Pos() token.Position { return s.Global }
func (s *Global) End() token.Position { return s.Semicolon }
func (s *Global) String() string      { return "global " + s.Name.Literal + ";" }

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	X         Expr
	Semicolon token.Position
}

func (s *ExprStmt) Accept(v StmtVisitor) error { return v.VisitExprStmt(s) }

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }
func (s *ExprStmt) End() token.Position { return s.Semicolon }
func (s *ExprStmt) String() string      { return s.X.String() + ";" }

// Return returns from the enclosing subroutine. Value is nil for a bare
// "return;".
type Return struct {
	Return    token.Position
	Value     Expr
	Semicolon token.Position
}

func (s *Return) Accept(v StmtVisitor) error { return v.VisitReturn(s) }

func (s *Return) Pos() token.Position { return s.Return }
func (s *Return) End() token.Position { return s.Semicolon }

func (s *Return) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// If is a conditional. An If with a nil Cond is the body of a bare "else"
// and runs unconditionally. Else is nil when there is no else branch.
type If struct {
	If   token.Position
	Cond Expr
	Body Stmt
	Else Stmt
}

func (s *If) Accept(v StmtVisitor) error { return v.VisitIf(s) }

func (s *If) Pos() token.Position { return s.If }

func (s *If) End() token.Position {
	if s.Else != nil {
		return s.Else.End()
	}
	return s.Body.End()
}

func (s *If) String() string {
	if s.Cond == nil {
		return s.Body.String()
	}
	out := "if (" + s.Cond.String() + ") " + s.Body.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

// While is a pre-tested loop.
type While struct {
	While token.Position
	Cond  Expr
	Body  Stmt
}

func (s *While) Accept(v StmtVisitor) error { return v.VisitWhile(s) }

func (s *While) Pos() token.Position { return s.While }
func (s *While) End() token.Position { return s.Body.End() }

func (s *While) String() string {
	return "while (" + s.Cond.String() + ") " + s.Body.String()
}

// Assign stores a value into a target: "x = 1", "p.x += 2".
type Assign struct {
	Target    Expr
	Op        token.Token // "=", "+=", "-=", "*=" or "/="
	Value     Expr
	Semicolon token.Position
}

func (s *Assign) Accept(v StmtVisitor) error { return v.VisitAssign(s) }

func (s *Assign) Pos() token.Position { return s.Target.Pos() }
func (s *Assign) End() token.Position { return s.Semicolon }

func (s *Assign) String() string {
	return s.Target.String() + " " + s.Op.Literal + " " + s.Value.String() + ";"
}

// Var declares a local variable with an optional initializer.
type Var struct {
	Var       token.Position
	Name      token.Token
	Value     Expr
	Semicolon token.Position
}

func (s *Var) Accept(v StmtVisitor) error { return v.VisitVar(s) }

func (s *Var) Pos() token.Position { return s.Var }
func (s *Var) End() token.Position { return s.Semicolon }

func (s *Var) String() string {
	if s.Value == nil {
		return "var " + s.Name.Literal + ";"
	}
	return "var " + s.Name.Literal + " = " + s.Value.String() + ";"
}
