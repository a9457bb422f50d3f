// Package ast defines the abstract syntax tree representation of LSS code.
//
// The set of node types is closed. Every expression implements Expr and
// dispatches through ExprVisitor, and every statement implements Stmt and
// dispatches through StmtVisitor. Adding a node type means adding a method
// to the matching visitor interface, so every generator that implements it
// stops compiling until the new case is handled.
package ast

import "github.com/TheLegendOfMataNui/lss/internal/token"

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Expr represents an expression node.
type Expr interface {
	Node
	Accept(v ExprVisitor) error
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	Accept(v StmtVisitor) error
}

// ExprVisitor handles each expression node type.
type ExprVisitor interface {
	VisitBinary(x *Binary) error
	VisitUnary(x *Unary) error
	VisitLiteral(x *Literal) error
	VisitGrouping(x *Grouping) error
	VisitVariable(x *Variable) error
	VisitCall(x *Call) error
	VisitArrayAccess(x *ArrayAccess) error
	VisitArray(x *Array) error
	VisitConstructor(x *Constructor) error
}

// StmtVisitor handles each statement node type.
type StmtVisitor interface {
	VisitBlock(s *Block) error
	VisitClass(s *Class) error
	VisitProperty(s *Property) error
	VisitSubroutine(s *Subroutine) error
	VisitGlobal(s *Global) error
	VisitExprStmt(s *ExprStmt) error
	VisitReturn(s *Return) error
	VisitIf(s *If) error
	VisitWhile(s *While) error
	VisitAssign(s *Assign) error
	VisitVar(s *Var) error
}

// Unit is the result of parsing one source file: its top-level declarations
// in source order.
type Unit struct {
	Filename  string
	Classes   []*Class
	Functions []*Subroutine
	Globals   []*Global
}
