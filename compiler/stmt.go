package compiler

import (
	goerrors "errors"
	"fmt"

	"github.com/TheLegendOfMataNui/lss/ast"
	"github.com/TheLegendOfMataNui/lss/errors"
	"github.com/TheLegendOfMataNui/lss/op"
	"github.com/TheLegendOfMataNui/lss/osi"
)

// stmtGenerator emits the code for statements inside a subroutine body.
type stmtGenerator struct {
	ctx  *Context
	expr *exprGenerator
}

// GenerateStmt appends the code for s to ctx and returns its size in bytes.
func GenerateStmt(ctx *Context, s ast.Stmt) (uint32, error) {
	start := ctx.Size()
	g := &stmtGenerator{ctx: ctx, expr: &exprGenerator{ctx: ctx}}
	if err := s.Accept(g); err != nil {
		return 0, err
	}
	return ctx.Size() - start, nil
}

func (g *stmtGenerator) gen(s ast.Stmt) (uint32, error) {
	start := g.ctx.Size()
	if err := s.Accept(g); err != nil {
		return 0, err
	}
	return g.ctx.Size() - start, nil
}

func (g *stmtGenerator) genExpr(x ast.Expr) error {
	return x.Accept(g.expr)
}

func (g *stmtGenerator) VisitBlock(s *ast.Block) error {
	if err := g.ctx.EnterScope(); err != nil {
		return err
	}
	for _, stmt := range s.Stmts {
		if _, err := g.gen(stmt); err != nil {
			return err
		}
	}
	return g.ctx.LeaveScope()
}

func (g *stmtGenerator) VisitClass(s *ast.Class) error {
	return invalidStatement(s, "class")
}

func (g *stmtGenerator) VisitProperty(s *ast.Property) error {
	return invalidStatement(s, "property")
}

func (g *stmtGenerator) VisitSubroutine(s *ast.Subroutine) error {
	return invalidStatement(s, s.Keyword.Literal)
}

func (g *stmtGenerator) VisitGlobal(s *ast.Global) error {
	return invalidStatement(s, "global")
}

func invalidStatement(s ast.Stmt, kind string) error {
	pos := s.Pos()
	return fmt.Errorf("%w: %s declaration at %s", ErrInvalidStatement, kind, formatPosition(pos))
}

func (g *stmtGenerator) VisitExprStmt(s *ast.ExprStmt) error {
	if err := g.genExpr(s.X); err != nil {
		return err
	}
	_, err := g.ctx.Emit(op.Pop)
	return err
}

func (g *stmtGenerator) VisitReturn(s *ast.Return) error {
	if s.Value != nil {
		if err := g.genExpr(s.Value); err != nil {
			return err
		}
	} else if _, err := g.ctx.Emit(op.PushNothing); err != nil {
		return err
	}
	_, err := g.ctx.Emit(op.Return)
	return err
}

// VisitIf emits
//
//	cond; COMPARE_AND_BRANCH_IF_FALSE end; body; [BRANCH_ALWAYS skip; else;]
//
// with both offsets measured from the end of their branch instruction. An If
// without a condition is the final else of a chain.
func (g *stmtGenerator) VisitIf(s *ast.If) error {
	if s.Cond == nil {
		_, err := g.gen(s.Body)
		return err
	}
	if err := g.genExpr(s.Cond); err != nil {
		return err
	}
	cond, err := g.ctx.EmitBranch(op.CompareAndBranchIfFalse, Forward)
	if err != nil {
		return err
	}
	bodySize, err := g.gen(s.Body)
	if err != nil {
		return err
	}
	if s.Else != nil {
		skip, err := g.ctx.EmitBranch(op.BranchAlways, Forward)
		if err != nil {
			return err
		}
		bodySize += osi.NewInstruction(op.BranchAlways, osi.I16(0)).Size()
		elseSize, err := g.gen(s.Else)
		if err != nil {
			return err
		}
		if err := g.resolve(s, skip, int(elseSize)); err != nil {
			return err
		}
	}
	return g.resolve(s, cond, int(bodySize))
}

// VisitWhile emits
//
//	top: cond; COMPARE_AND_BRANCH_IF_FALSE end; body; BRANCH_ALWAYS top; end:
func (g *stmtGenerator) VisitWhile(s *ast.While) error {
	top := g.ctx.Size()
	if err := g.genExpr(s.Cond); err != nil {
		return err
	}
	exit, err := g.ctx.EmitBranch(op.CompareAndBranchIfFalse, Forward)
	if err != nil {
		return err
	}
	bodyStart := g.ctx.Size()
	if _, err := g.gen(s.Body); err != nil {
		return err
	}
	back, err := g.ctx.EmitBranch(op.BranchAlways, Backward)
	if err != nil {
		return err
	}
	end := g.ctx.Size()
	if err := g.resolve(s, back, -int(end-top)); err != nil {
		return err
	}
	return g.resolve(s, exit, int(end-bodyStart))
}

func (g *stmtGenerator) resolve(s ast.Stmt, p Patch, offset int) error {
	err := g.ctx.Resolve(p, offset)
	if goerrors.Is(err, errBranchRange) {
		return errors.At(errors.E2008, s.Pos(), 0, fmt.Sprintf("branch offset %d does not fit in 16 bits", offset))
	}
	return err
}

func (g *stmtGenerator) VisitAssign(s *ast.Assign) error {
	return errors.Errorf(errors.E3003, s.Op, "assignment is not supported yet")
}

func (g *stmtGenerator) VisitVar(s *ast.Var) error {
	slot, err := g.ctx.AddLocal(s.Name.Literal)
	if goerrors.Is(err, errDuplicateLocal) {
		return errors.Errorf(errors.E2004, s.Name, "variable %q is already declared in this scope", s.Name.Literal)
	}
	if err != nil {
		return err
	}
	if s.Value == nil {
		return nil
	}
	if err := g.genExpr(s.Value); err != nil {
		return err
	}
	_, err = g.ctx.Emit(op.SetVariableValue, osi.U16(slot))
	return err
}
