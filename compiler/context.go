package compiler

import (
	"fmt"
	"math"

	"github.com/TheLegendOfMataNui/lss/op"
	"github.com/TheLegendOfMataNui/lss/osi"
)

// MaxPrologueCount is the largest parameter count, and the largest number of
// extra locals, that fits the 8-bit prologue operands.
const MaxPrologueCount = math.MaxInt8

// PatchDirection tells which way a branch jumps once resolved.
type PatchDirection int

const (
	// Forward branches skip code that follows them.
	Forward PatchDirection = iota
	// Backward branches jump to code that precedes them.
	Backward
)

func (d PatchDirection) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Patch identifies a pending branch emitted by EmitBranch.
type Patch int

type patchSite struct {
	index     int // instruction index of the branch
	direction PatchDirection
	resolved  bool
}

// Context is the compile state of one subroutine body. A Context is Open
// until Finalize is called and Finalized afterwards; every mutating method
// returns ErrFinalized once it is finalized.
type Context struct {
	name         string
	universe     *Universe
	instructions []osi.Instruction
	size         uint32
	scopes       scopeArena
	paramCount   int
	localCount   int
	patches      []patchSite
	finalized    bool
}

// NewContext returns an Open context for a subroutine whose parameters occupy
// the first slots, in order.
func NewContext(name string, u *Universe, params []string) (*Context, error) {
	c := &Context{
		name:     name,
		universe: u,
		scopes:   newScopeArena(),
	}
	for _, p := range params {
		if _, err := c.AddLocal(p); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p, err)
		}
	}
	c.paramCount = c.localCount
	return c, nil
}

// Name returns the subroutine name the context was created for.
func (c *Context) Name() string {
	return c.name
}

// Size returns the byte length of the instructions emitted so far.
func (c *Context) Size() uint32 {
	return c.size
}

// ParamCount returns the number of parameter slots.
func (c *Context) ParamCount() int {
	return c.paramCount
}

// LocalCount returns the number of slots allocated, parameters included.
func (c *Context) LocalCount() int {
	return c.localCount
}

// IsFinalized reports whether Finalize has been called.
func (c *Context) IsFinalized() bool {
	return c.finalized
}

// Instructions returns the instructions emitted so far. After Finalize this
// includes the prologue.
func (c *Context) Instructions() []osi.Instruction {
	return c.instructions
}

// Emit appends an instruction and returns its index.
func (c *Context) Emit(code op.Code, operands ...osi.Operand) (int, error) {
	if c.finalized {
		return 0, ErrFinalized
	}
	instr := osi.NewInstruction(code, operands...)
	c.instructions = append(c.instructions, instr)
	c.size += instr.Size()
	return len(c.instructions) - 1, nil
}

// EmitBranch appends a branch with a placeholder offset and records a
// pending patch site for it.
func (c *Context) EmitBranch(code op.Code, direction PatchDirection) (Patch, error) {
	if !op.IsBranch(code) {
		return 0, fmt.Errorf("%w: %s is not a branch", ErrBadPatch, op.GetInfo(code).Name)
	}
	index, err := c.Emit(code, osi.I16(0))
	if err != nil {
		return 0, err
	}
	c.patches = append(c.patches, patchSite{index: index, direction: direction})
	return Patch(len(c.patches) - 1), nil
}

// Resolve writes the byte offset of a pending branch. Each patch is
// resolved exactly once.
func (c *Context) Resolve(p Patch, offset int) error {
	if c.finalized {
		return ErrFinalized
	}
	if int(p) < 0 || int(p) >= len(c.patches) {
		return fmt.Errorf("%w: no patch site %d", ErrBadPatch, p)
	}
	site := &c.patches[p]
	if site.resolved {
		return fmt.Errorf("%w: patch site %d already resolved", ErrBadPatch, p)
	}
	if site.direction == Forward && offset < 0 || site.direction == Backward && offset > 0 {
		return fmt.Errorf("%w: %s branch with offset %d", ErrBadPatch, site.direction, offset)
	}
	if offset < math.MinInt16 || offset > math.MaxInt16 {
		return fmt.Errorf("%w: %d", errBranchRange, offset)
	}
	c.instructions[site.index].Operands[0] = osi.I16(int16(offset))
	site.resolved = true
	return nil
}

// Pending returns the number of unresolved patch sites.
func (c *Context) Pending() int {
	n := 0
	for _, site := range c.patches {
		if !site.resolved {
			n++
		}
	}
	return n
}

// EnterScope pushes a new innermost scope.
func (c *Context) EnterScope() error {
	if c.finalized {
		return ErrFinalized
	}
	c.scopes.enter()
	return nil
}

// LeaveScope pops the innermost scope.
func (c *Context) LeaveScope() error {
	if c.finalized {
		return ErrFinalized
	}
	if !c.scopes.leave() {
		return ErrBaseScope
	}
	return nil
}

// AddLocal binds name in the current scope to the next free slot. Slots are
// never reused, even after the scope that declared them is left.
func (c *Context) AddLocal(name string) (uint16, error) {
	if c.finalized {
		return 0, ErrFinalized
	}
	if c.scopes.declaredInCurrent(name) {
		return 0, errDuplicateLocal
	}
	slot := uint16(c.localCount)
	c.scopes.bind(name, slot)
	c.localCount++
	return slot, nil
}

// Lookup resolves name through the active scope chain.
func (c *Context) Lookup(name string) (uint16, bool) {
	return c.scopes.lookup(name)
}

// VisibleNames returns the sorted names reachable from the current scope.
func (c *Context) VisibleNames() []string {
	return c.scopes.visible()
}

// ScopeDepth returns the number of active scopes, the base scope included.
func (c *Context) ScopeDepth() int {
	return c.scopes.depth()
}

// Finalize prepends the prologue and moves the context to the Finalized
// state. The prologue is an argument count check when the subroutine has
// parameters, followed by a stack reservation when it declared locals
// beyond its parameters.
func (c *Context) Finalize() ([]osi.Instruction, error) {
	if c.finalized {
		return nil, ErrFinalized
	}
	if n := c.Pending(); n > 0 {
		return nil, fmt.Errorf("%w: %d branch(es) in %s", ErrUnresolvedPatch, n, c.name)
	}
	extra := c.localCount - c.paramCount
	if c.paramCount > MaxPrologueCount || extra > MaxPrologueCount {
		return nil, errTooManyLocals
	}
	var prologue []osi.Instruction
	if c.paramCount > 0 {
		prologue = append(prologue, osi.NewInstruction(op.MemberFunctionArgumentCheck, osi.I8(int8(c.paramCount))))
	}
	if extra > 0 {
		prologue = append(prologue, osi.NewInstruction(op.CreateStackVariables, osi.I8(int8(extra))))
	}
	instructions := append(prologue, c.instructions...)
	c.instructions = instructions
	c.size = osi.TotalSize(instructions)
	c.finalized = true
	return instructions, nil
}
