package compiler

import goerrors "errors"

// Programmer errors. These indicate a bug in the caller or in the compiler,
// not a property of the program being compiled, and abort compilation.
var (
	// ErrFinalized is returned when a finalized Context is modified.
	ErrFinalized = goerrors.New("subroutine context is finalized")

	// ErrBaseScope is returned when leaving the base scope of a subroutine.
	ErrBaseScope = goerrors.New("cannot leave the base subroutine scope")

	// ErrInvalidStatement is returned when a declaration statement appears
	// inside a subroutine body.
	ErrInvalidStatement = goerrors.New("statement not allowed in a subroutine body")

	// ErrUnresolvedPatch is returned when a Context is finalized while a
	// branch still waits for its offset.
	ErrUnresolvedPatch = goerrors.New("unresolved branch patch")

	// ErrBadPatch is returned when a patch site is resolved twice or with an
	// offset pointing the wrong way.
	ErrBadPatch = goerrors.New("invalid branch patch")

	// ErrUnknownOperator is returned for an operator token that has no
	// opcode mapping.
	ErrUnknownOperator = goerrors.New("unknown operator")
)

// Conditions reported to the generators, which turn them into located
// compile errors.
var (
	errDuplicateLocal = goerrors.New("duplicate local")
	errBranchRange    = goerrors.New("branch offset out of range")
	errTableFull      = goerrors.New("table index out of range")
	errTooManyLocals  = goerrors.New("too many local variables")
)
