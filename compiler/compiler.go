// Package compiler turns parsed LSS units into a linked OSI image.
//
// # Two-Pass Compilation Strategy
//
// Compilation runs in two passes so that subroutines can refer to classes and
// functions declared later in the same file or in another file.
//
// Pass 1: declare
//
// Every class, function and global of every unit is registered in the image
// tables by Universe.Declare. Name collisions are reported here, and every
// subroutine body that should be generated is queued.
//
// Pass 2: generate
//
// Each queued body, in declaration order, is compiled into a fresh Context
// seeded with its parameters. Statements are lowered by the statement
// generator, which delegates expressions to the expression generator. Once
// the body is emitted, all branch patches must be resolved and the Context is
// finalized, which prepends the argument check and stack reservation.
//
// # Errors
//
// Problems with the input program are *errors.CompileError values and are
// collected in Result.Errors. A subroutine stops generating at its first such
// error and keeps whatever instructions its image entry held before. Invariant
// violations inside the compiler itself are returned as the error value of
// Compile and abort the compilation.
package compiler

import (
	goerrors "errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/TheLegendOfMataNui/lss/ast"
	"github.com/TheLegendOfMataNui/lss/errors"
	"github.com/TheLegendOfMataNui/lss/osi"
)

// Compiler links parsed units into one OSI image. Successive calls to Compile
// extend the same image.
type Compiler struct {
	universe *Universe
	logger   zerolog.Logger

	// Source text per filename, used to attach source lines to errors.
	sources map[string]string
}

// Config holds compiler configuration options.
type Config struct {
	// Image is an existing image to compile into. It is copied, never
	// modified. If nil, an empty image with the default version is used.
	Image *osi.Image

	// Replace allows functions and classes that exist only in Image to be
	// redeclared. Without it they collide like any other duplicate.
	Replace bool

	// Logger receives debug output about both passes. Defaults to a
	// disabled logger.
	Logger *zerolog.Logger

	// Sources maps filenames to their source text for error messages.
	Sources map[string]string
}

// Result is the output of one compilation.
type Result struct {
	// Image is the best-effort image, even when Errors is not empty.
	Image *osi.Image

	// Errors lists every recoverable error in the order it was found.
	Errors []*errors.CompileError
}

// HasErrors reports whether any recoverable error was found.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err returns the recoverable errors as a single error, or nil.
func (r *Result) Err() error {
	errs := &errors.CompileErrors{Errors: r.Errors}
	return errs.ToError()
}

// Compile compiles the given units into a new image. Pass nil for cfg to use
// default settings.
func Compile(units []*ast.Unit, cfg *Config) (*Result, error) {
	return New(cfg).Compile(units...)
}

// New creates and returns a new Compiler. Pass nil for cfg to use defaults.
func New(cfg *Config) *Compiler {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	img := osi.NewImage()
	if cfg.Image != nil {
		img = cfg.Image.Clone() // isolate from caller
	}
	sources := make(map[string]string, len(cfg.Sources))
	for name, src := range cfg.Sources {
		sources[name] = src
	}
	return &Compiler{
		universe: NewUniverse(img, cfg.Replace, logger),
		logger:   logger,
		sources:  sources,
	}
}

// Universe returns the symbol space the compiler declares into.
func (c *Compiler) Universe() *Universe {
	return c.universe
}

// Image returns the image being compiled into.
func (c *Compiler) Image() *osi.Image {
	return c.universe.Image()
}

// Compile declares every unit and then generates all queued subroutine
// bodies. The returned error is non-nil only for invariant violations.
func (c *Compiler) Compile(units ...*ast.Unit) (*Result, error) {
	c.logger.Debug().Int("units", len(units)).Msg("declare pass")
	errs := c.universe.Declare(units...)

	pending := c.universe.pending
	c.universe.pending = nil
	c.logger.Debug().Int("subroutines", len(pending)).Msg("generate pass")
	for _, body := range pending {
		err := c.generate(body)
		var compileErr *errors.CompileError
		if goerrors.As(err, &compileErr) {
			c.logger.Debug().Str("subroutine", body.label()).Str("code", string(compileErr.Code)).
				Msg("abandoned subroutine")
			errs = append(errs, compileErr)
		} else if err != nil {
			return nil, fmt.Errorf("compiling %s: %w", body.label(), err)
		}
	}
	for _, err := range errs {
		err.WithSource(c.sources[err.Filename])
	}
	return &Result{Image: c.universe.Image(), Errors: errs}, nil
}

// generate compiles one body and stores its instructions in the image.
func (c *Compiler) generate(body *pendingBody) error {
	ctx, err := NewContext(body.label(), c.universe, body.params)
	if err != nil {
		return err
	}
	// The body shares the base scope with the parameters.
	if body.decl.Body == nil {
		return fmt.Errorf("%w: %s has no body", ErrInvalidStatement, body.label())
	}
	for _, stmt := range body.decl.Body.Stmts {
		if _, err := GenerateStmt(ctx, stmt); err != nil {
			return err
		}
	}
	instructions, err := ctx.Finalize()
	if goerrors.Is(err, errTooManyLocals) {
		return errors.Errorf(errors.E2007, body.decl.Name,
			"%s declares %d parameters and %d locals (at most %d of each)",
			body.label(), ctx.ParamCount(), ctx.LocalCount()-ctx.ParamCount(), MaxPrologueCount)
	}
	if err != nil {
		return err
	}
	params := uint16(len(body.params))
	if body.method != nil {
		body.method.ParameterCount = params
		body.method.Instructions = instructions
	} else {
		body.function.ParameterCount = params
		body.function.Instructions = instructions
	}
	c.logger.Debug().
		Str("subroutine", body.label()).
		Int("instructions", len(instructions)).
		Uint32("size", osi.TotalSize(instructions)).
		Int("locals", ctx.LocalCount()).
		Msg("finalized subroutine")
	return nil
}
