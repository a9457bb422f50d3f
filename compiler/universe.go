package compiler

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/TheLegendOfMataNui/lss/ast"
	"github.com/TheLegendOfMataNui/lss/errors"
	"github.com/TheLegendOfMataNui/lss/internal/token"
	"github.com/TheLegendOfMataNui/lss/osi"
)

// Universe is the fully declared symbol space of one compilation: the image
// tables with every class, function and global of every unit registered,
// plus the subroutine bodies waiting for code generation. It is the value
// handed from the declaration pass to the generation pass.
type Universe struct {
	image   *osi.Image
	replace bool
	logger  zerolog.Logger

	strings   map[string]uint16
	symbols   map[string]uint16
	globals   map[string]uint16
	functions map[string]*osi.FunctionInfo
	classes   map[string]*osi.ClassInfo

	// Names that came from the seed image and have not been redeclared.
	seededFunctions map[string]bool
	seededClasses   map[string]bool

	// Where each name declared in this compilation first appeared.
	functionDecls map[string]token.Position
	classDecls    map[string]token.Position

	pending []*pendingBody
}

// pendingBody is a subroutine body queued for the generation pass.
type pendingBody struct {
	decl     *ast.Subroutine
	params   []string
	class    string
	function *osi.FunctionInfo
	method   *osi.MethodInfo
}

// label returns "name" for functions and "Class.name" for methods.
func (b *pendingBody) label() string {
	if b.class != "" {
		return b.class + "." + b.decl.Name.Literal
	}
	return b.decl.Name.Literal
}

// NewUniverse returns a Universe whose tables start from the contents of img.
// The image is modified in place as names are declared.
func NewUniverse(img *osi.Image, replace bool, logger zerolog.Logger) *Universe {
	u := &Universe{
		image:           img,
		replace:         replace,
		logger:          logger,
		strings:         map[string]uint16{},
		symbols:         map[string]uint16{},
		globals:         map[string]uint16{},
		functions:       map[string]*osi.FunctionInfo{},
		classes:         map[string]*osi.ClassInfo{},
		seededFunctions: map[string]bool{},
		seededClasses:   map[string]bool{},
		functionDecls:   map[string]token.Position{},
		classDecls:      map[string]token.Position{},
	}
	seedIndex(u.strings, img.Strings)
	seedIndex(u.symbols, img.Symbols)
	seedIndex(u.globals, img.Globals)
	for _, fn := range img.Functions {
		if _, ok := u.functions[fn.Name]; !ok {
			u.functions[fn.Name] = fn
			u.seededFunctions[fn.Name] = true
		}
	}
	for _, cls := range img.Classes {
		if _, ok := u.classes[cls.Name]; !ok {
			u.classes[cls.Name] = cls
			u.seededClasses[cls.Name] = true
		}
	}
	return u
}

func seedIndex(index map[string]uint16, values []string) {
	for i, v := range values {
		if _, ok := index[v]; !ok && i <= math.MaxUint16 {
			index[v] = uint16(i)
		}
	}
}

// Image returns the image the Universe declares into.
func (u *Universe) Image() *osi.Image {
	return u.image
}

// InternString returns the index of s in the Strings table, appending it if
// it is not present yet.
func (u *Universe) InternString(s string) (uint16, error) {
	return intern(u.strings, &u.image.Strings, s)
}

// InternSymbol returns the index of name in the Symbols table, appending it
// if it is not present yet.
func (u *Universe) InternSymbol(name string) (uint16, error) {
	return intern(u.symbols, &u.image.Symbols, name)
}

func intern(index map[string]uint16, table *[]string, value string) (uint16, error) {
	if i, ok := index[value]; ok {
		return i, nil
	}
	if len(*table) > math.MaxUint16 {
		return 0, errTableFull
	}
	i := uint16(len(*table))
	*table = append(*table, value)
	index[value] = i
	return i, nil
}

// Global returns the index of a declared global.
func (u *Universe) Global(name string) (uint16, bool) {
	i, ok := u.globals[name]
	return i, ok
}

// Function returns the record of a declared function.
func (u *Universe) Function(name string) (*osi.FunctionInfo, bool) {
	fn, ok := u.functions[name]
	return fn, ok
}

// Class returns the record of a declared class.
func (u *Universe) Class(name string) (*osi.ClassInfo, bool) {
	cls, ok := u.classes[name]
	return cls, ok
}

// Declare registers the classes, functions and globals of every unit. It
// must run over all units before any body is generated so that subroutines
// can refer to names declared later or in other files. A class or function
// name that is already taken is reported and the first declaration is kept;
// a repeated global is silently merged into the existing entry.
func (u *Universe) Declare(units ...*ast.Unit) []*errors.CompileError {
	var errs []*errors.CompileError
	for _, unit := range units {
		for _, cls := range unit.Classes {
			errs = append(errs, u.declareClass(cls)...)
		}
		for _, fn := range unit.Functions {
			errs = append(errs, u.declareFunction(fn)...)
		}
		for _, g := range unit.Globals {
			if err := u.declareGlobal(g); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

func (u *Universe) declareClass(decl *ast.Class) []*errors.CompileError {
	name := decl.Name.Literal
	existing, taken := u.classes[name]
	redeclare := taken && u.replace && u.seededClasses[name]
	if taken && !redeclare {
		return []*errors.CompileError{u.duplicate(errors.E2002, "class", decl.Name, u.classDecls)}
	}
	if member, full := u.symbolOverflow(decl); full {
		return []*errors.CompileError{tableError(member, "symbol")}
	}

	var errs []*errors.CompileError
	var properties []uint16
	var methods []*osi.MethodInfo
	var bodies []*pendingBody
	members := map[string]bool{}
	seeded := map[uint16]*osi.MethodInfo{}
	if redeclare {
		for _, m := range existing.Methods {
			seeded[m.Symbol] = m
		}
	}
	for _, prop := range decl.Properties {
		if members[prop.Name.Literal] {
			errs = append(errs, memberError(decl, prop.Name))
			continue
		}
		members[prop.Name.Literal] = true
		symbol, err := u.InternSymbol(prop.Name.Literal)
		if err != nil {
			return append(errs, tableError(prop.Name, "symbol"))
		}
		properties = append(properties, symbol)
	}
	for _, m := range decl.Methods {
		if members[m.Name.Literal] {
			errs = append(errs, memberError(decl, m.Name))
			continue
		}
		members[m.Name.Literal] = true
		symbol, err := u.InternSymbol(m.Name.Literal)
		if err != nil {
			return append(errs, tableError(m.Name, "symbol"))
		}
		// The receiver occupies slot 0.
		params := append([]string{"this"}, m.ParamNames()...)
		info := &osi.MethodInfo{Symbol: symbol, ParameterCount: uint16(len(params))}
		if prev, ok := seeded[symbol]; ok {
			// Keep the seeded code until the new body compiles.
			info.ParameterCount = prev.ParameterCount
			info.Instructions = prev.Instructions
		}
		methods = append(methods, info)
		if err := checkParams(m); err != nil {
			errs = append(errs, err)
			continue
		}
		bodies = append(bodies, &pendingBody{decl: m, params: params, class: name, method: info})
	}

	if redeclare {
		existing.Properties = properties
		existing.Methods = methods
		delete(u.seededClasses, name)
		u.logger.Debug().Str("class", name).Msg("redeclared seeded class")
	} else {
		u.classes[name] = &osi.ClassInfo{Name: name, Properties: properties, Methods: methods}
		u.image.Classes = append(u.image.Classes, u.classes[name])
		u.logger.Debug().Str("class", name).Int("properties", len(properties)).
			Int("methods", len(methods)).Msg("declared class")
	}
	u.classDecls[name] = decl.Name.StartPosition
	u.pending = append(u.pending, bodies...)
	return errs
}

// symbolOverflow returns the first member of decl whose name would not fit
// in the Symbols table, so a class is rejected before any of its names are
// interned.
func (u *Universe) symbolOverflow(decl *ast.Class) (token.Token, bool) {
	names := make([]token.Token, 0, len(decl.Properties)+len(decl.Methods))
	for _, prop := range decl.Properties {
		names = append(names, prop.Name)
	}
	for _, m := range decl.Methods {
		names = append(names, m.Name)
	}
	free := math.MaxUint16 + 1 - len(u.image.Symbols)
	added := map[string]bool{}
	for _, name := range names {
		if _, ok := u.symbols[name.Literal]; ok || added[name.Literal] {
			continue
		}
		if len(added) >= free {
			return name, true
		}
		added[name.Literal] = true
	}
	return token.Token{}, false
}

func (u *Universe) declareFunction(decl *ast.Subroutine) []*errors.CompileError {
	name := decl.Name.Literal
	existing, taken := u.functions[name]
	redeclare := taken && u.replace && u.seededFunctions[name]
	if taken && !redeclare {
		return []*errors.CompileError{u.duplicate(errors.E2003, "function", decl.Name, u.functionDecls)}
	}

	info := existing
	if redeclare {
		// The parameter count changes with the instructions, once the new
		// body has been generated.
		delete(u.seededFunctions, name)
		u.logger.Debug().Str("function", name).Msg("redeclared seeded function")
	} else {
		info = &osi.FunctionInfo{Name: name, ParameterCount: uint16(len(decl.Params))}
		u.functions[name] = info
		u.image.Functions = append(u.image.Functions, info)
		u.logger.Debug().Str("function", name).Int("params", len(decl.Params)).Msg("declared function")
	}
	u.functionDecls[name] = decl.Name.StartPosition
	if err := checkParams(decl); err != nil {
		return []*errors.CompileError{err}
	}
	u.pending = append(u.pending, &pendingBody{decl: decl, params: decl.ParamNames(), function: info})
	return nil
}

func (u *Universe) declareGlobal(decl *ast.Global) *errors.CompileError {
	name := decl.Name.Literal
	if i, ok := u.globals[name]; ok {
		u.logger.Debug().Str("global", name).Uint16("index", i).Msg("ignoring duplicate global")
		return nil
	}
	if len(u.image.Globals) > math.MaxUint16 {
		return tableError(decl.Name, "global")
	}
	i := uint16(len(u.image.Globals))
	u.image.Globals = append(u.image.Globals, name)
	u.globals[name] = i
	u.logger.Debug().Str("global", name).Uint16("index", i).Msg("declared global")
	return nil
}

func (u *Universe) duplicate(code errors.ErrorCode, kind string, name token.Token, decls map[string]token.Position) *errors.CompileError {
	err := errors.Errorf(code, name, "%s %q is already declared", kind, name.Literal)
	if first, ok := decls[name.Literal]; ok {
		err.Note = fmt.Sprintf("first declared at %s", formatPosition(first))
	} else {
		err.Note = "declared in the existing image"
	}
	return err
}

// checkParams reports the first parameter name that is used twice.
func checkParams(decl *ast.Subroutine) *errors.CompileError {
	seen := map[string]bool{}
	if decl.IsMethod() {
		seen["this"] = true
	}
	for _, p := range decl.Params {
		if seen[p.Literal] {
			return errors.Errorf(errors.E2006, p, "duplicate parameter %q in %s %s",
				p.Literal, decl.Keyword.Literal, decl.Name.Literal)
		}
		seen[p.Literal] = true
	}
	return nil
}

func memberError(decl *ast.Class, name token.Token) *errors.CompileError {
	return errors.Errorf(errors.E2005, name, "class %s already has a member named %q",
		decl.Name.Literal, name.Literal)
}

func tableError(name token.Token, table string) *errors.CompileError {
	return errors.Errorf(errors.E2009, name, "%s table is full (more than %d entries)", table, math.MaxUint16+1)
}

func formatPosition(pos token.Position) string {
	if pos.File != "" {
		return fmt.Sprintf("%s:%d:%d", pos.File, pos.LineNumber(), pos.ColumnNumber())
	}
	return fmt.Sprintf("%d:%d", pos.LineNumber(), pos.ColumnNumber())
}
