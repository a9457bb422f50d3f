// Package lss compiles LSS scripts into OSI images.
//
// Each entry point returns a Result holding the best-effort image and every
// recoverable error found, in order: scan and parse errors first, then
// declaration and code generation errors. A file with scan errors is not
// compiled at all; a file with parse errors still contributes the
// declarations that parsed cleanly. The error return value is reserved for
// failures that prevent compilation entirely, such as unreadable files.
package lss

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/TheLegendOfMataNui/lss/ast"
	"github.com/TheLegendOfMataNui/lss/compiler"
	"github.com/TheLegendOfMataNui/lss/errors"
	"github.com/TheLegendOfMataNui/lss/internal/lexer"
	"github.com/TheLegendOfMataNui/lss/manifest"
	"github.com/TheLegendOfMataNui/lss/osi"
	"github.com/TheLegendOfMataNui/lss/parser"
)

// Result is the output of a compilation.
type Result = compiler.Result

// Compile scans, parses and compiles a single source text.
func Compile(source string, opts ...Option) (*Result, error) {
	o := collectOptions(opts...)
	return compileSources([]sourceFile{{name: o.filename, text: source}}, o)
}

// CompileFiles reads, scans and parses every file before compiling them
// together, so that functions and classes can be shared across files. If any
// file cannot be read, all read failures are returned and nothing is
// compiled.
func CompileFiles(paths []string, opts ...Option) (*Result, error) {
	o := collectOptions(opts...)
	var readErr *multierror.Error
	files := make([]sourceFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			readErr = multierror.Append(readErr, err)
			continue
		}
		files = append(files, sourceFile{name: path, text: string(data)})
	}
	if err := readErr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return compileSources(files, o)
}

// CompileParsed compiles a unit that was already parsed.
func CompileParsed(unit *ast.Unit, opts ...Option) (*Result, error) {
	o := collectOptions(opts...)
	res, err := compiler.Compile([]*ast.Unit{unit}, o.compilerConfig(nil))
	if err != nil {
		return nil, err
	}
	o.applyVersion(res.Image)
	return res, nil
}

// CompileProject compiles the sources of a project manifest, seeding from its
// seed image when one is configured. Options override the manifest.
func CompileProject(m *manifest.Manifest, opts ...Option) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	paths, err := m.SourceFiles()
	if err != nil {
		return nil, err
	}
	major, minor := m.Version()
	base := []Option{WithVersion(major, minor), WithReplace(m.Image.Replace)}
	if seed := m.SeedPath(); seed != "" {
		img, err := LoadImage(seed)
		if err != nil {
			return nil, err
		}
		base = append(base, WithImage(img))
	}
	return CompileFiles(paths, append(base, opts...)...)
}

type sourceFile struct {
	name string
	text string
}

func compileSources(files []sourceFile, o *options) (*Result, error) {
	var syntaxErrs []*errors.CompileError
	var units []*ast.Unit
	sources := make(map[string]string, len(files))
	for _, f := range files {
		sources[f.name] = f.text
		tokens, scanErrs := lexer.Scan(f.text, lexer.WithFilename(f.name))
		if len(scanErrs) > 0 {
			syntaxErrs = append(syntaxErrs, scanErrs...)
			continue
		}
		unit, parseErrs := parser.Parse(tokens, parser.WithFilename(f.name), parser.WithSource(f.text))
		syntaxErrs = append(syntaxErrs, parseErrs...)
		units = append(units, unit)
	}
	res, err := compiler.Compile(units, o.compilerConfig(sources))
	if err != nil {
		return nil, err
	}
	res.Errors = append(syntaxErrs, res.Errors...)
	o.applyVersion(res.Image)
	return res, nil
}

func (o *options) applyVersion(img *osi.Image) {
	if o.version != nil {
		img.VersionMajor, img.VersionMinor = o.version[0], o.version[1]
	}
}

// LoadImage reads an image snapshot written by SaveImage.
func LoadImage(path string) (*osi.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := osi.UnmarshalSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// SaveImage writes an image snapshot to path.
func SaveImage(path string, img *osi.Image) error {
	data, err := osi.MarshalSnapshot(img)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
