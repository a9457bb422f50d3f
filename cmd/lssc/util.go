package main

import (
	goerrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/TheLegendOfMataNui/lss"
	"github.com/TheLegendOfMataNui/lss/errors"
	"github.com/TheLegendOfMataNui/lss/manifest"
)

var errCompileFailed = goerrors.New("compilation failed")

// addCompileFlags registers the flags shared by every command that compiles
// sources.
func addCompileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("seed", "", "Existing image to compile into")
	f.Bool("replace", false, "Replace functions and methods already in the seed image")
	f.String("image-version", "", "Image format version as MAJOR.MINOR")
}

// compileInputs compiles the given source files, or the project manifest
// found from the working directory when no files are given.
func (a *app) compileInputs(args []string) (*lss.Result, *manifest.Manifest, error) {
	opts, err := a.compileOptions()
	if err != nil {
		return nil, nil, err
	}
	if len(args) > 0 {
		res, err := lss.CompileFiles(args, opts...)
		return res, nil, err
	}
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, fmt.Errorf("no input files given and no %s found", manifest.FileName)
	}
	a.logger.Debug().Str("project", m.Project.Name).Str("dir", m.Dir).Msg("loaded manifest")
	res, err := lss.CompileProject(m, opts...)
	return res, m, err
}

// compileOptions maps the bound settings to compile options. Settings left
// unset do not override the manifest.
func (a *app) compileOptions() ([]lss.Option, error) {
	opts := []lss.Option{lss.WithLogger(a.logger)}
	if seed := a.v.GetString("seed"); seed != "" {
		img, err := lss.LoadImage(seed)
		if err != nil {
			return nil, fmt.Errorf("loading seed image: %w", err)
		}
		opts = append(opts, lss.WithImage(img))
	}
	if a.v.IsSet("replace") {
		opts = append(opts, lss.WithReplace(a.v.GetBool("replace")))
	}
	if s := a.v.GetString("image-version"); s != "" {
		major, minor, err := parseVersion(s)
		if err != nil {
			return nil, err
		}
		opts = append(opts, lss.WithVersion(major, minor))
	}
	return opts, nil
}

// report writes any compile errors to w and returns errCompileFailed if
// there were some.
func report(w io.Writer, res *lss.Result) error {
	if !res.HasErrors() {
		return nil
	}
	errs := &errors.CompileErrors{Errors: res.Errors}
	fmt.Fprint(w, errs.Format(errors.NewFormatter(!color.NoColor)))
	return errCompileFailed
}

func parseVersion(s string) (major, minor uint8, err error) {
	majorStr, minorStr, ok := strings.Cut(s, ".")
	if !ok {
		return 0, 0, fmt.Errorf("invalid image version %q: expected MAJOR.MINOR", s)
	}
	ma, err := strconv.ParseUint(majorStr, 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid image version %q: %w", s, err)
	}
	mi, err := strconv.ParseUint(minorStr, 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid image version %q: %w", s, err)
	}
	return uint8(ma), uint8(mi), nil
}
