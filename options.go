package lss

import (
	"github.com/rs/zerolog"

	"github.com/TheLegendOfMataNui/lss/compiler"
	"github.com/TheLegendOfMataNui/lss/osi"
)

// Option configures an LSS compilation.
type Option func(*options)

type options struct {
	image    *osi.Image
	version  *[2]uint8
	logger   *zerolog.Logger
	replace  bool
	filename string
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerConfig(sources map[string]string) *compiler.Config {
	return &compiler.Config{
		Image:   o.image,
		Replace: o.replace,
		Logger:  o.logger,
		Sources: sources,
	}
}

// WithImage compiles into a copy of an existing image, so that new code is
// added to its tables. The image itself is not modified.
func WithImage(img *osi.Image) Option {
	return func(o *options) {
		o.image = img
	}
}

// WithVersion sets the format version written into the output image.
func WithVersion(major, minor uint8) Option {
	return func(o *options) {
		o.version = &[2]uint8{major, minor}
	}
}

// WithLogger sets the logger that receives compiler debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithReplace lets functions and classes of the WithImage image be
// redeclared, replacing their code instead of reporting a duplicate.
func WithReplace(replace bool) Option {
	return func(o *options) {
		o.replace = replace
	}
}

// WithFilename sets the filename for the source code being compiled.
// This is used for error messages. It has no effect on CompileFiles.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}
