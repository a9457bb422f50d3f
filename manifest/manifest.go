// Package manifest handles lss.toml project configuration.
package manifest

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"

	"github.com/TheLegendOfMataNui/lss/osi"
)

// FileName is the name of the manifest file in a project directory.
const FileName = "lss.toml"

// SourceExt is the extension of LSS source files picked up from source
// directories.
const SourceExt = ".lss"

// Manifest represents an lss.toml project configuration.
type Manifest struct {
	Project Project     `toml:"project"`
	Source  Source      `toml:"source"`
	Image   ImageConfig `toml:"image"`

	// Dir is the directory containing the lss.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Source configures source file locations. Files are compiled in the order
// listed, followed by every .lss file found under Dirs in lexical order.
type Source struct {
	Files []string `toml:"files"`
	Dirs  []string `toml:"dirs"`
}

// ImageConfig configures image output.
type ImageConfig struct {
	Output       string `toml:"output"`
	Seed         string `toml:"seed"`
	Replace      bool   `toml:"replace"`
	VersionMajor int    `toml:"version-major"`
	VersionMinor int    `toml:"version-minor"`
}

// Load parses an lss.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	m, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return m, nil
}

// Parse decodes manifest text and applies defaults. Dir is left empty.
func Parse(text string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.Decode(text, &m)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	// Defaults
	if len(m.Source.Files) == 0 && len(m.Source.Dirs) == 0 {
		m.Source.Dirs = []string{"src"}
	}
	if m.Image.Output == "" {
		name := m.Project.Name
		if name == "" {
			name = "out"
		}
		m.Image.Output = name + ".osi"
	}
	if !meta.IsDefined("image", "version-major") {
		m.Image.VersionMajor = osi.DefaultVersionMajor
	}
	if !meta.IsDefined("image", "version-minor") {
		m.Image.VersionMinor = osi.DefaultVersionMinor
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find an lss.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Validate reports every problem with the manifest values at once.
func (m *Manifest) Validate() error {
	var result *multierror.Error
	checkVersion := func(key string, v int) {
		if v < 0 || v > math.MaxUint8 {
			result = multierror.Append(result, fmt.Errorf("image.%s %d is out of range 0-%d", key, v, math.MaxUint8))
		}
	}
	checkVersion("version-major", m.Image.VersionMajor)
	checkVersion("version-minor", m.Image.VersionMinor)
	for i, f := range m.Source.Files {
		if strings.TrimSpace(f) == "" {
			result = multierror.Append(result, fmt.Errorf("source.files[%d] is empty", i))
		}
	}
	for i, d := range m.Source.Dirs {
		if strings.TrimSpace(d) == "" {
			result = multierror.Append(result, fmt.Errorf("source.dirs[%d] is empty", i))
		}
	}
	if m.Image.Seed != "" && m.Image.Seed == m.Image.Output {
		result = multierror.Append(result, fmt.Errorf("image.seed and image.output are both %q", m.Image.Output))
	}
	return result.ErrorOrNil()
}

// Version returns the image format version as bytes. Call Validate first.
func (m *Manifest) Version() (major, minor uint8) {
	return uint8(m.Image.VersionMajor), uint8(m.Image.VersionMinor)
}

// OutputPath returns the absolute path of the image to write.
func (m *Manifest) OutputPath() string {
	return m.resolve(m.Image.Output)
}

// SeedPath returns the absolute path of the seed image, or "" if none.
func (m *Manifest) SeedPath() string {
	if m.Image.Seed == "" {
		return ""
	}
	return m.resolve(m.Image.Seed)
}

// SourceFiles returns the absolute paths of every source file, without
// duplicates. A missing source directory is an error.
func (m *Manifest) SourceFiles() ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	for _, f := range m.Source.Files {
		add(m.resolve(f))
	}
	for _, d := range m.Source.Dirs {
		root := m.resolve(d)
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && filepath.Ext(path) == SourceExt {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("source dir %s: %w", d, err)
		}
	}
	return files, nil
}

func (m *Manifest) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.Dir, path)
}
