package osi

import (
	"fmt"
	"strings"
)

// Default image format version written by the compiler.
const (
	DefaultVersionMajor = 4
	DefaultVersionMinor = 1
)

// Image is a compiled OSI image. Table indices are stable: entries are only
// ever appended, so an index handed out during compilation stays valid.
type Image struct {
	VersionMajor uint8
	VersionMinor uint8
	Strings      []string
	Symbols      []string
	Globals      []string
	Functions    []*FunctionInfo
	Classes      []*ClassInfo
}

// FunctionInfo is a free function in the image.
type FunctionInfo struct {
	Name           string
	ParameterCount uint16
	Instructions   []Instruction
}

// ClassInfo is a class in the image. Properties and methods are identified by
// Symbol table indices.
type ClassInfo struct {
	Name       string
	Properties []uint16
	Methods    []*MethodInfo
}

// MethodInfo is a method of a class. ParameterCount includes the implicit
// receiver.
type MethodInfo struct {
	Symbol         uint16
	ParameterCount uint16
	Instructions   []Instruction
}

// NewImage returns an empty image with the default format version.
func NewImage() *Image {
	return &Image{
		VersionMajor: DefaultVersionMajor,
		VersionMinor: DefaultVersionMinor,
	}
}

// Function returns the function with the given name, or nil.
func (img *Image) Function(name string) *FunctionInfo {
	for _, fn := range img.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// Class returns the class with the given name, or nil.
func (img *Image) Class(name string) *ClassInfo {
	for _, cls := range img.Classes {
		if cls.Name == name {
			return cls
		}
	}
	return nil
}

// SymbolAt returns the symbol at index, or "" if out of range.
func (img *Image) SymbolAt(index uint16) string {
	if int(index) < len(img.Symbols) {
		return img.Symbols[index]
	}
	return ""
}

// StringAt returns the string constant at index, or "" if out of range.
func (img *Image) StringAt(index uint16) string {
	if int(index) < len(img.Strings) {
		return img.Strings[index]
	}
	return ""
}

// Method returns the method bound to the given symbol, or nil.
func (cls *ClassInfo) Method(symbol uint16) *MethodInfo {
	for _, m := range cls.Methods {
		if m.Symbol == symbol {
			return m
		}
	}
	return nil
}

// Clone returns a deep copy of the image.
func (img *Image) Clone() *Image {
	out := &Image{
		VersionMajor: img.VersionMajor,
		VersionMinor: img.VersionMinor,
		Strings:      cloneStrings(img.Strings),
		Symbols:      cloneStrings(img.Symbols),
		Globals:      cloneStrings(img.Globals),
	}
	for _, fn := range img.Functions {
		out.Functions = append(out.Functions, &FunctionInfo{
			Name:           fn.Name,
			ParameterCount: fn.ParameterCount,
			Instructions:   cloneInstructions(fn.Instructions),
		})
	}
	for _, cls := range img.Classes {
		c := &ClassInfo{Name: cls.Name}
		if cls.Properties != nil {
			c.Properties = append([]uint16{}, cls.Properties...)
		}
		for _, m := range cls.Methods {
			c.Methods = append(c.Methods, &MethodInfo{
				Symbol:         m.Symbol,
				ParameterCount: m.ParameterCount,
				Instructions:   cloneInstructions(m.Instructions),
			})
		}
		out.Classes = append(out.Classes, c)
	}
	return out
}

// String returns a human-readable listing of every table in the image. Code
// is summarized by size; package dis renders instruction listings.
func (img *Image) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "OSI image v%d.%d\n", img.VersionMajor, img.VersionMinor)
	dumpTable(&b, "strings", img.Strings, true)
	dumpTable(&b, "symbols", img.Symbols, false)
	dumpTable(&b, "globals", img.Globals, false)
	if len(img.Functions) > 0 {
		fmt.Fprintf(&b, "\nfunctions (%d):\n", len(img.Functions))
		for _, fn := range img.Functions {
			fmt.Fprintf(&b, "  function %s(%d) [%d bytes]\n",
				fn.Name, fn.ParameterCount, TotalSize(fn.Instructions))
		}
	}
	if len(img.Classes) > 0 {
		fmt.Fprintf(&b, "\nclasses (%d):\n", len(img.Classes))
		for _, cls := range img.Classes {
			fmt.Fprintf(&b, "  class %s\n", cls.Name)
			for _, p := range cls.Properties {
				fmt.Fprintf(&b, "    property %s (#%d)\n", img.SymbolAt(p), p)
			}
			for _, m := range cls.Methods {
				fmt.Fprintf(&b, "    method %s (#%d) params=%d [%d bytes]\n",
					img.SymbolAt(m.Symbol), m.Symbol, m.ParameterCount, TotalSize(m.Instructions))
			}
		}
	}
	return b.String()
}

func dumpTable(b *strings.Builder, title string, entries []string, quote bool) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s (%d):\n", title, len(entries))
	for i, s := range entries {
		if quote {
			fmt.Fprintf(b, "  %4d  %q\n", i, s)
		} else {
			fmt.Fprintf(b, "  %4d  %s\n", i, s)
		}
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
