package osi

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("osi: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// snapshotVersion is bumped whenever the snapshot layout changes.
const snapshotVersion = 1

type snapshot struct {
	Format       int                `cbor:"format"`
	VersionMajor uint8              `cbor:"major"`
	VersionMinor uint8              `cbor:"minor"`
	Strings      []string           `cbor:"strings,omitempty"`
	Symbols      []string           `cbor:"symbols,omitempty"`
	Globals      []string           `cbor:"globals,omitempty"`
	Functions    []functionSnapshot `cbor:"functions,omitempty"`
	Classes      []classSnapshot    `cbor:"classes,omitempty"`
}

type functionSnapshot struct {
	Name           string `cbor:"name"`
	ParameterCount uint16 `cbor:"params"`
	Code           []byte `cbor:"code,omitempty"`
}

type classSnapshot struct {
	Name       string           `cbor:"name"`
	Properties []uint16         `cbor:"properties,omitempty"`
	Methods    []methodSnapshot `cbor:"methods,omitempty"`
}

type methodSnapshot struct {
	Symbol         uint16 `cbor:"symbol"`
	ParameterCount uint16 `cbor:"params"`
	Code           []byte `cbor:"code,omitempty"`
}

// MarshalSnapshot serializes an image to canonical CBOR. Instruction lists
// are stored in their encoded BCL form.
func MarshalSnapshot(img *Image) ([]byte, error) {
	s := snapshot{
		Format:       snapshotVersion,
		VersionMajor: img.VersionMajor,
		VersionMinor: img.VersionMinor,
		Strings:      img.Strings,
		Symbols:      img.Symbols,
		Globals:      img.Globals,
	}
	for _, fn := range img.Functions {
		s.Functions = append(s.Functions, functionSnapshot{
			Name:           fn.Name,
			ParameterCount: fn.ParameterCount,
			Code:           Encode(fn.Instructions),
		})
	}
	for _, cls := range img.Classes {
		c := classSnapshot{Name: cls.Name, Properties: cls.Properties}
		for _, m := range cls.Methods {
			c.Methods = append(c.Methods, methodSnapshot{
				Symbol:         m.Symbol,
				ParameterCount: m.ParameterCount,
				Code:           Encode(m.Instructions),
			})
		}
		s.Classes = append(s.Classes, c)
	}
	data, err := cborEncMode.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("osi: marshal snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalSnapshot restores an image written by MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (*Image, error) {
	var s snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("osi: unmarshal snapshot: %w", err)
	}
	if s.Format != snapshotVersion {
		return nil, fmt.Errorf("osi: unsupported snapshot format %d", s.Format)
	}
	img := &Image{
		VersionMajor: s.VersionMajor,
		VersionMinor: s.VersionMinor,
		Strings:      s.Strings,
		Symbols:      s.Symbols,
		Globals:      s.Globals,
	}
	for _, fs := range s.Functions {
		instructions, err := Decode(fs.Code)
		if err != nil {
			return nil, fmt.Errorf("osi: function %s: %w", fs.Name, err)
		}
		img.Functions = append(img.Functions, &FunctionInfo{
			Name:           fs.Name,
			ParameterCount: fs.ParameterCount,
			Instructions:   instructions,
		})
	}
	for _, cs := range s.Classes {
		cls := &ClassInfo{Name: cs.Name, Properties: cs.Properties}
		for _, ms := range cs.Methods {
			instructions, err := Decode(ms.Code)
			if err != nil {
				return nil, fmt.Errorf("osi: class %s: %w", cs.Name, err)
			}
			cls.Methods = append(cls.Methods, &MethodInfo{
				Symbol:         ms.Symbol,
				ParameterCount: ms.ParameterCount,
				Instructions:   instructions,
			})
		}
		img.Classes = append(img.Classes, cls)
	}
	return img, nil
}
