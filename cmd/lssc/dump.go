package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"

	"github.com/TheLegendOfMataNui/lss/osi"
)

type imageJSON struct {
	Version   string         `json:"version"`
	Strings   []string       `json:"strings"`
	Symbols   []string       `json:"symbols"`
	Globals   []string       `json:"globals"`
	Functions []functionJSON `json:"functions"`
	Classes   []classJSON    `json:"classes"`
}

type functionJSON struct {
	Name       string   `json:"name"`
	Parameters uint16   `json:"parameters"`
	Size       uint32   `json:"size"`
	Code       []string `json:"code"`
}

type classJSON struct {
	Name       string         `json:"name"`
	Properties []string       `json:"properties"`
	Methods    []functionJSON `json:"methods"`
}

func (a *app) dumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [image.osi | files...]",
		Short: "Print the tables of an image (code sizes only in text form)",
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := a.loadOrCompile(cmd, args)
			if err != nil {
				return err
			}
			switch format := a.v.GetString("format"); format {
			case "text":
				fmt.Fprint(cmd.OutOrStdout(), img.String())
			case "json":
				data, err := marshalJSON(toJSON(img))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			default:
				return fmt.Errorf("unknown format %q (want text or json)", format)
			}
			return nil
		},
	}
	addCompileFlags(cmd)
	cmd.Flags().String("format", "text", "Output format: text or json")
	return cmd
}

func marshalJSON(v any) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}

func toJSON(img *osi.Image) imageJSON {
	out := imageJSON{
		Version:   fmt.Sprintf("%d.%d", img.VersionMajor, img.VersionMinor),
		Strings:   nonNil(img.Strings),
		Symbols:   nonNil(img.Symbols),
		Globals:   nonNil(img.Globals),
		Functions: []functionJSON{},
		Classes:   []classJSON{},
	}
	for _, fn := range img.Functions {
		out.Functions = append(out.Functions, codeJSON(fn.Name, fn.ParameterCount, fn.Instructions))
	}
	for _, cls := range img.Classes {
		c := classJSON{Name: cls.Name, Properties: []string{}, Methods: []functionJSON{}}
		for _, p := range cls.Properties {
			c.Properties = append(c.Properties, img.SymbolAt(p))
		}
		for _, m := range cls.Methods {
			c.Methods = append(c.Methods, codeJSON(img.SymbolAt(m.Symbol), m.ParameterCount, m.Instructions))
		}
		out.Classes = append(out.Classes, c)
	}
	return out
}

func codeJSON(name string, params uint16, instrs []osi.Instruction) functionJSON {
	f := functionJSON{
		Name:       name,
		Parameters: params,
		Size:       osi.TotalSize(instrs),
		Code:       make([]string, 0, len(instrs)),
	}
	for _, instr := range instrs {
		f.Code = append(f.Code, instr.String())
	}
	return f
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
