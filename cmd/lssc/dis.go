package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TheLegendOfMataNui/lss"
	"github.com/TheLegendOfMataNui/lss/dis"
	"github.com/TheLegendOfMataNui/lss/osi"
)

const imageExt = ".osi"

func (a *app) disCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [image.osi | files...]",
		Short: "Disassemble an image or compiled sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := a.loadOrCompile(cmd, args)
			if err != nil {
				return err
			}
			name := a.v.GetString("func")
			if name == "" {
				dis.PrintImage(img, cmd.OutOrStdout())
				return nil
			}
			instrs, err := findCode(img, name)
			if err != nil {
				return err
			}
			dis.Print(dis.Disassemble(instrs, img), cmd.OutOrStdout())
			return nil
		},
	}
	addCompileFlags(cmd)
	cmd.Flags().String("func", "", "Only disassemble this function or Class.method")
	return cmd
}

// loadOrCompile reads a single .osi argument as an image snapshot, and
// otherwise compiles the arguments. Compile errors are reported and fail the
// command.
func (a *app) loadOrCompile(cmd *cobra.Command, args []string) (*osi.Image, error) {
	if len(args) == 1 && strings.EqualFold(filepath.Ext(args[0]), imageExt) {
		return lss.LoadImage(args[0])
	}
	res, _, err := a.compileInputs(args)
	if err != nil {
		return nil, err
	}
	if err := report(cmd.ErrOrStderr(), res); err != nil {
		return nil, err
	}
	return res.Image, nil
}

func findCode(img *osi.Image, name string) ([]osi.Instruction, error) {
	className, method, isMethod := strings.Cut(name, ".")
	if !isMethod {
		fn := img.Function(name)
		if fn == nil {
			return nil, fmt.Errorf("function %q not found", name)
		}
		return fn.Instructions, nil
	}
	cls := img.Class(className)
	if cls == nil {
		return nil, fmt.Errorf("class %q not found", className)
	}
	for _, m := range cls.Methods {
		if img.SymbolAt(m.Symbol) == method {
			return m.Instructions, nil
		}
	}
	return nil, fmt.Errorf("method %q not found in class %q", method, className)
}
