package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Compile sources and report errors without writing an image",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := a.compileInputs(args)
			if err != nil {
				return err
			}
			if err := report(cmd.ErrOrStderr(), res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d functions, %d classes\n",
				len(res.Image.Functions), len(res.Image.Classes))
			return nil
		},
	}
	addCompileFlags(cmd)
	return cmd
}
