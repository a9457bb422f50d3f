package main

import (
	goerrors "errors"

	"github.com/spf13/cobra"

	"github.com/TheLegendOfMataNui/lss"
)

const defaultOutput = "out.osi"

func (a *app) buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [files...]",
		Short: "Compile sources into an image",
		Long: `Compile LSS sources into an image.

With no files, the lss.toml manifest in the current directory or one of its
parents describes the project.`,
		RunE: a.runBuild,
	}
	addCompileFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Output image path")
	cmd.Flags().Bool("force", false, "Write the image even if there are errors")
	return cmd
}

func (a *app) runBuild(cmd *cobra.Command, args []string) error {
	res, m, err := a.compileInputs(args)
	if err != nil {
		return err
	}
	failed := report(cmd.ErrOrStderr(), res)
	if failed != nil && !a.v.GetBool("force") {
		return failed
	}
	output := a.v.GetString("output")
	if output == "" {
		if m != nil {
			output = m.OutputPath()
		} else {
			output = defaultOutput
		}
	}
	if err := lss.SaveImage(output, res.Image); err != nil {
		return goerrors.Join(failed, err)
	}
	a.logger.Info().
		Str("output", output).
		Int("functions", len(res.Image.Functions)).
		Int("classes", len(res.Image.Classes)).
		Int("errors", len(res.Errors)).
		Msg("wrote image")
	return failed
}
