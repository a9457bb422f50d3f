package main

import (
	goerrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the state shared by all lssc commands. Every flag is bound into
// v, so each can also be set with an LSSC_* environment variable or in the
// config file.
type app struct {
	v       *viper.Viper
	cfgFile string
	logger  zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zerolog.Nop()}
	root := &cobra.Command{
		Use:               "lssc",
		Short:             "Compile LSS scripts into OSI images",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initialize,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.lssc.yaml)")
	pf.Bool("no-color", false, "Disable colored output")
	pf.BoolP("verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		a.buildCmd(),
		a.checkCmd(),
		a.disCmd(),
		a.dumpCmd(),
		a.versionCmd(),
	)
	return root
}

// initialize runs before every command. Flags are bound here rather than
// at construction so that commands sharing a flag name each bind their own.
func (a *app) initialize(cmd *cobra.Command, args []string) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else if home, err := homedir.Dir(); err == nil {
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".lssc")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("LSSC")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !goerrors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if a.v.GetBool("no-color") || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
	a.logger = newLogger(cmd.ErrOrStderr(), a.v.GetBool("verbose"), color.NoColor)
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug().Str("path", used).Msg("using config file")
	}
	return nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
