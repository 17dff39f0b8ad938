package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/rileyhilliard/pulseline/internal/errors"
	"github.com/rileyhilliard/pulseline/internal/logger"
	"github.com/rileyhilliard/pulseline/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile   string
	verbose   bool
	noColor   bool
	labelFlag string
	modelFlag string
)

// rootCmd renders the status line when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "pulseline",
	Short: "Status line for your terminal host",
	Long: `pulseline prints a single colored status line: a label, the current
model, the git branch and a few personal metrics (points against today's
target, readiness, streak, active tasks and interactions).

It is meant to be run by a host on a timer with session JSON on stdin.
Sources that are missing or broken are left out; the line always prints.

Examples:
  echo '{"model":{"display_name":"Opal"}}' | pulseline
  pulseline --no-color
  pulseline settings`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.EnableDebug()
		}
		if noColor {
			ui.DisableColors()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return Render(cmd.Context(), RenderOptions{
			ConfigPath: cfgFile,
			Label:      labelFlag,
			Model:      modelFlag,
			NoColor:    noColor,
			Stdin:      cmd.InOrStdin(),
			Stdout:     cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .pulseline.yaml, searched upward)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&labelFlag, "label", "", "override the configured label")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "model name to show when the host doesn't send one")
}

// Config returns the --config flag value.
func Config() string {
	return cfgFile
}

// Execute runs the root command and exits non-zero on error. Structured
// errors are printed as-is; an ExitError means the command already
// reported its outcome.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(handleError(err))
	}
}

func handleError(err error) int {
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}

	var plErr *errors.Error
	if stderrors.As(err, &plErr) {
		fmt.Fprint(os.Stderr, plErr.Error())
	} else {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.SymbolFail, err)
	}
	return 1
}
