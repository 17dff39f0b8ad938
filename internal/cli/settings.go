package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rileyhilliard/pulseline/internal/config"
	"github.com/rileyhilliard/pulseline/internal/errors"
	"github.com/rileyhilliard/pulseline/internal/util"
	"github.com/spf13/cobra"
)

// settingsCmd prints the snippet that wires pulseline into the host.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print host settings JSON for the status line",
	Long: `Print a settings snippet to paste into the host's settings file.

The command wraps pulseline in a shell fallback: if pulseline fails or
hangs past timeouts.total, the host shows the plain label instead.

Examples:
  pulseline settings
  pulseline settings --config ~/.config/pulseline/config.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return settingsCommand(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}

// HostSettings is the host's settings document, reduced to the status line.
type HostSettings struct {
	StatusLine StatusLineSettings `json:"statusLine"`
}

// StatusLineSettings describes how the host runs the status line.
type StatusLineSettings struct {
	Type            string `json:"type"`
	Command         string `json:"command"`
	RefreshInterval int    `json:"refreshInterval"`
}

func settingsCommand(w io.Writer) error {
	cfg, path, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}
	if labelFlag != "" {
		cfg.Label = labelFlag
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// Only pin the config path when the user chose one; otherwise the
	// normal search from the host's working directory applies.
	explicit := ""
	if Config() != "" {
		explicit = path
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(BuildHostSettings(cfg, explicit)); err != nil {
		return errors.Wrap(err, "Failed to write settings")
	}
	return nil
}

// BuildHostSettings renders the settings snippet for cfg. configPath is
// passed through as --config when non-empty.
func BuildHostSettings(cfg *config.Config, configPath string) HostSettings {
	return HostSettings{
		StatusLine: StatusLineSettings{
			Type:            "command",
			Command:         FallbackCommand(cfg, configPath),
			RefreshInterval: cfg.RefreshInterval,
		},
	}
}

// wrapperSlack keeps the shell timeout above timeouts.total so pulseline's
// own deadline fires first and the line still prints.
const wrapperSlack = 500 * time.Millisecond

// FallbackCommand is the shell command the host runs. It prints
// pulseline's line, or the bare label when pulseline fails or times out.
func FallbackCommand(cfg *config.Config, configPath string) string {
	invocation := "pulseline"
	if configPath != "" {
		invocation += " --config " + util.ShellQuote(configPath)
	}

	return fmt.Sprintf(
		`out=$(timeout %s %s 2>/dev/null); [ -n "$out" ] && printf '%%s\n' "$out" || printf '%%s\n' %s`,
		timeoutArg(cfg.Timeouts.Total+wrapperSlack), invocation, util.ShellQuote(cfg.Label))
}

// timeoutArg formats d for coreutils timeout, which takes seconds.
func timeoutArg(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
