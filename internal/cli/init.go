package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/pulseline/internal/config"
	"github.com/rileyhilliard/pulseline/internal/errors"
	"github.com/rileyhilliard/pulseline/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var (
	initForce          bool
	initNonInteractive bool
	initTasksDB        string
)

// initCmd creates a new .pulseline.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .pulseline.yaml configuration",
	Long: `Create a .pulseline.yaml file in the current directory.

Prompts for the label and the task database path when run in a terminal,
and writes every other setting with its default so it's easy to edit.

Examples:
  pulseline init
  pulseline init --label work --tasks-db ~/tasks.db --non-interactive
  pulseline init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(InitOptions{
			Label:          labelFlag,
			TasksDB:        initTasksDB,
			Overwrite:      initForce,
			NonInteractive: initNonInteractive || !term.IsTerminal(int(os.Stdin.Fd())),
			Out:            cmd.OutOrStdout(),
		})
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "skip prompts and use flags or defaults")
	initCmd.Flags().StringVar(&initTasksDB, "tasks-db", "", "path to the task tracker's SQLite database")
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Label          string // Pre-specified label
	TasksDB        string // Pre-specified task database path
	Dir            string // Directory to write into; defaults to "."
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
	Out            io.Writer
}

// Init creates a new .pulseline.yaml configuration file.
func Init(opts InitOptions) error {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	configPath := filepath.Join(opts.Dir, config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrInit,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrInit,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(opts.Out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	label, tasksDB := opts.Label, opts.TasksDB
	if label == "" {
		label = cfg.Label
	}
	if tasksDB == "" {
		tasksDB = cfg.Tasks.Path
	}

	if !opts.NonInteractive {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Label").
					Description("Shown first on the status line, and alone when pulseline fails").
					Placeholder(cfg.Label).
					Value(&label).
					Validate(requireNonEmpty("label")),
				huh.NewInput().
					Title("Task database").
					Description("SQLite file kept by your task tracker (supports ~ and ${HOME})").
					Placeholder(cfg.Tasks.Path).
					Value(&tasksDB).
					Validate(requireNonEmpty("task database path")),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrInit,
				"Failed to get user input",
				"Check terminal compatibility or use --non-interactive flag")
		}
	}

	cfg.Label = strings.TrimSpace(label)
	cfg.Tasks.Path = strings.TrimSpace(tasksDB)

	if err := config.Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrInit,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# pulseline configuration
# Run 'pulseline doctor' to check every source, 'pulseline settings' for the host snippet.

`
	if err := os.WriteFile(configPath, []byte(header+string(data)), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrInit,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(opts.Out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(opts.Out, "Next steps:")
	fmt.Fprintln(opts.Out, "  pulseline doctor    - Check config and sources")
	fmt.Fprintln(opts.Out, "  pulseline settings  - Print the host settings snippet")

	return nil
}

func requireNonEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}
