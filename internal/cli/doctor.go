package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pulseline/internal/config"
	"github.com/rileyhilliard/pulseline/internal/doctor"
	"github.com/rileyhilliard/pulseline/internal/errors"
	"github.com/rileyhilliard/pulseline/internal/ui"
	"github.com/spf13/cobra"
)

var doctorJSON bool

// doctorCmd checks config and every data source.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check config and data sources",
	Long: `Run diagnostic checks to find out why a segment is missing.

Checks:
  - Config file location and validity
  - Task database (read-only)
  - Readiness cache and interaction counter
  - Git branch detection
  - git and timeout on PATH

A missing source is a warning; unreadable data is a failure.
Exits with status 1 when any check fails.

Examples:
  pulseline doctor
  pulseline doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

var categoryOrder = []string{"CONFIG", "SOURCES", "DEPENDENCIES"}

// doctorCommand implements the doctor command logic.
func doctorCommand(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	checks := collectChecks(Config())
	results := doctor.RunAll(ctx, checks)

	var err error
	if doctorJSON {
		err = outputDoctorJSON(w, checks, results)
	} else {
		outputDoctorText(w, checks, results)
	}
	if err != nil {
		return err
	}

	if doctor.HasFailures(results) {
		return errors.NewExitError(1)
	}
	return nil
}

// collectChecks gathers the config checks, plus source checks when the
// config loads. Source checks need a config to know where to look.
func collectChecks(cfgPath string) []doctor.Check {
	checks := doctor.NewConfigChecks(cfgPath)

	if cfg, _, err := config.LoadOrDefault(cfgPath); err == nil {
		workDir, _ := os.Getwd()
		checks = append(checks, doctor.NewSourceChecks(cfg, workDir)...)
	}
	// Otherwise the config checks report the load error.

	return append(checks, doctor.NewDepsChecks()...)
}

func groupResults(checks []doctor.Check, results []doctor.CheckResult) map[string][]doctor.CheckResult {
	grouped := make(map[string][]doctor.CheckResult)
	for i, check := range checks {
		grouped[check.Category()] = append(grouped[check.Category()], results[i])
	}
	return grouped
}

// outputDoctorJSON outputs results in JSON format.
func outputDoctorJSON(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	grouped := groupResults(checks, results)

	output := DoctorOutput{
		Categories: make([]CategoryOutput, 0, len(categoryOrder)),
	}
	for _, cat := range categoryOrder {
		if len(grouped[cat]) == 0 {
			continue
		}
		output.Categories = append(output.Categories, CategoryOutput{
			Name:    cat,
			Results: grouped[cat],
		})
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		AllClear: !doctor.HasIssues(results),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// outputDoctorText outputs results in human-readable format.
func outputDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) {
	styles := ui.DefaultStyles()

	fmt.Fprintln(w)
	detail := "no config file, using defaults"
	if path, err := config.Find(Config()); err == nil && path != "" {
		detail = path
	}
	fmt.Fprint(w, ui.RenderHeader(ui.HeaderInfo{
		Title:   "pulseline doctor",
		Version: formatVersion(version),
		Detail:  detail,
	}))
	fmt.Fprintln(w)

	grouped := groupResults(checks, results)
	for _, category := range categoryOrder {
		catResults := grouped[category]
		if len(catResults) == 0 {
			continue
		}

		fmt.Fprintln(w, styles.Header.Render(category))
		for _, result := range catResults {
			renderCheckResult(w, result, styles)
		}
		fmt.Fprintln(w)
	}

	if !doctor.HasIssues(results) {
		fmt.Fprintf(w, "%s %s\n", styles.Success.Render(ui.SymbolSuccess), doctor.Summary(results))
	} else if doctor.HasFailures(results) {
		fmt.Fprintf(w, "%s %s\n", styles.Error.Render(ui.SymbolFail), doctor.Summary(results))
	} else {
		fmt.Fprintf(w, "%s %s\n", styles.Warning.Render(ui.SymbolWarn), doctor.Summary(results))
	}
	fmt.Fprintln(w)
}

// renderCheckResult renders a single check result.
func renderCheckResult(w io.Writer, result doctor.CheckResult, styles ui.Styles) {
	var symbol string
	var style lipgloss.Style

	switch result.Status {
	case doctor.StatusPass:
		symbol, style = ui.SymbolSuccess, styles.Success
	case doctor.StatusWarn:
		symbol, style = ui.SymbolWarn, styles.Warning
	default:
		symbol, style = ui.SymbolFail, styles.Error
	}

	fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), result.Message)

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(w, "    %s\n", styles.Muted.Render(line))
		}
	}
}
