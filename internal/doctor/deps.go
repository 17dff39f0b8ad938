package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// NewDepsChecks returns checks for the external tools pulseline relies on.
func NewDepsChecks() []Check {
	return []Check{
		&ToolCheck{
			Tool:        "git",
			VersionArgs: []string{"--version"},
			Suggestion:  "Install git to get the branch segment",
		},
		&ToolCheck{
			Tool:        "timeout",
			VersionArgs: []string{"--version"},
			Suggestion:  "The host command from 'pulseline settings' uses timeout: brew install coreutils (macOS)",
		},
	}
}

// ToolCheck verifies a binary is on PATH and reports its version. A
// missing tool only degrades the line, so it's a warning.
type ToolCheck struct {
	Tool        string
	VersionArgs []string
	Suggestion  string
}

func (c *ToolCheck) Name() string     { return c.Tool + "_local" }
func (c *ToolCheck) Category() string { return "DEPENDENCIES" }

func (c *ToolCheck) Run(ctx context.Context) CheckResult {
	path, err := exec.LookPath(c.Tool)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s not found", c.Tool),
			Suggestion: c.Suggestion,
		}
	}

	output, err := exec.CommandContext(ctx, path, c.VersionArgs...).Output()
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("%s found (version unknown)", c.Tool),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s %s", c.Tool, parseVersion(string(output))),
	}
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

// parseVersion pulls the first version-like number out of --version
// output ("git version 2.43.0", "timeout (GNU coreutils) 9.4").
func parseVersion(output string) string {
	firstLine, _, _ := strings.Cut(output, "\n")
	if v := versionPattern.FindString(firstLine); v != "" {
		return v
	}
	return "unknown"
}
