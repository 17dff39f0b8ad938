package doctor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".pulseline.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigFileCheck(t *testing.T) {
	path := writeConfig(t, "version: 1\nlabel: dev\n")

	result := (&ConfigFileCheck{ConfigPath: path}).Run(context.Background())
	if result.Status != StatusPass {
		t.Errorf("expected pass, got %v: %s", result.Status, result.Message)
	}
	if !strings.Contains(result.Message, path) {
		t.Errorf("message should name the file, got %q", result.Message)
	}
}

func TestConfigFileCheck_ExplicitMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	result := (&ConfigFileCheck{ConfigPath: missing}).Run(context.Background())
	if result.Status != StatusFail {
		t.Errorf("expected fail, got %v", result.Status)
	}
}

func TestConfigFileCheck_NoneFound(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	result := (&ConfigFileCheck{}).Run(context.Background())
	if result.Status != StatusWarn {
		t.Errorf("expected warn, got %v: %s", result.Status, result.Message)
	}
	if result.Suggestion == "" {
		t.Error("expected a suggestion to run init")
	}
}

func TestConfigSchemaCheck(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    CheckStatus
	}{
		{name: "valid", content: "version: 1\nlabel: dev\n", want: StatusPass},
		{name: "invalid yaml", content: "label: [unclosed\n", want: StatusFail},
		{name: "fails validation", content: "version: 1\nfields: [branch, weather]\n", want: StatusFail},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			result := (&ConfigSchemaCheck{ConfigPath: path}).Run(context.Background())
			if result.Status != tc.want {
				t.Errorf("got %v (%s), want %v", result.Status, result.Message, tc.want)
			}
		})
	}
}

func TestNewConfigChecks(t *testing.T) {
	checks := NewConfigChecks("")
	if len(checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(checks))
	}
	for _, c := range checks {
		if c.Category() != "CONFIG" {
			t.Errorf("%s: category %q", c.Name(), c.Category())
		}
	}
}
