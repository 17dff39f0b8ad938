package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/pulseline/internal/errors"
	"github.com/rileyhilliard/pulseline/internal/util"
)

// MinRefreshInterval is the shortest host refresh period we accept, in ms.
const MinRefreshInterval = 250

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but pulseline only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade pulseline or lower the version in .pulseline.yaml.")
	}

	if strings.TrimSpace(cfg.Label) == "" {
		return errors.New(errors.ErrConfig,
			"The label can't be empty - it's the one thing always shown",
			"Set 'label' in .pulseline.yaml, e.g. label: myproject")
	}

	if cfg.Separator == "" {
		return errors.New(errors.ErrConfig,
			"The separator can't be empty",
			`Use the default separator " | " or pick another non-empty string.`)
	}

	if cfg.RefreshInterval < MinRefreshInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("refresh_interval %dms is too short", cfg.RefreshInterval),
			fmt.Sprintf("Use at least %dms so the host isn't spawning processes constantly.", MinRefreshInterval))
	}

	checks := []struct {
		section string
		fn      func(*Config) error
	}{
		{"fields", validateFields},
		{"timeouts", validateTimeouts},
		{"tasks", validateTasks},
		{"pace", validatePace},
		{"readiness", validateReadiness},
		{"output", validateOutput},
		{"colors", validateColors},
	}
	for _, c := range checks {
		if err := c.fn(cfg); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, fmt.Sprintf("Invalid %s settings", c.section),
				fmt.Sprintf("Check the '%s' section in your .pulseline.yaml.", c.section))
		}
	}

	return nil
}

func validateFields(cfg *Config) error {
	known := make(map[string]bool, len(AllFields))
	for _, f := range AllFields {
		known[f] = true
	}

	seen := make(map[string]bool, len(cfg.Fields))
	for _, f := range cfg.Fields {
		if !known[f] {
			if similar := util.SuggestSimilar(f, AllFields, 3); len(similar) > 0 {
				return fmt.Errorf("unknown field %q (did you mean %q?)", f, similar[0])
			}
			return fmt.Errorf("unknown field %q (known: %s)", f, util.JoinOrNone(AllFields))
		}
		if seen[f] {
			return fmt.Errorf("field %q is listed twice", f)
		}
		seen[f] = true
	}
	return nil
}

func validateTimeouts(cfg *Config) error {
	t := cfg.Timeouts
	if t.Source <= 0 {
		return fmt.Errorf("timeouts.source must be positive, got %s", t.Source)
	}
	if t.Total <= 0 {
		return fmt.Errorf("timeouts.total must be positive, got %s", t.Total)
	}
	if t.Total < t.Source {
		return fmt.Errorf("timeouts.total (%s) must be at least timeouts.source (%s)", t.Total, t.Source)
	}
	return nil
}

func validateTasks(cfg *Config) error {
	if cfg.Tasks.DailyTarget <= 0 {
		return fmt.Errorf("tasks.daily_target must be positive, got %d", cfg.Tasks.DailyTarget)
	}
	return nil
}

func validatePace(cfg *Config) error {
	start, err := ParseClock(cfg.Pace.DayStart)
	if err != nil {
		return fmt.Errorf("pace.day_start: %w", err)
	}
	end, err := ParseClock(cfg.Pace.DayEnd)
	if err != nil {
		return fmt.Errorf("pace.day_end: %w", err)
	}
	if end <= start {
		return fmt.Errorf("pace.day_end (%s) must be after pace.day_start (%s)", cfg.Pace.DayEnd, cfg.Pace.DayStart)
	}
	if cfg.Pace.Tolerance < 0 || cfg.Pace.Tolerance >= 1 {
		return fmt.Errorf("pace.tolerance must be in [0, 1), got %g", cfg.Pace.Tolerance)
	}
	return nil
}

func validateReadiness(cfg *Config) error {
	r := cfg.Readiness
	if r.Yellow < 0 || r.Green > 100 || r.Yellow >= r.Green {
		return fmt.Errorf("readiness thresholds need 0 <= yellow < green <= 100, got yellow=%d green=%d", r.Yellow, r.Green)
	}
	if r.MaxAge < 0 {
		return fmt.Errorf("readiness.max_age can't be negative")
	}
	if strings.TrimSpace(r.ScoreKey) == "" {
		return fmt.Errorf("readiness.score_key can't be empty")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch cfg.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return fmt.Errorf("output.color must be auto, always or never, got %q", cfg.Output.Color)
	}
}

func validateColors(cfg *Config) error {
	for name, value := range cfg.Colors {
		if !validColor(value) {
			return fmt.Errorf("color %q has invalid value %q (use an ANSI index 0-255 or #RRGGBB)", name, value)
		}
	}
	return nil
}

func validColor(value string) bool {
	if hexColorPattern.MatchString(value) {
		return true
	}
	n, err := strconv.Atoi(value)
	return err == nil && n >= 0 && n <= 255
}

// ParseClock parses an HH:MM wall-clock time into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid HH:MM time", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
