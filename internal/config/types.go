package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Field names accepted in the `fields` list. The order here is the order
// segments appear on the line; config can switch fields off but never
// reorder them.
const (
	FieldBranch       = "branch"
	FieldPoints       = "points"
	FieldReadiness    = "readiness"
	FieldStreak       = "streak"
	FieldActive       = "active"
	FieldInteractions = "interactions"
)

// AllFields lists every optional field in display order.
var AllFields = []string{
	FieldBranch,
	FieldPoints,
	FieldReadiness,
	FieldStreak,
	FieldActive,
	FieldInteractions,
}

// Output color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the complete .pulseline.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Label is the fixed project label, always the first segment.
	Label string `yaml:"label" mapstructure:"label"`

	// Model is shown when the host does not pass a model name on stdin.
	Model string `yaml:"model" mapstructure:"model"`

	Separator string `yaml:"separator" mapstructure:"separator"`

	// RefreshInterval is how often the host re-invokes us, in milliseconds.
	// Only used when printing host settings.
	RefreshInterval int `yaml:"refresh_interval" mapstructure:"refresh_interval"`

	// Fields enables optional segments. Unknown names fail validation.
	Fields []string `yaml:"fields" mapstructure:"fields"`

	Timeouts     TimeoutConfig      `yaml:"timeouts" mapstructure:"timeouts"`
	Tasks        TasksConfig        `yaml:"tasks" mapstructure:"tasks"`
	Pace         PaceConfig         `yaml:"pace" mapstructure:"pace"`
	Readiness    ReadinessConfig    `yaml:"readiness" mapstructure:"readiness"`
	Interactions InteractionsConfig `yaml:"interactions" mapstructure:"interactions"`
	Git          GitConfig          `yaml:"git" mapstructure:"git"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`

	// Colors maps semantic color names to an ANSI index ("2") or hex ("#39FF14").
	Colors map[string]string `yaml:"colors" mapstructure:"colors"`
}

// TimeoutConfig bounds how long a single invocation may block.
type TimeoutConfig struct {
	// Source is the per-source read timeout.
	Source time.Duration `yaml:"source" mapstructure:"source"`

	// Total bounds the whole invocation, stdin included.
	Total time.Duration `yaml:"total" mapstructure:"total"`
}

// MarshalYAML writes durations as strings ("500ms") instead of nanoseconds.
func (t TimeoutConfig) MarshalYAML() (interface{}, error) {
	return struct {
		Source string `yaml:"source"`
		Total  string `yaml:"total"`
	}{t.Source.String(), t.Total.String()}, nil
}

// TasksConfig points at the external task tracker's SQLite database.
type TasksConfig struct {
	Path string `yaml:"path" mapstructure:"path"`

	// DailyTarget is used when the database has no daily_target setting.
	DailyTarget int `yaml:"daily_target" mapstructure:"daily_target"`
}

// PaceConfig defines the tracked day and the ahead/behind tolerance.
type PaceConfig struct {
	// DayStart and DayEnd are local wall-clock times in HH:MM.
	DayStart string `yaml:"day_start" mapstructure:"day_start"`
	DayEnd   string `yaml:"day_end" mapstructure:"day_end"`

	// Tolerance is the fraction above/below the expected points that
	// counts as ahead/behind.
	Tolerance float64 `yaml:"tolerance" mapstructure:"tolerance"`
}

// ReadinessConfig describes the biometric cache file and its thresholds.
type ReadinessConfig struct {
	Path string `yaml:"path" mapstructure:"path"`

	// ScoreKey and TimestampKey are gjson paths into the cache document.
	ScoreKey     string `yaml:"score_key" mapstructure:"score_key"`
	TimestampKey string `yaml:"timestamp_key" mapstructure:"timestamp_key"`

	// MaxAge drops readings older than this. Zero ignores freshness.
	MaxAge time.Duration `yaml:"max_age" mapstructure:"max_age"`

	Green  int `yaml:"green" mapstructure:"green"`
	Yellow int `yaml:"yellow" mapstructure:"yellow"`
}

// MarshalYAML writes max_age as a duration string.
func (r ReadinessConfig) MarshalYAML() (interface{}, error) {
	return struct {
		Path         string `yaml:"path"`
		ScoreKey     string `yaml:"score_key"`
		TimestampKey string `yaml:"timestamp_key"`
		MaxAge       string `yaml:"max_age"`
		Green        int    `yaml:"green"`
		Yellow       int    `yaml:"yellow"`
	}{r.Path, r.ScoreKey, r.TimestampKey, r.MaxAge.String(), r.Green, r.Yellow}, nil
}

// InteractionsConfig describes the interaction counter file.
type InteractionsConfig struct {
	Path     string `yaml:"path" mapstructure:"path"`
	CountKey string `yaml:"count_key" mapstructure:"count_key"`
	DateKey  string `yaml:"date_key" mapstructure:"date_key"`
}

// GitConfig controls the branch segment.
type GitConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" behaves like "always" unless NO_COLOR is set, since stdout is
	// always a pipe when the host runs us.
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultColors returns the built-in palette.
func DefaultColors() map[string]string {
	return map[string]string{
		"green":   "2",
		"yellow":  "3",
		"red":     "1",
		"warm":    "208",
		"neutral": "8",
		"branch":  "5",
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:         CurrentConfigVersion,
		Label:           "pulse",
		Model:           "unknown",
		Separator:       " | ",
		RefreshInterval: 5000,
		Fields:          append([]string(nil), AllFields...),
		Timeouts: TimeoutConfig{
			Source: 500 * time.Millisecond,
			Total:  2 * time.Second,
		},
		Tasks: TasksConfig{
			Path:        "~/.local/share/pulseline/tasks.db",
			DailyTarget: 18,
		},
		Pace: PaceConfig{
			DayStart:  "06:00",
			DayEnd:    "22:00",
			Tolerance: 0.15,
		},
		Readiness: ReadinessConfig{
			Path:         "~/.cache/pulseline/readiness.json",
			ScoreKey:     "score",
			TimestampKey: "timestamp",
			Green:        85,
			Yellow:       70,
		},
		Interactions: InteractionsConfig{
			Path:     "~/.cache/pulseline/interactions.json",
			CountKey: "count",
			DateKey:  "date",
		},
		Git:    GitConfig{Enabled: true},
		Output: OutputConfig{Color: ColorAuto},
		Colors: DefaultColors(),
	}
}

// FieldEnabled reports whether the named optional field is switched on.
func (c *Config) FieldEnabled(name string) bool {
	for _, f := range c.Fields {
		if f == name {
			return true
		}
	}
	return false
}
