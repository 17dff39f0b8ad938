package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/pulseline/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".pulseline.yaml"
	// GlobalConfigDir is the directory for global config, relative to home.
	GlobalConfigDir = ".config/pulseline"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix is the prefix for environment overrides (PULSELINE_LABEL, ...).
	EnvPrefix = "PULSELINE"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'pulseline init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .pulseline.yaml in current directory
// 3. .pulseline.yaml in parent directories (stops at git root or home)
// 4. ~/.config/pulseline/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	// The cwd itself may be the repo root; don't climb past it.
	home, _ := os.UserHomeDir()
	dir := cwd
	for !isGitRoot(dir) {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && parent == home {
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults
// (with environment overrides applied) if no file exists.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

// newViper returns a viper instance with defaults and env overrides wired.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	// Every key has a viper default, so start empty. Decoding onto
	// DefaultConfig would leave stale trailing entries in Fields.
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		where := "your config"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+where)
	}

	cfg.Tasks.Path = ExpandPath(cfg.Tasks.Path)
	cfg.Readiness.Path = ExpandPath(cfg.Readiness.Path)
	cfg.Interactions.Path = ExpandPath(cfg.Interactions.Path)

	return cfg, nil
}

// setDefaults registers every key so env overrides and partial files merge
// with the built-in defaults.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)
	v.SetDefault("label", d.Label)
	v.SetDefault("model", d.Model)
	v.SetDefault("separator", d.Separator)
	v.SetDefault("refresh_interval", d.RefreshInterval)
	v.SetDefault("fields", d.Fields)
	v.SetDefault("timeouts.source", d.Timeouts.Source.String())
	v.SetDefault("timeouts.total", d.Timeouts.Total.String())
	v.SetDefault("tasks.path", d.Tasks.Path)
	v.SetDefault("tasks.daily_target", d.Tasks.DailyTarget)
	v.SetDefault("pace.day_start", d.Pace.DayStart)
	v.SetDefault("pace.day_end", d.Pace.DayEnd)
	v.SetDefault("pace.tolerance", d.Pace.Tolerance)
	v.SetDefault("readiness.path", d.Readiness.Path)
	v.SetDefault("readiness.score_key", d.Readiness.ScoreKey)
	v.SetDefault("readiness.timestamp_key", d.Readiness.TimestampKey)
	v.SetDefault("readiness.max_age", "0s")
	v.SetDefault("readiness.green", d.Readiness.Green)
	v.SetDefault("readiness.yellow", d.Readiness.Yellow)
	v.SetDefault("interactions.path", d.Interactions.Path)
	v.SetDefault("interactions.count_key", d.Interactions.CountKey)
	v.SetDefault("interactions.date_key", d.Interactions.DateKey)
	v.SetDefault("git.enabled", d.Git.Enabled)
	v.SetDefault("output.color", d.Output.Color)
	for name, value := range d.Colors {
		v.SetDefault("colors."+name, value)
	}
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
