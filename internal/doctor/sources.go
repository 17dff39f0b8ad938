package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rileyhilliard/pulseline/internal/config"
	"github.com/rileyhilliard/pulseline/internal/sources"
)

// NewSourceChecks returns one check per data source. cfg must already be
// loaded; the checks read exactly what a status-line refresh would.
func NewSourceChecks(cfg *config.Config, workDir string) []Check {
	return []Check{
		&TaskStoreCheck{Config: cfg},
		&ReadinessCheck{Config: cfg},
		&InteractionsCheck{Config: cfg},
		&GitCheck{Config: cfg, WorkDir: workDir},
	}
}

// sourceResult maps a source read to a check result. A missing source only
// drops its segment, so it's a warning; unreadable data is a failure.
func sourceResult(name, ok string, err error, suggestion string) CheckResult {
	switch {
	case err == nil:
		return CheckResult{Name: name, Status: StatusPass, Message: ok}
	case errors.Is(err, sources.ErrMalformed):
		return CheckResult{
			Name:       name,
			Status:     StatusFail,
			Message:    fmt.Sprintf("Unreadable: %v", err),
			Suggestion: suggestion,
		}
	default:
		return CheckResult{
			Name:       name,
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Unavailable: %v", err),
			Suggestion: suggestion,
		}
	}
}

func disabled(name, what string) CheckResult {
	return CheckResult{Name: name, Status: StatusPass, Message: what + " disabled"}
}

// TaskStoreCheck opens the task database read-only and runs every query
// the status line uses.
type TaskStoreCheck struct {
	Config *config.Config
}

func (c *TaskStoreCheck) Name() string     { return "task_store" }
func (c *TaskStoreCheck) Category() string { return "SOURCES" }

func (c *TaskStoreCheck) Run(ctx context.Context) CheckResult {
	cfg := c.Config
	if !cfg.FieldEnabled(config.FieldPoints) && !cfg.FieldEnabled(config.FieldStreak) && !cfg.FieldEnabled(config.FieldActive) {
		return disabled(c.Name(), "Task fields")
	}

	store := sources.NewTaskStore(sources.TaskStoreOptions{
		Path:          cfg.Tasks.Path,
		DefaultTarget: cfg.Tasks.DailyTarget,
	})
	defer store.Close()

	suggestion := fmt.Sprintf("Check tasks.path (%s) points at the tracker's SQLite database", cfg.Tasks.Path)

	progress, err := store.Progress(ctx)
	if err != nil {
		return sourceResult(c.Name(), "", err, suggestion)
	}
	streak, err := store.Streak(ctx)
	if err != nil {
		return sourceResult(c.Name(), "", err, suggestion)
	}
	active, err := store.ActiveCount(ctx)
	if err != nil {
		return sourceResult(c.Name(), "", err, suggestion)
	}

	return sourceResult(c.Name(),
		fmt.Sprintf("Tasks: %d/%d points today, %d day streak, %d active", progress.Earned, progress.Target, streak, active),
		nil, "")
}

// ReadinessCheck reads the readiness cache.
type ReadinessCheck struct {
	Config *config.Config
}

func (c *ReadinessCheck) Name() string     { return "readiness_cache" }
func (c *ReadinessCheck) Category() string { return "SOURCES" }

func (c *ReadinessCheck) Run(ctx context.Context) CheckResult {
	cfg := c.Config
	if !cfg.FieldEnabled(config.FieldReadiness) {
		return disabled(c.Name(), "Readiness")
	}

	score, err := sources.NewReadinessCache(sources.ReadinessOptions{
		Path:         cfg.Readiness.Path,
		ScoreKey:     cfg.Readiness.ScoreKey,
		TimestampKey: cfg.Readiness.TimestampKey,
		MaxAge:       cfg.Readiness.MaxAge,
	}).Score(ctx)

	return sourceResult(c.Name(),
		fmt.Sprintf("Readiness: %d", score),
		err,
		fmt.Sprintf("Check readiness.path (%s) and readiness.score_key (%s)", cfg.Readiness.Path, cfg.Readiness.ScoreKey))
}

// InteractionsCheck reads the interaction counter.
type InteractionsCheck struct {
	Config *config.Config
}

func (c *InteractionsCheck) Name() string     { return "interaction_counter" }
func (c *InteractionsCheck) Category() string { return "SOURCES" }

func (c *InteractionsCheck) Run(ctx context.Context) CheckResult {
	cfg := c.Config
	if !cfg.FieldEnabled(config.FieldInteractions) {
		return disabled(c.Name(), "Interactions")
	}

	count, err := sources.NewInteractionCounter(sources.InteractionOptions{
		Path:     cfg.Interactions.Path,
		CountKey: cfg.Interactions.CountKey,
		DateKey:  cfg.Interactions.DateKey,
	}).Count(ctx)

	return sourceResult(c.Name(),
		fmt.Sprintf("Interactions today: %d", count),
		err,
		fmt.Sprintf("Check interactions.path (%s); the counter resets each day", cfg.Interactions.Path))
}

// GitCheck resolves the branch in WorkDir.
type GitCheck struct {
	Config  *config.Config
	WorkDir string
}

func (c *GitCheck) Name() string     { return "git" }
func (c *GitCheck) Category() string { return "SOURCES" }

func (c *GitCheck) Run(ctx context.Context) CheckResult {
	if !c.Config.Git.Enabled || !c.Config.FieldEnabled(config.FieldBranch) {
		return disabled(c.Name(), "Branch")
	}

	branch, err := (&sources.Git{WorkDir: c.WorkDir}).Branch(ctx)
	return sourceResult(c.Name(),
		fmt.Sprintf("Branch: %s", branch),
		err,
		"The branch segment only shows inside a git repository")
}
