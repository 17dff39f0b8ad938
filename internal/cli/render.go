package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rileyhilliard/pulseline/internal/config"
	"github.com/rileyhilliard/pulseline/internal/errors"
	"github.com/rileyhilliard/pulseline/internal/logger"
	"github.com/rileyhilliard/pulseline/internal/sources"
	"github.com/rileyhilliard/pulseline/internal/statusline"
	"golang.org/x/term"
)

// RenderOptions holds everything one status-line invocation needs.
type RenderOptions struct {
	ConfigPath string

	// Label and Model override config when non-empty.
	Label string
	Model string

	NoColor bool

	Stdin  io.Reader
	Stdout io.Writer

	// Now defaults to time.Now. Tests pin it.
	Now func() time.Time

	Log logger.Logger
}

// Render loads config, reads the session from stdin and prints the line.
// Only a config problem is an error; every source failure just drops its
// segment.
func Render(ctx context.Context, opts RenderOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Log == nil {
		opts.Log = logger.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cfg, err := loadRenderConfig(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Total)
	defer cancel()

	// A host that holds stdin open only costs one source timeout; the rest
	// of the budget stays with the fields.
	stdinCtx, stdinCancel := context.WithTimeout(ctx, cfg.Timeouts.Source)
	session := readSession(stdinCtx, opts.Stdin, opts.Log)
	stdinCancel()

	store := sources.NewTaskStore(sources.TaskStoreOptions{
		Path:          cfg.Tasks.Path,
		DefaultTarget: cfg.Tasks.DailyTarget,
		BusyTimeout:   cfg.Timeouts.Source / 2,
		Now:           opts.Now,
		Log:           opts.Log,
	})
	defer store.Close()

	src := statusline.Sources{
		Tasks: store,
		Readiness: sources.NewReadinessCache(sources.ReadinessOptions{
			Path:         cfg.Readiness.Path,
			ScoreKey:     cfg.Readiness.ScoreKey,
			TimestampKey: cfg.Readiness.TimestampKey,
			MaxAge:       cfg.Readiness.MaxAge,
			Now:          opts.Now,
		}),
		Interactions: sources.NewInteractionCounter(sources.InteractionOptions{
			Path:     cfg.Interactions.Path,
			CountKey: cfg.Interactions.CountKey,
			DateKey:  cfg.Interactions.DateKey,
			Now:      opts.Now,
		}),
		Now: opts.Now,
	}
	if cfg.Git.Enabled {
		src.Branch = &sources.Git{WorkDir: session.WorkDir}
	}

	providers, err := statusline.DefaultFields(src, cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid pace settings",
			"Check the 'pace' section in your .pulseline.yaml.")
	}

	composer := statusline.NewComposer(statusline.ComposerOptions{
		Label:     cfg.Label,
		Model:     cfg.Model,
		Separator: cfg.Separator,
		Palette:   statusline.NewPalette(cfg.Colors, statusline.ColorProfile(cfg.Output.Color, opts.NoColor)),
		Providers: providers,
		Timeout:   cfg.Timeouts.Source,
		Log:       opts.Log,
	})

	line := composer.Compose(ctx, session.Model)
	if _, err := fmt.Fprintln(opts.Stdout, line); err != nil {
		return errors.Wrap(err, "Failed to write status line")
	}
	return nil
}

// loadRenderConfig loads and validates config with the flag overrides
// applied. Any failure here is fatal for the invocation.
func loadRenderConfig(opts RenderOptions) (*config.Config, error) {
	cfg, path, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		var plErr *errors.Error
		if stderrors.As(err, &plErr) {
			return nil, err
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to load config",
			"Run 'pulseline doctor' to see what's wrong")
	}
	if path != "" {
		opts.Log.Debug("config: %s", path)
	}

	if opts.Label != "" {
		cfg.Label = opts.Label
	}
	if opts.Model != "" {
		cfg.Model = opts.Model
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readSession reads host JSON from stdin unless stdin is a terminal.
// Anything unreadable is an empty session.
func readSession(ctx context.Context, stdin io.Reader, log logger.Logger) sources.Session {
	if stdin == nil || isTerminal(stdin) {
		return sources.Session{}
	}

	data, err := sources.ReadInput(ctx, stdin)
	if err != nil {
		log.Debug("stdin: %v", err)
		return sources.Session{}
	}

	session, err := sources.ParseSession(data)
	if err != nil {
		log.Debug("stdin: %v", err)
		return sources.Session{}
	}
	return session
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
