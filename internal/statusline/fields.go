package statusline

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/pulseline/internal/config"
	"github.com/rileyhilliard/pulseline/internal/pace"
	"github.com/rileyhilliard/pulseline/internal/sources"
)

// Segment is one rendered piece of the line.
type Segment struct {
	Text  string
	Color ColorName
}

// Provider produces one optional segment. Field satisfies it for any value
// type so the composer can hold a mixed list.
type Provider interface {
	Name() string
	Segment(ctx context.Context) (Segment, error)
}

// Field reads a value of type T and turns it into a segment.
type Field[T any] struct {
	FieldName string
	Read      func(ctx context.Context) (T, error)
	Classify  func(T) ColorName
	Render    func(T) string
}

func (f Field[T]) Name() string { return f.FieldName }

// Segment reads the value and renders it. Any read error is returned
// unchanged so the caller can log its kind.
func (f Field[T]) Segment(ctx context.Context) (Segment, error) {
	v, err := f.Read(ctx)
	if err != nil {
		return Segment{}, err
	}
	color := NoColor
	if f.Classify != nil {
		color = f.Classify(v)
	}
	return Segment{Text: f.Render(v), Color: color}, nil
}

// TaskSource is the task tracker. Each method is an independent read.
type TaskSource interface {
	Progress(ctx context.Context) (sources.Progress, error)
	Streak(ctx context.Context) (int, error)
	ActiveCount(ctx context.Context) (int, error)
}

type ReadinessSource interface {
	Score(ctx context.Context) (int, error)
}

type InteractionSource interface {
	Count(ctx context.Context) (int, error)
}

type BranchSource interface {
	Branch(ctx context.Context) (string, error)
}

// Sources bundles everything the default fields read from. A nil source
// drops its fields.
type Sources struct {
	Tasks        TaskSource
	Readiness    ReadinessSource
	Interactions InteractionSource
	Branch       BranchSource

	// Now defaults to time.Now.
	Now func() time.Time
}

// PaceReading is today's progress together with its pace verdict.
type PaceReading struct {
	sources.Progress
	Status pace.Status
}

// DefaultFields builds the optional fields in display order, keeping only
// those enabled in cfg and backed by a source.
func DefaultFields(src Sources, cfg *config.Config) ([]Provider, error) {
	now := src.Now
	if now == nil {
		now = time.Now
	}

	start, err := config.ParseClock(cfg.Pace.DayStart)
	if err != nil {
		return nil, fmt.Errorf("pace.day_start: %w", err)
	}
	end, err := config.ParseClock(cfg.Pace.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("pace.day_end: %w", err)
	}
	day := pace.Day{Start: start, End: end}
	tolerance := cfg.Pace.Tolerance
	green, yellow := cfg.Readiness.Green, cfg.Readiness.Yellow

	candidates := map[string]Provider{}

	if src.Branch != nil && cfg.Git.Enabled {
		candidates[config.FieldBranch] = Field[string]{
			FieldName: config.FieldBranch,
			Read:      src.Branch.Branch,
			Classify:  func(string) ColorName { return Branch },
			Render:    func(b string) string { return b },
		}
	}

	if src.Tasks != nil {
		candidates[config.FieldPoints] = Field[PaceReading]{
			FieldName: config.FieldPoints,
			Read: func(ctx context.Context) (PaceReading, error) {
				p, err := src.Tasks.Progress(ctx)
				if err != nil {
					return PaceReading{}, err
				}
				expected := pace.Expected(p.Target, day.ElapsedFraction(now()))
				return PaceReading{Progress: p, Status: pace.Classify(p.Earned, expected, tolerance)}, nil
			},
			Classify: ClassifyPace,
			Render: func(r PaceReading) string {
				return fmt.Sprintf("%d/%dpt %s", r.Earned, r.Target, r.Status.Glyph())
			},
		}
		candidates[config.FieldStreak] = Field[int]{
			FieldName: config.FieldStreak,
			Read:      src.Tasks.Streak,
			Classify:  func(int) ColorName { return Warm },
			Render:    func(n int) string { return fmt.Sprintf("%dd", n) },
		}
		candidates[config.FieldActive] = Field[int]{
			FieldName: config.FieldActive,
			Read:      src.Tasks.ActiveCount,
			Classify:  func(int) ColorName { return Neutral },
			Render:    func(n int) string { return fmt.Sprintf("%d active", n) },
		}
	}

	if src.Readiness != nil {
		candidates[config.FieldReadiness] = Field[int]{
			FieldName: config.FieldReadiness,
			Read:      src.Readiness.Score,
			Classify:  func(score int) ColorName { return ClassifyReadiness(score, green, yellow) },
			Render:    func(score int) string { return fmt.Sprintf("%dr", score) },
		}
	}

	if src.Interactions != nil {
		candidates[config.FieldInteractions] = Field[int]{
			FieldName: config.FieldInteractions,
			Read:      src.Interactions.Count,
			Classify:  func(int) ColorName { return Neutral },
			Render:    func(n int) string { return fmt.Sprintf("#%d", n) },
		}
	}

	var providers []Provider
	for _, name := range config.AllFields {
		p, ok := candidates[name]
		if !ok || !cfg.FieldEnabled(name) {
			continue
		}
		providers = append(providers, p)
	}
	return providers, nil
}

// ClassifyPace maps a pace verdict to its color.
func ClassifyPace(r PaceReading) ColorName {
	switch r.Status {
	case pace.Ahead:
		return Green
	case pace.Behind:
		return Red
	default:
		return Yellow
	}
}

// ClassifyReadiness buckets a readiness score: green at or above green,
// yellow at or above yellow, red below.
func ClassifyReadiness(score, green, yellow int) ColorName {
	switch {
	case score >= green:
		return Green
	case score >= yellow:
		return Yellow
	default:
		return Red
	}
}
