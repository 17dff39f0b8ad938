package statusline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rileyhilliard/pulseline/internal/config"
	"github.com/rileyhilliard/pulseline/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 14:00 is the midpoint of the default 06:00-22:00 day.
var midday = time.Date(2026, 10, 16, 14, 0, 0, 0, time.Local)

type fakeTasks struct {
	progress    sources.Progress
	progressErr error
	streak      int
	streakErr   error
	active      int
	activeErr   error
	panicOn     string
}

func (f *fakeTasks) Progress(context.Context) (sources.Progress, error) {
	if f.panicOn == "progress" {
		panic("progress exploded")
	}
	return f.progress, f.progressErr
}

func (f *fakeTasks) Streak(context.Context) (int, error) { return f.streak, f.streakErr }

func (f *fakeTasks) ActiveCount(context.Context) (int, error) { return f.active, f.activeErr }

type fakeInt struct {
	n   int
	err error
}

func (f fakeInt) Score(context.Context) (int, error) { return f.n, f.err }
func (f fakeInt) Count(context.Context) (int, error) { return f.n, f.err }

type fakeBranch struct {
	name string
	err  error
}

func (f fakeBranch) Branch(context.Context) (string, error) { return f.name, f.err }

// blockingBranch waits for its context, like a git call that hangs.
type blockingBranch struct{}

func (blockingBranch) Branch(ctx context.Context) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func scenarioSources() Sources {
	return Sources{
		Tasks: &fakeTasks{
			progress: sources.Progress{Earned: 12, Target: 18},
			streak:   5,
			active:   3,
		},
		Readiness:    fakeInt{n: 85},
		Interactions: fakeInt{n: 42},
		Branch:       fakeBranch{name: "main"},
		Now:          func() time.Time { return midday },
	}
}

func names(providers []Provider) []string {
	var out []string
	for _, p := range providers {
		out = append(out, p.Name())
	}
	return out
}

func TestDefaultFields_Order(t *testing.T) {
	providers, err := DefaultFields(scenarioSources(), config.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, config.AllFields, names(providers))
}

func TestDefaultFields_ConfigDisablesButNeverReorders(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Fields = []string{config.FieldInteractions, config.FieldBranch, config.FieldStreak}

	providers, err := DefaultFields(scenarioSources(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{config.FieldBranch, config.FieldStreak, config.FieldInteractions}, names(providers))
}

func TestDefaultFields_NilSourcesAndGitDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Git.Enabled = false

	src := scenarioSources()
	src.Readiness = nil

	providers, err := DefaultFields(src, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{config.FieldPoints, config.FieldStreak, config.FieldActive, config.FieldInteractions}, names(providers))
}

func TestDefaultFields_BadClock(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Pace.DayStart = "six"

	_, err := DefaultFields(scenarioSources(), cfg)
	assert.Error(t, err)
}

func TestDefaultFields_Segments(t *testing.T) {
	providers, err := DefaultFields(scenarioSources(), config.DefaultConfig())
	require.NoError(t, err)

	want := map[string]Segment{
		config.FieldBranch:       {Text: "main", Color: Branch},
		config.FieldPoints:       {Text: "12/18pt +", Color: Green},
		config.FieldReadiness:    {Text: "85r", Color: Green},
		config.FieldStreak:       {Text: "5d", Color: Warm},
		config.FieldActive:       {Text: "3 active", Color: Neutral},
		config.FieldInteractions: {Text: "#42", Color: Neutral},
	}

	for _, p := range providers {
		seg, err := p.Segment(context.Background())
		require.NoError(t, err, p.Name())
		assert.Equal(t, want[p.Name()], seg, p.Name())
	}
}

func TestPointsField_PaceColors(t *testing.T) {
	tests := []struct {
		name   string
		earned int
		want   Segment
	}{
		{name: "ahead", earned: 12, want: Segment{Text: "12/18pt +", Color: Green}},
		{name: "on track", earned: 9, want: Segment{Text: "9/18pt =", Color: Yellow}},
		{name: "behind", earned: 4, want: Segment{Text: "4/18pt -", Color: Red}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := scenarioSources()
			src.Tasks = &fakeTasks{progress: sources.Progress{Earned: tt.earned, Target: 18}}

			cfg := config.DefaultConfig()
			cfg.Fields = []string{config.FieldPoints}
			providers, err := DefaultFields(src, cfg)
			require.NoError(t, err)
			require.Len(t, providers, 1)

			seg, err := providers[0].Segment(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, seg)
		})
	}
}

func TestPointsField_BeforeDayStarts(t *testing.T) {
	src := scenarioSources()
	src.Now = func() time.Time { return time.Date(2026, 10, 16, 5, 0, 0, 0, time.Local) }
	src.Tasks = &fakeTasks{progress: sources.Progress{Earned: 0, Target: 18}}

	cfg := config.DefaultConfig()
	cfg.Fields = []string{config.FieldPoints}
	providers, err := DefaultFields(src, cfg)
	require.NoError(t, err)

	seg, err := providers[0].Segment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Segment{Text: "0/18pt =", Color: Yellow}, seg)
}

func TestField_PropagatesReadError(t *testing.T) {
	f := Field[int]{
		FieldName: "x",
		Read:      func(context.Context) (int, error) { return 0, sources.ErrMalformed },
		Render:    func(int) string { return "never" },
	}
	_, err := f.Segment(context.Background())
	assert.True(t, errors.Is(err, sources.ErrMalformed))
}

func TestField_NoClassifierIsUncolored(t *testing.T) {
	f := Field[string]{
		FieldName: "x",
		Read:      func(context.Context) (string, error) { return "v", nil },
		Render:    func(s string) string { return s },
	}
	seg, err := f.Segment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Segment{Text: "v"}, seg)
}

func TestClassifyReadiness(t *testing.T) {
	tests := []struct {
		score int
		want  ColorName
	}{
		{100, Green},
		{85, Green},
		{84, Yellow},
		{70, Yellow},
		{69, Red},
		{0, Red},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyReadiness(tt.score, 85, 70), "score %d", tt.score)
	}
}
