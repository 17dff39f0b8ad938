package statusline

import (
	"context"
	"strings"
	"time"

	"github.com/rileyhilliard/pulseline/internal/logger"
	"github.com/rileyhilliard/pulseline/internal/sources"
)

// DefaultSourceTimeout bounds a single field read when none is configured.
const DefaultSourceTimeout = 500 * time.Millisecond

// ComposerOptions configures a Composer.
type ComposerOptions struct {
	Label string

	// Model is printed when Compose is called without one.
	Model string

	Separator string
	Palette   Palette
	Providers []Provider

	// Timeout applies to each provider separately.
	Timeout time.Duration

	Log logger.Logger
}

// Composer builds the status line.
type Composer struct {
	opts ComposerOptions
}

// NewComposer creates a composer, filling in the separator, timeout and
// logger when unset.
func NewComposer(opts ComposerOptions) *Composer {
	if opts.Separator == "" {
		opts.Separator = " | "
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSourceTimeout
	}
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	return &Composer{opts: opts}
}

// Compose returns the line: label, model, then every field that produced a
// value, in provider order. It never fails; a field that errors, times out
// or panics is logged at debug level and dropped.
func (c *Composer) Compose(ctx context.Context, model string) string {
	if model == "" {
		model = c.opts.Model
	}

	parts := make([]string, 0, len(c.opts.Providers)+2)
	parts = append(parts, c.opts.Label, model)

	for _, p := range c.opts.Providers {
		seg, ok := c.segment(ctx, p)
		if !ok {
			continue
		}
		parts = append(parts, c.opts.Palette.Render(seg.Color, seg.Text))
	}

	return strings.Join(parts, c.opts.Separator)
}

func (c *Composer) segment(ctx context.Context, p Provider) (seg Segment, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			c.opts.Log.Debug("%s: skipped after panic: %v", p.Name(), r)
			seg, ok = Segment{}, false
		}
	}()

	seg, err := p.Segment(ctx)
	if err != nil {
		c.opts.Log.Debug("%s: skipped (%s): %v", p.Name(), sources.Kind(err), err)
		return Segment{}, false
	}
	if seg.Text == "" {
		c.opts.Log.Debug("%s: skipped (empty)", p.Name())
		return Segment{}, false
	}
	return seg, true
}
