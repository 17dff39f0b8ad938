package sources

import (
	"context"
	"math"
	"time"

	"github.com/tidwall/gjson"
)

// maxCount bounds a sane daily counter and keeps int conversion exact.
const maxCount = math.MaxInt32

// InteractionOptions configures an InteractionCounter.
type InteractionOptions struct {
	Path string

	// CountKey and DateKey are gjson paths. DateKey is optional in the file.
	CountKey string
	DateKey  string

	Now func() time.Time
}

// InteractionCounter reads today's interaction count from the file kept by
// an external hook.
type InteractionCounter struct {
	opts InteractionOptions
}

// NewInteractionCounter creates a reader for the interaction counter file.
func NewInteractionCounter(opts InteractionOptions) *InteractionCounter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CountKey == "" {
		opts.CountKey = "count"
	}
	return &InteractionCounter{opts: opts}
}

// Count returns today's interaction count. A counter stamped with another
// day is stale and reported as unavailable.
func (c *InteractionCounter) Count(ctx context.Context) (int, error) {
	data, err := readSmallFile(ctx, c.opts.Path)
	if err != nil {
		return 0, err
	}
	if !gjson.ValidBytes(data) {
		return 0, malformed("%s is not valid JSON", c.opts.Path)
	}

	count := gjson.GetBytes(data, c.opts.CountKey)
	if count.Type != gjson.Number {
		return 0, malformed("%s: %q is not a number", c.opts.Path, c.opts.CountKey)
	}
	f := count.Float()
	if f < 0 || f != math.Trunc(f) {
		return 0, malformed("%s: count %v is not a non-negative integer", c.opts.Path, f)
	}
	if f > maxCount {
		return 0, malformed("%s: count %v is out of range", c.opts.Path, f)
	}

	if c.opts.DateKey != "" {
		if date := gjson.GetBytes(data, c.opts.DateKey); date.Exists() {
			today := c.opts.Now().Format(dayFormat)
			if date.String() != today {
				return 0, unavailable("%s is for %s, not %s", c.opts.Path, date.String(), today)
			}
		}
	}

	return int(f), nil
}
