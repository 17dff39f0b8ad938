package sources

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// ReadinessOptions configures a ReadinessCache.
type ReadinessOptions struct {
	Path string

	// ScoreKey and TimestampKey are gjson paths ("score", "data.readiness.score").
	ScoreKey     string
	TimestampKey string

	// MaxAge drops readings older than this. Zero ignores the timestamp.
	MaxAge time.Duration

	Now func() time.Time
}

// ReadinessCache reads the biometric readiness score written by an
// external wearable sync job.
type ReadinessCache struct {
	opts ReadinessOptions
}

// NewReadinessCache creates a reader for the readiness cache file.
func NewReadinessCache(opts ReadinessOptions) *ReadinessCache {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ScoreKey == "" {
		opts.ScoreKey = "score"
	}
	return &ReadinessCache{opts: opts}
}

// Score returns the readiness score rounded to an integer in [0, 100].
func (r *ReadinessCache) Score(ctx context.Context) (int, error) {
	data, err := readSmallFile(ctx, r.opts.Path)
	if err != nil {
		return 0, err
	}
	if !gjson.ValidBytes(data) {
		return 0, malformed("%s is not valid JSON", r.opts.Path)
	}

	score := gjson.GetBytes(data, r.opts.ScoreKey)
	if score.Type != gjson.Number {
		return 0, malformed("%s: %q is not a number", r.opts.Path, r.opts.ScoreKey)
	}
	value := score.Float()
	if math.IsNaN(value) || value < 0 || value > 100 {
		return 0, malformed("%s: score %v is outside 0-100", r.opts.Path, value)
	}

	if r.opts.MaxAge > 0 {
		if err := r.checkFresh(data); err != nil {
			return 0, err
		}
	}

	return int(math.Round(value)), nil
}

func (r *ReadinessCache) checkFresh(data []byte) error {
	raw := gjson.GetBytes(data, r.opts.TimestampKey)
	if !raw.Exists() {
		return malformed("%s: no %q to check freshness against", r.opts.Path, r.opts.TimestampKey)
	}

	ts, ok := parseTimestamp(raw)
	if !ok {
		return malformed("%s: can't parse timestamp %q", r.opts.Path, raw.String())
	}

	age := r.opts.Now().Sub(ts)
	if age > r.opts.MaxAge {
		return unavailable("%s is stale (%s old, max %s)", r.opts.Path, age.Round(time.Second), r.opts.MaxAge)
	}
	return nil
}

// maxTimestamp is the end of year 9999 in unix milliseconds. Larger
// values can't be a real reading and would overflow int64 conversion.
const maxTimestamp = 253402300800000

// parseTimestamp accepts RFC 3339 strings, unix seconds, or unix
// milliseconds (as a number or a numeric string).
func parseTimestamp(v gjson.Result) (time.Time, bool) {
	var n float64
	switch v.Type {
	case gjson.Number:
		n = v.Float()
	case gjson.String:
		if t, err := time.Parse(time.RFC3339, v.Str); err == nil {
			return t, true
		}
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return time.Time{}, false
		}
		n = f
	default:
		return time.Time{}, false
	}

	if n <= 0 || n > maxTimestamp || math.IsNaN(n) {
		return time.Time{}, false
	}
	// Anything past the year 33658 in seconds is really milliseconds.
	if n > 1e12 {
		return time.UnixMilli(int64(n)), true
	}
	return time.Unix(int64(n), 0), true
}
