// Package sources reads the external data behind each status line field.
//
// Every reader is read-only and returns either a value or an error wrapping
// one of two sentinels:
//
//	ErrUnavailable - the source isn't there (missing file or table, not a
//	                 git repo, stale data, timeout)
//	ErrMalformed   - the source is there but its content can't be used
//
// Callers treat both as "field absent". The distinction only matters for
// debug logging and for doctor output.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrUnavailable marks a source that is missing, stale, or timed out.
	ErrUnavailable = errors.New("source unavailable")

	// ErrMalformed marks a source whose content could not be parsed.
	ErrMalformed = errors.New("source malformed")
)

// maxFileSize caps how much of a cache file we read. These files hold a
// handful of keys; anything larger is not what we expect.
const maxFileSize = 1 << 20

// Kind returns "unavailable", "malformed", or "error" for logging.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "error"
	}
}

func unavailable(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, fmt.Sprintf(format, args...))
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// fromContext maps a context error onto the source taxonomy. A read that
// ran out of time is treated like a source that isn't there.
func fromContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return unavailable("%v", err)
	}
	return nil
}

// readSmallFile reads a cache file, mapping a missing file to ErrUnavailable.
func readSmallFile(ctx context.Context, path string) ([]byte, error) {
	if err := fromContext(ctx); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, unavailable("no path configured")
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, unavailable("%s does not exist", path)
		}
		return nil, unavailable("open %s: %v", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return nil, unavailable("read %s: %v", path, err)
	}
	if len(data) > maxFileSize {
		return nil, malformed("%s is larger than %d bytes", path, maxFileSize)
	}
	return data, nil
}
