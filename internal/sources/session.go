package sources

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
)

// Session is the context the host passes on stdin.
type Session struct {
	// Model is the active model's display name, if the host sent one.
	Model string

	// WorkDir is the host's working directory, if it sent one.
	WorkDir string
}

var (
	modelPaths   = []string{"model.display_name", "model.id", "model"}
	workDirPaths = []string{"workspace.current_dir", "cwd"}
)

// ParseSession extracts the model and working directory from the host's
// JSON. Empty input is an empty session; invalid JSON is ErrMalformed.
func ParseSession(data []byte) (Session, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Session{}, nil
	}
	if !gjson.ValidBytes(data) {
		return Session{}, malformed("session context is not valid JSON")
	}

	return Session{
		Model:   singleLine(firstString(data, modelPaths)),
		WorkDir: firstString(data, workDirPaths),
	}, nil
}

// firstString returns the first path that holds a non-empty string.
func firstString(data []byte, paths []string) string {
	for _, p := range paths {
		if v := gjson.GetBytes(data, p); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// singleLine replaces control characters (newlines, escapes) with spaces
// and collapses runs of whitespace, so host text can't break the line.
func singleLine(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

type readResult struct {
	data []byte
	err  error
}

// ReadInput reads all of r, giving up when ctx is done. A host that never
// closes stdin must not hang the status line, so the read runs in its own
// goroutine and is abandoned on timeout.
func ReadInput(ctx context.Context, r io.Reader) ([]byte, error) {
	done := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(r, maxFileSize))
		done <- readResult{data: data, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, unavailable("read stdin: %v", res.err)
		}
		return res.data, nil
	case <-ctx.Done():
		return nil, unavailable("read stdin: %v", ctx.Err())
	}
}
