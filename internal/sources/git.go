package sources

import (
	"context"
	"os"
	"os/exec"
	"strings"
)

// Git reads the current branch of the repository containing WorkDir.
type Git struct {
	// WorkDir is the directory to run git in. Empty means the process cwd.
	WorkDir string
}

// Branch returns the current branch name. An unborn branch (no commits
// yet) still has a name; a detached HEAD is shown as its short hash.
func (g *Git) Branch(ctx context.Context) (string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return "", unavailable("git not found: %v", err)
	}

	branch, err := gitOutput(ctx, g.WorkDir, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err == nil && branch != "" {
		return branch, nil
	}
	if ctxErr := fromContext(ctx); ctxErr != nil {
		return "", ctxErr
	}

	hash, err := gitOutput(ctx, g.WorkDir, "rev-parse", "--short", "HEAD")
	if err != nil {
		if ctxErr := fromContext(ctx); ctxErr != nil {
			return "", ctxErr
		}
		return "", unavailable("not a git repository (or no commits): %v", err)
	}
	if hash == "" {
		return "", malformed("git returned an empty HEAD")
	}
	return hash, nil
}

// gitOutput runs a git command and returns trimmed stdout. Optional locks
// are disabled so a status-line refresh never touches the index.
func gitOutput(ctx context.Context, workDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), "GIT_OPTIONAL_LOCKS=0")
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
