package sources

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(cmd.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init", "--quiet")
	runGit(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	return dir
}

func TestGit_Branch(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	runGit(t, dir, "commit", "--allow-empty", "--quiet", "-m", "first")

	branch, err := (&Git{WorkDir: dir}).Branch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	runGit(t, dir, "checkout", "--quiet", "-b", "feature/pace")
	branch, err = (&Git{WorkDir: dir}).Branch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "feature/pace", branch)
}

func TestGit_UnbornBranch(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)

	branch, err := (&Git{WorkDir: dir}).Branch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestGit_DetachedHead(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	runGit(t, dir, "commit", "--allow-empty", "--quiet", "-m", "first")
	runGit(t, dir, "checkout", "--quiet", "--detach")

	head, err := (&Git{WorkDir: dir}).Branch(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, head)
	assert.NotEqual(t, "main", head)
	assert.Regexp(t, `^[0-9a-f]{4,}$`, head)
}

func TestGit_NotARepository(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	_, err := (&Git{WorkDir: dir}).Branch(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGit_CanceledContext(t *testing.T) {
	requireGit(t)
	dir := initRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Git{WorkDir: dir}).Branch(ctx)
	assert.ErrorIs(t, err, ErrUnavailable)
}
