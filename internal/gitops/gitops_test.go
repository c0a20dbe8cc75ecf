package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	// Commits need a committer identity regardless of the host's git config.
	t.Setenv("GIT_COMMITTER_NAME", "Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	return dir
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	err := Init(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommitAll(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte("hello"), 0o644))

	hash, err := CommitAll(dir, "init: test commit", "Test Author", "test@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init: test commit")

	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Test Author <test@example.com>")
}

func TestCommitPaths_StagesOnlyGivenPaths(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ledger"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ledger", "receipts.csv"), []byte("id\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("not mine"), 0o644))

	_, err := CommitPaths(dir, "accept: 10.00 from JOHN DOE", "Veripay", "ledger@veripay.dev", "ledger")
	require.NoError(t, err)

	show := exec.Command("git", "show", "--stat", "--format=", "HEAD")
	show.Dir = dir
	out, err := show.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "ledger/receipts.csv")
	assert.NotContains(t, string(out), "scratch.txt")
}
