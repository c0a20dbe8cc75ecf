package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runVeripay(t, "init", dir, "--sender", "JOHN DOE")
	require.NoError(t, err)

	for _, d := range []string{"ledger", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runVeripay(t, "init", dir,
		"--sender", "JOHN DOE",
		"--recipient", "GOLD INVESTMENT",
		"--reference-pattern", `invest\d+`)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "veripay.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "expected_name: JOHN DOE")
	assert.Contains(t, contents, "GOLD INVESTMENT")
	assert.Contains(t, contents, `invest\d+`)
	assert.Contains(t, contents, "max_age_hours: 24")
}

func TestInit_GitRepo(t *testing.T) {
	dir := t.TempDir()
	_, err := runVeripay(t, "init", dir, "--sender", "JOHN DOE")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init:")
}

func TestInit_RequiresSender(t *testing.T) {
	dir := t.TempDir()
	_, err := runVeripay(t, "init", dir)
	require.Error(t, err, "init without --sender should fail")
}
