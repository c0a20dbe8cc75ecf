// Package gitops versions the receipts ledger and decision log with git,
// giving every acceptance an auditable history.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	return nil
}

// CommitPaths stages the given paths and creates a commit. Returns the short
// commit hash. Acceptance commits stage only the ledger and log paths, so
// unrelated files in the project directory are never swept in.
func CommitPaths(dir, message, authorName, authorEmail string, paths ...string) (string, error) {
	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)

	addArgs := append([]string{"add", "--"}, paths...)
	add := exec.Command("git", addArgs...)
	add.Dir = dir
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	commit := exec.Command("git", "commit", "-m", message, "--author", author)
	commit.Dir = dir
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	rev := exec.Command("git", "rev-parse", "--short", "HEAD")
	rev.Dir = dir
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CommitAll stages everything under dir and creates a commit. Used for the
// initial project commit; acceptance commits use CommitPaths.
func CommitAll(dir, message, authorName, authorEmail string) (string, error) {
	return CommitPaths(dir, message, authorName, authorEmail, ".")
}

// IsRepo reports whether dir is inside a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
