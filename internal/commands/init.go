package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/veripay-dev/veripay/internal/config"
	"github.com/veripay-dev/veripay/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var sender string
	var recipients []string
	var patterns []string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Veripay project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, sender, recipients, patterns)
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "account holder's registered full name (required)")
	_ = cmd.MarkFlagRequired("sender")
	cmd.Flags().StringSliceVar(&recipients, "recipient", nil, "approved recipient name (repeatable)")
	cmd.Flags().StringSliceVar(&patterns, "reference-pattern", nil, "accepted payment-memo pattern (repeatable)")

	return cmd
}

func runInit(dir, sender string, recipients, patterns []string) error {
	for _, d := range []string{"ledger", "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(sender, recipients)
	cfg.References.Patterns = patterns
	if err := config.Save(filepath.Join(dir, "veripay.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Uploaded receipt images never belong in the audit history.
	gitignore := "uploads/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}

	hash, err := gitops.CommitAll(dir, "init: Initialize verification project", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized Veripay project at %s (%s)\n", dir, hash)
	return nil
}
