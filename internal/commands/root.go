// Package commands wires the veripay CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veripay-dev/veripay/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "veripay",
		Short:   "Verify payment notices and keep an acceptance ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newExtractCommand())
	rootCmd.AddCommand(newVerifyCommand())

	return rootCmd
}
