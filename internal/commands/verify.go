package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/veripay-dev/veripay/internal/audit"
	"github.com/veripay-dev/veripay/internal/config"
	"github.com/veripay-dev/veripay/internal/dedup"
	"github.com/veripay-dev/veripay/internal/extract"
	"github.com/veripay-dev/veripay/internal/gitops"
	"github.com/veripay-dev/veripay/internal/ledger"
	"github.com/veripay-dev/veripay/internal/rules"
)

func newVerifyCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Validate a payment notice and record it if accepted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, source, err := readInput(args)
			if err != nil {
				return err
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runVerify(cmd, absDir, text, source)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")

	return cmd
}

func runVerify(cmd *cobra.Command, dir, text, source string) error {
	cfg, err := config.Load(filepath.Join(dir, "veripay.yaml"))
	if err != nil {
		return err
	}

	now := time.Now()
	ruleset, err := cfg.Ruleset(now)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	led := ledger.NewService(dir)

	guard, cleanup, err := openGuard(ctx, cfg, led)
	if err != nil {
		return err
	}
	defer cleanup()

	receipt := extract.Extract(text)
	decision, err := rules.Validate(ctx, receipt, ruleset, guard)
	if err != nil {
		return err
	}

	entry := audit.Entry{
		Timestamp:     now,
		TransactionID: receipt.TransactionID,
		Source:        source,
	}
	if receipt.Amount != nil {
		entry.Amount = receipt.Amount.StringFixed(2)
	}

	out := cmd.OutOrStdout()

	if !decision.Accepted() {
		entry.Outcome = audit.OutcomeRejected
		entry.Reason = string(decision.Reason)
		if err := audit.Append(dir, []audit.Entry{entry}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Rejected: %s\n", decision.Reason.Message())
		return fmt.Errorf("receipt rejected (%s)", decision.Reason)
	}

	// Commit first, register the id second: a crash in between leaves an
	// unregistered id with a committed record, never the reverse.
	rec, err := led.Commit(receipt, now)
	if err != nil {
		return err
	}
	if receipt.TransactionID != "" {
		if err := guard.Register(ctx, receipt.TransactionID); err != nil {
			return err
		}
	}

	entry.Outcome = audit.OutcomeAccepted
	if err := audit.Append(dir, []audit.Entry{entry}); err != nil {
		return err
	}

	if cfg.Git.AutoCommit && gitops.IsRepo(dir) {
		msg := fmt.Sprintf("accept: %s from %s", rec.Amount.StringFixed(2), rec.SenderName)
		if _, err := gitops.CommitPaths(dir, msg, cfg.Git.AuthorName, cfg.Git.AuthorEmail, "ledger", "logs"); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Accepted %s from %s (recorded as %s)\n", rec.Amount.StringFixed(2), rec.SenderName, rec.ID)
	return nil
}

// openGuard picks the duplicate-guard backend: the shared Postgres guard when
// a DSN is configured, otherwise an in-process guard seeded from the ledger.
func openGuard(ctx context.Context, cfg *config.Config, led *ledger.Service) (dedup.Guard, func(), error) {
	if cfg.Guard.PostgresDSN != "" {
		pg, err := dedup.NewPGGuard(ctx, cfg.Guard.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	}

	seen, err := led.SeenTransactionIDs()
	if err != nil {
		return nil, nil, err
	}
	return dedup.NewMemory(seen...), func() {}, nil
}
