package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/veripay-dev/veripay/internal/extract"
	"github.com/veripay-dev/veripay/internal/model"
)

func newExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract structured fields from payment-notice text",
		Long:  "Extract reads receipt text from a file (or stdin) and prints the fields it recognized. Extraction always succeeds; unrecognized fields are shown as \"-\".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := readInput(args)
			if err != nil {
				return err
			}

			r := extract.Extract(text)
			printReceipt(cmd.OutOrStdout(), r)
			return nil
		},
	}
	return cmd
}

// readInput returns the text of the file named in args, or stdin when no
// file was given, plus a source label for the decision log.
func readInput(args []string) (text, source string, err error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), args[0], nil
}

func printReceipt(w io.Writer, r model.Receipt) {
	fmt.Fprintf(w, "amount:         %s\n", r.AmountString())
	fmt.Fprintf(w, "sender:         %s\n", orDash(r.SenderName))
	fmt.Fprintf(w, "recipient:      %s\n", orDash(r.RecipientName))
	ts := "-"
	if r.Timestamp != nil {
		ts = r.Timestamp.Format("Jan 2, 2006 3:04:05 PM")
	}
	fmt.Fprintf(w, "timestamp:      %s\n", ts)
	fmt.Fprintf(w, "transaction id: %s\n", orDash(r.TransactionID))
	fmt.Fprintf(w, "session id:     %s\n", orDash(r.SessionID))
	fmt.Fprintf(w, "reference:      %s\n", orDash(r.ReferenceText))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
