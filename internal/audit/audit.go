// Package audit keeps an append-only CSV log of verification decisions.
package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Outcome values for a decision log entry.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Entry is one row in the decision log.
type Entry struct {
	Timestamp     time.Time
	Outcome       string // accepted or rejected
	Reason        string // rejection reason slug, empty when accepted
	TransactionID string
	Amount        string // formatted amount, empty when none was extracted
	Source        string // input file name, or "stdin"
}

// Header is the CSV header for decision-log.csv.
const Header = "timestamp,outcome,reason,transaction_id,amount,source"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "logs/decision-log.csv"
	colTimestamp = 0
	colOutcome   = 1
	colReason    = 2
	colTxnID     = 3
	colAmount    = 4
	colSource    = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colOutcome] = e.Outcome
	row[colReason] = e.Reason
	row[colTxnID] = e.TransactionID
	row[colAmount] = e.Amount
	row[colSource] = e.Source
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp:     ts,
		Outcome:       record[colOutcome],
		Reason:        record[colReason],
		TransactionID: record[colTxnID],
		Amount:        record[colAmount],
		Source:        record[colSource],
	}, nil
}

// Append writes entries to <root>/logs/decision-log.csv, creating the file
// and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening decision log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <root>/logs/decision-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	path := filepath.Join(root, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening decision log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading decision log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
