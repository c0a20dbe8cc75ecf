package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/veripay-dev/veripay/internal/model"
)

// ledgerFile is the receipts ledger relative to the project root.
const ledgerFile = "ledger/receipts.csv"

// Service appends accepted receipts to <root>/ledger/receipts.csv.
type Service struct {
	root string
}

// NewService creates a ledger Service rooted at a project directory.
func NewService(root string) *Service {
	return &Service{root: root}
}

// Commit appends an accepted receipt to the ledger and returns the stored
// record. The caller registers the transaction id with the duplicate guard
// only after Commit succeeds.
func (s *Service) Commit(r model.Receipt, now time.Time) (Record, error) {
	if r.Amount == nil {
		return Record{}, fmt.Errorf("receipt has no amount; only validated receipts can be committed")
	}

	rec := Record{
		ID:            uuid.NewString(),
		RecordedAt:    now.UTC(),
		TransactionID: r.TransactionID,
		Amount:        *r.Amount,
		SenderName:    r.SenderName,
		RecipientName: r.RecipientName,
		ReferenceText: r.ReferenceText,
		ReceiptTime:   r.Timestamp,
	}

	path := filepath.Join(s.root, ledgerFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Record{}, fmt.Errorf("creating ledger dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return Record{}, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return Record{}, fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendRecords(f, []Record{rec}); err != nil {
		return Record{}, fmt.Errorf("appending record: %w", err)
	}
	return rec, nil
}

// Read returns all records in the ledger, or nil if no ledger exists yet.
func (s *Service) Read() ([]Record, error) {
	path := filepath.Join(s.root, ledgerFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	recs, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return recs, nil
}

// SeenTransactionIDs returns the transaction ids of all committed receipts,
// used to seed an in-memory duplicate guard across process restarts.
func (s *Service) SeenTransactionIDs() ([]string, error) {
	recs, err := s.Read()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, rec := range recs {
		if rec.TransactionID != "" {
			ids = append(ids, rec.TransactionID)
		}
	}
	return ids, nil
}
