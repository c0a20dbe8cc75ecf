package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Header is the CSV header for receipts.csv.
const Header = "id,recorded_at,transaction_id,amount,sender,recipient,reference,receipt_time"

const (
	numFields      = 8
	colID          = 0
	colRecordedAt  = 1
	colTxnID       = 2
	colAmount      = 3
	colSender      = 4
	colRecipient   = 5
	colReference   = 6
	colReceiptTime = 7
)

// Record is one accepted receipt in the ledger.
type Record struct {
	ID            string // assigned at commit time
	RecordedAt    time.Time
	TransactionID string // empty when the receipt carried none
	Amount        decimal.Decimal
	SenderName    string
	RecipientName string
	ReferenceText string
	ReceiptTime   *time.Time // claimed transaction time, if extracted
}

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(rec Record) []string {
	row := make([]string, numFields)
	row[colID] = rec.ID
	row[colRecordedAt] = rec.RecordedAt.Format(time.RFC3339)
	row[colTxnID] = rec.TransactionID
	row[colAmount] = rec.Amount.StringFixed(2)
	row[colSender] = rec.SenderName
	row[colRecipient] = rec.RecipientName
	row[colReference] = rec.ReferenceText
	if rec.ReceiptTime != nil {
		row[colReceiptTime] = rec.ReceiptTime.Format(time.RFC3339)
	}
	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(record []string) (Record, error) {
	if len(record) != numFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	recordedAt, err := time.Parse(time.RFC3339, record[colRecordedAt])
	if err != nil {
		return Record{}, fmt.Errorf("parsing recorded_at %q: %w", record[colRecordedAt], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Record{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	var receiptTime *time.Time
	if record[colReceiptTime] != "" {
		ts, err := time.Parse(time.RFC3339, record[colReceiptTime])
		if err != nil {
			return Record{}, fmt.Errorf("parsing receipt_time %q: %w", record[colReceiptTime], err)
		}
		receiptTime = &ts
	}

	return Record{
		ID:            record[colID],
		RecordedAt:    recordedAt,
		TransactionID: record[colTxnID],
		Amount:        amount,
		SenderName:    record[colSender],
		RecipientName: record[colRecipient],
		ReferenceText: record[colReference],
		ReceiptTime:   receiptTime,
	}, nil
}

// ReadRecords reads all records from a receipts.csv reader.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var recs []Record
	for i, row := range records[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// AppendRecords appends records to an existing receipts.csv writer (no header).
func AppendRecords(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	for i, rec := range recs {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return cw.Error()
}

// WriteRecords writes records to a receipts.csv writer, including the header.
func WriteRecords(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, rec := range recs {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
