package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is the structured form of a payment notice, extracted from OCR
// output or pasted bank-notification text. Every field is optional: a nil
// pointer or empty string means the extractor found no recognizable value.
type Receipt struct {
	Amount        *decimal.Decimal // first currency-like token in the text
	SenderName    string
	RecipientName string
	Timestamp     *time.Time // claimed transaction time
	TransactionID string
	SessionID     string
	ReferenceText string // free-form payment memo
	RawLines      []string
}

// AmountString formats the amount for display, or "-" when absent.
func (r Receipt) AmountString() string {
	if r.Amount == nil {
		return "-"
	}
	return r.Amount.StringFixed(2)
}
