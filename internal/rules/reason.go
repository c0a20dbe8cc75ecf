package rules

// Reason identifies why a receipt was rejected. All reasons are non-fatal
// and user-correctable.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonMissingAmount        Reason = "missing-amount"
	ReasonMissingSender        Reason = "missing-sender"
	ReasonMissingRecipient     Reason = "missing-recipient"
	ReasonSenderMismatch       Reason = "sender-mismatch"
	ReasonInvalidRecipient     Reason = "invalid-recipient"
	ReasonInvalidReference     Reason = "invalid-reference"
	ReasonStaleReceipt         Reason = "stale-receipt"
	ReasonDuplicateTransaction Reason = "duplicate-transaction"
)

// Message returns the user-facing explanation for a rejection. Configured
// patterns and whitelists are deliberately not echoed back.
func (r Reason) Message() string {
	switch r {
	case ReasonMissingAmount:
		return "no amount could be read from the receipt; resubmit clearer text"
	case ReasonMissingSender:
		return "no sender name could be read from the receipt; resubmit clearer text"
	case ReasonMissingRecipient:
		return "no recipient name could be read from the receipt; resubmit clearer text"
	case ReasonSenderMismatch:
		return "the sender on the receipt does not match the registered account holder"
	case ReasonInvalidRecipient:
		return "the recipient on the receipt is not an approved payee"
	case ReasonInvalidReference:
		return "the payment reference does not match any accepted format"
	case ReasonStaleReceipt:
		return "the receipt is older than the allowed window"
	case ReasonDuplicateTransaction:
		return "this transaction id has already been used"
	case ReasonNone:
		return "accepted"
	}
	return string(r)
}
