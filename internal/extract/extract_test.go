package extract

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_NoAmountToken(t *testing.T) {
	texts := []string{
		"",
		"Successful Transaction",
		"Total: 1000",     // no decimal point
		"Total: 1000.5",   // one fraction digit
		"Total: 1000.555", // three fraction digits
	}
	for _, text := range texts {
		r := Extract(text)
		assert.Nil(t, r.Amount, "no amount expected in %q", text)
	}
}

func TestExtract_FirstAmountWins(t *testing.T) {
	r := Extract("Subtotal: 900.00\nTotal: 1,000.00")
	require.NotNil(t, r.Amount)
	assert.True(t, r.Amount.Equal(decimal.RequireFromString("900.00")))
}

func TestExtract_AmountThousandsSeparators(t *testing.T) {
	r := Extract("## 1,234,567.89")
	require.NotNil(t, r.Amount)
	assert.True(t, r.Amount.Equal(decimal.RequireFromString("1234567.89")))
}

func TestExtract_AmountExactlyTwoFractionDigits(t *testing.T) {
	// A longer fraction must not be truncated into a match.
	r := Extract("reading 123.456 taken")
	assert.Nil(t, r.Amount)

	r = Extract("reading 123.45 taken")
	require.NotNil(t, r.Amount)
	assert.True(t, r.Amount.Equal(decimal.RequireFromString("123.45")))
}

func TestExtract_SenderAndTransactionID(t *testing.T) {
	r := Extract("Sender:\nJOHN DOE\nTransaction ID: abc123")
	assert.Equal(t, "JOHN DOE", r.SenderName)
	assert.Equal(t, "abc123", r.TransactionID)
}

func TestExtract_SenderLabelOnLastLine(t *testing.T) {
	r := Extract("Amount: 50.00\nSender:")
	assert.Empty(t, r.SenderName)
}

func TestExtract_SenderValueGuards(t *testing.T) {
	// OCR dropped the value line; the next section header must not be
	// mistaken for a name.
	cases := []string{
		"Sender:\nTransaction ID: abc",
		"Sender:\nRecipient:",
		"Sender:\n----------",
		"Sender:\n   ",
	}
	for _, text := range cases {
		r := Extract(text)
		assert.Empty(t, r.SenderName, "no sender expected in %q", text)
	}
}

func TestExtract_Recipient(t *testing.T) {
	r := Extract("Recipient:\nGOLD INVESTMENT LTD")
	assert.Equal(t, "GOLD INVESTMENT LTD", r.RecipientName)
}

func TestExtract_RecipientValueGuards(t *testing.T) {
	r := Extract("Recipient:\nSender:")
	assert.Empty(t, r.RecipientName)
}

func TestExtract_FirstSenderWins(t *testing.T) {
	r := Extract("Sender:\nJOHN DOE\nSender:\nJANE ROE")
	assert.Equal(t, "JOHN DOE", r.SenderName)
}

func TestExtract_TimestampWithSeconds(t *testing.T) {
	r := Extract("Oct 24, 2024 1:02:50 AM")
	require.NotNil(t, r.Timestamp)
	assert.Equal(t, time.Date(2024, 10, 24, 1, 2, 50, 0, time.UTC), *r.Timestamp)
}

func TestExtract_TimestampWithoutSeconds(t *testing.T) {
	r := Extract("Paid on Oct 24, 2024 1:02 AM via app")
	require.NotNil(t, r.Timestamp)
	assert.Equal(t, time.Date(2024, 10, 24, 1, 2, 0, 0, time.UTC), *r.Timestamp)
}

func TestExtract_TimestampLowercaseMeridiem(t *testing.T) {
	r := Extract("Oct 24, 2024 11:45 pm")
	require.NotNil(t, r.Timestamp)
	assert.Equal(t, time.Date(2024, 10, 24, 23, 45, 0, 0, time.UTC), *r.Timestamp)
}

func TestExtract_TimestampRequiresMeridiem(t *testing.T) {
	// Neither layout parses a 24-hour time.
	r := Extract("Oct 24, 2024 13:02:50")
	assert.Nil(t, r.Timestamp)
}

func TestExtract_FirstTimestampWins(t *testing.T) {
	r := Extract("Oct 24, 2024 1:02:50 AM\nOct 25, 2024 9:00:00 PM")
	require.NotNil(t, r.Timestamp)
	assert.Equal(t, 24, r.Timestamp.Day())
}

func TestExtract_SessionID(t *testing.T) {
	r := Extract("Session ID: sess-42")
	assert.Equal(t, "sess-42", r.SessionID)
}

func TestExtract_ReferenceVariants(t *testing.T) {
	cases := map[string]string{
		"Reference: invest12345":    "invest12345",
		"What's it for: gold999":    "gold999",
		"Purpose: monthly top-up":   "monthly top-up",
		"PURPOSE: shouting allowed": "shouting allowed",
	}
	for text, want := range cases {
		r := Extract(text)
		assert.Equal(t, want, r.ReferenceText, "input %q", text)
	}
}

func TestExtract_ColonValueKeepsLaterColons(t *testing.T) {
	r := Extract("Reference: invest:gold:2024")
	assert.Equal(t, "invest:gold:2024", r.ReferenceText)
}

func TestExtract_NoColonYieldsNoID(t *testing.T) {
	r := Extract("Transaction ID\n032u11jcc2200")
	assert.Empty(t, r.TransactionID)
}

func TestExtract_OneLineCanSetMultipleFields(t *testing.T) {
	r := Extract("Reference: refund 99.99")
	assert.Equal(t, "refund 99.99", r.ReferenceText)
	require.NotNil(t, r.Amount)
	assert.True(t, r.Amount.Equal(decimal.RequireFromString("99.99")))
}

func TestExtract_RawLinesRetained(t *testing.T) {
	r := Extract("a\nb\nc")
	assert.Equal(t, []string{"a", "b", "c"}, r.RawLines)
}

func TestExtract_FullNotice(t *testing.T) {
	text := "## 1,000.00\n" +
		"Successful Transaction\n" +
		"Oct 24, 2024 1:02:50 AM\n" +
		"Recipient:\n" +
		"GOLD INVESTMENT\n" +
		"Sender:\n" +
		"JOHN DOE\n" +
		"Transaction ID\n" +
		"032u11jcc2200\n" +
		"Reference: invest12345"

	r := Extract(text)
	require.NotNil(t, r.Amount)
	assert.True(t, r.Amount.Equal(decimal.RequireFromString("1000.00")))
	assert.Equal(t, "JOHN DOE", r.SenderName)
	assert.Equal(t, "GOLD INVESTMENT", r.RecipientName)
	require.NotNil(t, r.Timestamp)
	assert.Equal(t, time.Date(2024, 10, 24, 1, 2, 50, 0, time.UTC), *r.Timestamp)
	assert.Equal(t, "invest12345", r.ReferenceText)
	assert.Empty(t, r.TransactionID, "id without a colon stays unset")
	assert.Len(t, r.RawLines, 10)
}
