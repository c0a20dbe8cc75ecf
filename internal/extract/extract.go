// Package extract converts raw payment-notice text into a structured Receipt.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veripay-dev/veripay/internal/model"
)

// amountRe matches a currency-like token with exactly two fraction digits.
// The second group forces the fraction to end, so "123.456" never matches.
var amountRe = regexp.MustCompile(`(\d[\d,]*\.\d\d)(\D|$)`)

// timestampRe pulls a "Mon D, YYYY h:mm[:ss] AM/PM" token out of a line.
var timestampRe = regexp.MustCompile(`[A-Za-z]{3} \d{1,2}, \d{4} \d{1,2}:\d{2}(?::\d{2})?(?: ?[APap][Mm])?`)

// dashSepRe matches the repeated-dash separators receipts use between sections.
var dashSepRe = regexp.MustCompile(`--+`)

// Timestamp layouts, tried in order. A token without AM/PM parses under
// neither and yields no timestamp.
const (
	layoutWithSeconds    = "Jan 2, 2006 3:04:05 PM"
	layoutWithoutSeconds = "Jan 2, 2006 3:04 PM"
)

// A detector inspects one line (with one line of lookahead) and may fill
// receipt fields that are still unset.
type detector func(r *model.Receipt, line, next string)

// detectors run against every line in this fixed order. Each field keeps its
// first match, so documents with repeated totals or multiple dates bind
// deterministically to the first occurrence.
var detectors = []detector{
	detectAmount,
	detectTimestamp,
	detectSender,
	detectRecipient,
	detectTransactionID,
	detectSessionID,
	detectReference,
}

// Extract scans text top to bottom in a single pass and returns a Receipt.
// It never fails: unrecognized input yields a Receipt with only RawLines set.
func Extract(text string) model.Receipt {
	lines := strings.Split(text, "\n")
	r := model.Receipt{RawLines: lines}

	for i, line := range lines {
		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}
		for _, d := range detectors {
			d(&r, line, next)
		}
	}
	return r
}

func detectAmount(r *model.Receipt, line, _ string) {
	if r.Amount != nil {
		return
	}
	m := amountRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return
	}
	r.Amount = &amount
}

func detectTimestamp(r *model.Receipt, line, _ string) {
	if r.Timestamp != nil {
		return
	}
	token := strings.TrimSpace(timestampRe.FindString(line))
	if token == "" {
		return
	}
	token = upperMeridiem(token)
	for _, layout := range []string{layoutWithSeconds, layoutWithoutSeconds} {
		if ts, err := time.Parse(layout, token); err == nil {
			r.Timestamp = &ts
			return
		}
	}
}

// upperMeridiem normalizes a trailing am/pm to upper case; time.Parse with a
// "PM" layout accepts nothing else.
func upperMeridiem(token string) string {
	if len(token) < 2 {
		return token
	}
	switch suffix := strings.ToUpper(token[len(token)-2:]); suffix {
	case "AM", "PM":
		return token[:len(token)-2] + suffix
	}
	return token
}

func detectSender(r *model.Receipt, line, next string) {
	if r.SenderName != "" || !containsFold(line, "sender") {
		return
	}
	r.SenderName = labelValue(next, "transaction", "recipient")
}

func detectRecipient(r *model.Receipt, line, next string) {
	if r.RecipientName != "" || !containsFold(line, "recipient") {
		return
	}
	r.RecipientName = labelValue(next, "transaction", "sender")
}

func detectTransactionID(r *model.Receipt, line, _ string) {
	if r.TransactionID != "" || !containsFold(line, "transaction id") {
		return
	}
	r.TransactionID = colonValue(line)
}

func detectSessionID(r *model.Receipt, line, _ string) {
	if r.SessionID != "" || !containsFold(line, "session id") {
		return
	}
	r.SessionID = colonValue(line)
}

func detectReference(r *model.Receipt, line, _ string) {
	if r.ReferenceText != "" {
		return
	}
	if !containsFold(line, "reference") && !containsFold(line, "what's it for") && !containsFold(line, "purpose") {
		return
	}
	r.ReferenceText = colonValue(line)
}

// labelValue accepts the line after a label as its value, unless it is empty
// or looks like another structural marker. OCR sometimes drops the value line
// entirely, leaving the next section header in its place.
func labelValue(next string, markers ...string) string {
	v := strings.TrimSpace(next)
	if v == "" {
		return ""
	}
	for _, m := range markers {
		if containsFold(v, m) {
			return ""
		}
	}
	if dashSepRe.MatchString(v) {
		return ""
	}
	return v
}

// colonValue returns the trimmed text after the first colon, or "" when the
// line has no colon. Text after further colons is kept verbatim.
func colonValue(line string) string {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
