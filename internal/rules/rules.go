// Package rules decides whether an extracted receipt satisfies the
// configured business rules.
package rules

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/veripay-dev/veripay/internal/dedup"
	"github.com/veripay-dev/veripay/internal/model"
)

// DefaultMaxAge is the freshness window used when a Ruleset does not set one.
const DefaultMaxAge = 24 * time.Hour

// Ruleset carries the caller-supplied facts a receipt is judged against.
type Ruleset struct {
	ExpectedSender    string           // account holder's registered full name
	Recipients        []string         // whitelist, matched as case-insensitive substring
	ReferencePatterns []*regexp.Regexp // any one match is sufficient
	MaxAge            time.Duration    // zero means DefaultMaxAge
	Now               time.Time
}

// CompilePatterns compiles reference patterns case-insensitively. Invalid
// patterns are reported here, at configuration time, not during validation.
func CompilePatterns(exprs []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		p, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, fmt.Errorf("compiling reference pattern %q: %w", expr, err)
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// Decision is the outcome of validating one receipt.
type Decision struct {
	Receipt model.Receipt
	Reason  Reason // ReasonNone when accepted
}

// Accepted reports whether the receipt passed every check.
func (d Decision) Accepted() bool { return d.Reason == ReasonNone }

// Validate runs the checks in a fixed order and stops at the first failure,
// so callers report the first unmet precondition rather than all of them.
//
// The guard is only consulted, never mutated. Registering an accepted
// transaction id is the caller's job, after the acceptance has been durably
// committed; a crash between validation and commit must not consume an id
// without a matching record.
//
// A non-nil error means the guard could not be consulted; the receipt is
// neither accepted nor rejected and the caller should retry.
func Validate(ctx context.Context, r model.Receipt, rs Ruleset, guard dedup.Guard) (Decision, error) {
	d := Decision{Receipt: r}

	if r.Amount == nil {
		d.Reason = ReasonMissingAmount
		return d, nil
	}
	if r.SenderName == "" {
		d.Reason = ReasonMissingSender
		return d, nil
	}
	if r.RecipientName == "" {
		d.Reason = ReasonMissingRecipient
		return d, nil
	}

	if !strings.Contains(strings.ToUpper(r.SenderName), strings.ToUpper(rs.ExpectedSender)) {
		d.Reason = ReasonSenderMismatch
		return d, nil
	}
	if !recipientAllowed(r.RecipientName, rs.Recipients) {
		d.Reason = ReasonInvalidRecipient
		return d, nil
	}

	// An absent reference is allowed; only a present but non-matching one
	// is rejected.
	if r.ReferenceText != "" && !anyMatch(rs.ReferencePatterns, r.ReferenceText) {
		d.Reason = ReasonInvalidReference
		return d, nil
	}

	// An absent timestamp is assumed current and skips the freshness check.
	if r.Timestamp != nil {
		maxAge := rs.MaxAge
		if maxAge == 0 {
			maxAge = DefaultMaxAge
		}
		if rs.Now.Sub(*r.Timestamp) > maxAge {
			d.Reason = ReasonStaleReceipt
			return d, nil
		}
	}

	if r.TransactionID != "" {
		seen, err := guard.Contains(ctx, r.TransactionID)
		if err != nil {
			return Decision{}, fmt.Errorf("consulting duplicate guard: %w", err)
		}
		if seen {
			d.Reason = ReasonDuplicateTransaction
			return d, nil
		}
	}

	return d, nil
}

func recipientAllowed(name string, whitelist []string) bool {
	upper := strings.ToUpper(name)
	for _, w := range whitelist {
		if strings.Contains(upper, strings.ToUpper(w)) {
			return true
		}
	}
	return false
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
