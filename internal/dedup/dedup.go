// Package dedup prevents a transaction id from being credited more than once.
package dedup

import (
	"context"
	"errors"
)

// ErrAlreadyConsumed is returned by transactional registration when another
// caller consumed the id first.
var ErrAlreadyConsumed = errors.New("transaction id already consumed")

// Guard tracks transaction ids of previously accepted receipts.
//
// Contains is consulted during validation; Register is called only after the
// acceptance has been durably committed, so a crash between the two cannot
// consume an id without a matching ledger record.
type Guard interface {
	// Contains reports whether id has already been accepted.
	Contains(ctx context.Context, id string) (bool, error)

	// Register records id as consumed. Registering an id that is already
	// present is a no-op, not an error.
	Register(ctx context.Context, id string) error
}
