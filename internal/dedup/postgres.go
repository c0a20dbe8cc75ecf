package dedup

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the table PGGuard needs. The primary key is the
// serialization point for concurrent registrations of the same id.
const Schema = `
CREATE TABLE IF NOT EXISTS consumed_transaction_ids (
	transaction_id TEXT PRIMARY KEY,
	consumed_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertSQL = `INSERT INTO consumed_transaction_ids (transaction_id) VALUES ($1)`

// PGGuard is a Guard backed by a Postgres table, suitable for multi-worker
// deployments where an in-memory set cannot arbitrate duplicates.
type PGGuard struct {
	pool *pgxpool.Pool
}

var _ Guard = (*PGGuard)(nil)

// NewPGGuard connects to Postgres and ensures the guard table exists.
func NewPGGuard(ctx context.Context, dsn string) (*PGGuard, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, Schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure guard table: %w", err)
	}
	return &PGGuard{pool: pool}, nil
}

// Close closes the connection pool.
func (g *PGGuard) Close() {
	g.pool.Close()
}

// Contains reports whether id has already been accepted.
func (g *PGGuard) Contains(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := g.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM consumed_transaction_ids WHERE transaction_id = $1)`,
		id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query guard: %w", err)
	}
	return exists, nil
}

// Register records id as consumed. A unique violation means the id was
// already present and is treated as success.
func (g *PGGuard) Register(ctx context.Context, id string) error {
	_, err := g.pool.Exec(ctx, insertSQL, id)
	if err != nil && !isUniqueViolation(err) {
		return fmt.Errorf("register transaction id: %w", err)
	}
	return nil
}

// RegisterTx registers id inside the caller's transaction, so consuming the
// id and crediting the amount commit or roll back together. It returns
// ErrAlreadyConsumed when a concurrent transaction got there first; the
// caller must roll back, leaving no partial credit.
func RegisterTx(ctx context.Context, tx pgx.Tx, id string) error {
	_, err := tx.Exec(ctx, insertSQL, id)
	if isUniqueViolation(err) {
		return ErrAlreadyConsumed
	}
	if err != nil {
		return fmt.Errorf("register transaction id: %w", err)
	}
	return nil
}

// pgErrUniqueViolation is the Postgres unique_violation error code.
const pgErrUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}
