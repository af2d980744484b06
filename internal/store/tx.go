package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/resolutionlab/coach/internal/domain"
)

// DB is the subset of pgx shared by pools and transactions, so a store can
// run its queries against either.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Tx runs callbacks inside a single database transaction, handing them
// outcome and stat stores bound to that transaction. An error from the
// callback rolls everything back.
type Tx struct {
	pool *pgxpool.Pool
}

func NewTx(pool *pgxpool.Pool) *Tx {
	return &Tx{pool: pool}
}

func (t *Tx) InTx(ctx context.Context, fn func(outcomes domain.OutcomeStore, stats domain.StrategyStatStore) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&OutcomeStore{db: tx}, &StrategyStatStore{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

var _ domain.Transactor = (*Tx)(nil)
