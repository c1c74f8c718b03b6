package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner is a DBTX that can open transactions, e.g. *pgxpool.Pool.
type TxBeginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Transactor runs a function inside one unit of work.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// PgxTransactor is the pgx implementation of Transactor.
type PgxTransactor struct {
	db TxBeginner
}

// NewTransactor creates a Transactor over db.
func NewTransactor(db TxBeginner) *PgxTransactor {
	return &PgxTransactor{db: db}
}

// WithinTransaction begins a transaction, runs fn with the transaction stored
// in its context and commits when fn returns nil. Any error or panic rolls
// the transaction back; panics are re-raised after the rollback.
//
// A call made while a transaction is already in ctx joins that transaction.
func (t *PgxTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				zerolog.Ctx(ctx).Error().Err(rbErr).Msg("rollback after panic failed")
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// TxFromContext returns the transaction opened by WithinTransaction, if any.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// Executor returns the transaction in ctx, or fallback outside a transaction.
func Executor(ctx context.Context, fallback DBTX) DBTX {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return fallback
}
