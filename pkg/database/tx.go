package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TxMode selects the kind of unit of work a repository call runs in.
type TxMode int

const (
	// ReadOnly units take no write locks.
	ReadOnly TxMode = iota
	// ReadWrite units run check-then-write sequences atomically.
	ReadWrite
)

func (m TxMode) String() string {
	if m == ReadWrite {
		return "read-write"
	}
	return "read-only"
}

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// TxBeginner starts transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TxOptions returns the pgx options for a unit of work. Write units run
// SERIALIZABLE so two writers racing on the same uniqueness check cannot
// both commit.
func TxOptions(mode TxMode) pgx.TxOptions {
	if mode == ReadWrite {
		return pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadWrite}
	}
	return pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadOnly}
}

// RunInTx runs fn inside a single transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
func RunInTx(ctx context.Context, db TxBeginner, mode TxMode, fn func(tx pgx.Tx) error) error {
	tx, err := db.BeginTx(ctx, TxOptions(mode))
	if err != nil {
		return fmt.Errorf("failed to begin %s transaction: %w", mode, err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Postgres SQLSTATE codes the repositories care about.
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateSerializationFailure = "40001"
)

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateUniqueViolation
}

// IsSerializationFailure reports whether err is a serialization failure raised
// by a concurrent SERIALIZABLE transaction.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateSerializationFailure
}

// IsWriteConflict reports whether a write lost a race against another writer.
func IsWriteConflict(err error) bool {
	return IsUniqueViolation(err) || IsSerializationFailure(err)
}
