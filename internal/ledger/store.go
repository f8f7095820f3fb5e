// Package ledger is the storage harness shared by every balance-mutating
// operation: it runs all-or-nothing units of work, hands out exclusive row
// locks with a bounded wait, and applies relative updates so that balances
// are never read-modify-written in memory.
//
// Lock ordering is fixed: the User row is always locked before any
// PhoneNumber or transaction row paired with it, and rows of the same type
// are locked in ascending id order. Every multi-row operation must follow
// this order to stay deadlock free.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Store struct {
	db          *sqlx.DB
	lockTimeout time.Duration
}

func New(db *sqlx.DB, lockTimeout time.Duration) *Store {
	return &Store{db: db, lockTimeout: lockTimeout}
}

// DB exposes the underlying handle for read-only repositories that do not
// take part in units of work.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// WithinTx runs fn as a single unit of work. Everything fn does is committed
// together or rolled back together; there is no partial application. Row
// lock waits inside fn are bounded by the store's lock timeout and surface
// as ErrBusy.
func (s *Store) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return MapError(err)
	}
	defer tx.Rollback()

	if s.lockTimeout > 0 {
		timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, timeout); err != nil {
			return MapError(err)
		}
	}

	if err := fn(tx); err != nil {
		return err
	}

	return MapError(tx.Commit())
}

// UserRow is the locked view of a user's balance inside a unit of work.
type UserRow struct {
	ID     int   `db:"id"`
	Credit int64 `db:"credit"`
}

// LockUser takes the exclusive row lock on a user for the remainder of the
// unit of work and returns the balance as of the lock acquisition. Balance
// checks must happen against this value, never against a pre-lock read.
func LockUser(ctx context.Context, tx *sqlx.Tx, userID int) (*UserRow, error) {
	row := &UserRow{}
	err := tx.QueryRowxContext(ctx,
		`SELECT id, credit FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).StructScan(row)
	if err != nil {
		return nil, MapError(err)
	}
	return row, nil
}

// deltaColumns whitelists the (table, column) pairs ApplyDelta may touch.
// Identifiers cannot be bound as query parameters.
var deltaColumns = map[string]map[string]bool{
	"users":         {"credit": true},
	"phone_numbers": {"current_charge": true},
}

// ApplyDelta applies a signed relative update directly at the store layer.
// Concurrent deltas on the same row serialize on the row lock without any
// caller holding the prior value in memory, so no update can be lost.
func ApplyDelta(ctx context.Context, tx *sqlx.Tx, table, column string, id int, delta int64) error {
	if !deltaColumns[table][column] {
		return fmt.Errorf("delta not allowed on %s.%s", table, column)
	}

	query := fmt.Sprintf(
		`UPDATE %s SET %s = %s + $1, updated_at = NOW() WHERE id = $2`,
		table, column, column,
	)
	res, err := tx.ExecContext(ctx, query, delta, id)
	if err != nil {
		return MapError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MapError translates driver errors into the store's taxonomy.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "55P03": // lock_not_available
			return ErrBusy
		case "23514": // check_violation
			return ErrInvalidState
		case "23503": // foreign_key_violation
			return ErrProtected
		}
	}
	return err
}
