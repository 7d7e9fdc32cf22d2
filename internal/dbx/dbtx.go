// Package dbx holds the database/sql plumbing shared by the account and
// credential repositories: the DBTX handle they are built on, the
// transaction runner behind storage.Store.WithTx and helpers for update
// results and optional columns.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is what a repository needs to run its queries. *sql.DB and *sql.Tx
// both satisfy it, so one repository type serves plain and transactional
// calls.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction on db. It commits when fn returns nil
// and rolls back when fn fails or panics; a panic is re-raised after the
// rollback.
//
// Changing account details reads and writes the account row in one
// transaction, so a concurrent change cannot slip in between:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := accounts.NewSQLiteRepository(tx)
//	    acc, err := repo.FindByID(ctx, accountID)
//	    if err != nil {
//	        return err
//	    }
//	    return repo.Update(ctx, acc.ID, models.AccountChanges{Email: &email})
//	})
//
// The credential repositories are bound to tx the same way.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
