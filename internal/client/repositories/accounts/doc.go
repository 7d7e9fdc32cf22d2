// Package accounts persists vault owners.
//
// The Repository interface is what the session and account services
// consume. Two implementations exist over dbx.DBTX (a *sql.DB or *sql.Tx):
//
//   - SQLiteRepository:   the default embedded store (modernc.org/sqlite)
//   - PostgresRepository: for a shared server database (pgx stdlib driver)
//
// Lookups that match nothing return common.ErrorNotFound. Inserting an
// email that already exists returns common.ErrDuplicateAccount, detected
// from the driver's unique-constraint error.
//
// Typical Usage
//
//	repo := accounts.NewSQLiteRepository(db)
//	id, err := repo.Create(ctx, &models.Account{Email: "a@b.com", ...})
//	acc, err := repo.FindByEmail(ctx, "a@b.com")
//	err = repo.Update(ctx, id, models.AccountChanges{LockTimer: &lt})
package accounts
