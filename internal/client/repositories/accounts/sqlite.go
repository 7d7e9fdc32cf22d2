package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/dbx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Account) (int64, error) {
	query := `INSERT INTO accounts (email, password_hash, key_hash, passcode_hash, salt, theme_color, color_mode, lock_timer)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		a.Email, a.PasswordHash, a.KeyHash, a.PasscodeHash, a.Salt, a.ThemeColor, a.ColorMode, int64(a.LockTimer))
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return 0, common.ErrDuplicateAccount
		}
		return 0, fmt.Errorf("failed to insert account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get account id: %w", err)
	}
	a.ID = id
	return id, nil
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

// Update writes the non-nil fields of changes. An empty change set is a no-op.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, changes models.AccountChanges) error {
	if changes.IsEmpty() {
		return nil
	}

	query := `UPDATE accounts SET
			email = COALESCE(?, email),
			password_hash = COALESCE(?, password_hash),
			passcode_hash = COALESCE(?, passcode_hash),
			lock_timer = COALESCE(?, lock_timer)
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		dbx.Nullable(changes.Email), dbx.Nullable(changes.PasswordHash),
		dbx.Nullable(changes.PasscodeHash), lockTimerArg(changes.LockTimer), id)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return common.ErrDuplicateAccount
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func lockTimerArg(t *models.LockTimer) any {
	if t == nil {
		return nil
	}
	return int64(*t)
}

func isSQLiteUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	// primary result code only, when extended codes are off
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}
