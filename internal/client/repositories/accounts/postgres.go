package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// PostgresRepository implements Repository on top of the pgx stdlib driver.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) (int64, error) {
	query :=
		`INSERT INTO accounts (email, password_hash, key_hash, passcode_hash, salt, theme_color, color_mode, lock_timer)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		a.Email, a.PasswordHash, a.KeyHash, a.PasscodeHash, a.Salt, a.ThemeColor, a.ColorMode, int64(a.LockTimer),
	).Scan(&a.ID)
	if err != nil {
		if isPgUniqueViolation(err) {
			return 0, common.ErrDuplicateAccount
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return a.ID, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, changes models.AccountChanges) error {
	if changes.IsEmpty() {
		return nil
	}

	query :=
		`UPDATE accounts SET
			email = COALESCE($1, email),
			password_hash = COALESCE($2, password_hash),
			passcode_hash = COALESCE($3, passcode_hash),
			lock_timer = COALESCE($4, lock_timer)
		 WHERE id = $5`

	res, err := r.db.ExecContext(ctx, query,
		dbx.Nullable(changes.Email), dbx.Nullable(changes.PasswordHash),
		dbx.Nullable(changes.PasscodeHash), lockTimerArg(changes.LockTimer), id)
	if err != nil {
		if isPgUniqueViolation(err) {
			return common.ErrDuplicateAccount
		}
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
