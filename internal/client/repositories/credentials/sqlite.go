package credentials

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, c *models.Credential) (int64, error) {
	query := `INSERT INTO credentials (account_id, account, username, password) VALUES (?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, c.AccountID, c.Account, c.Username, c.Password)
	if err != nil {
		return 0, fmt.Errorf("failed to insert credential: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get credential id: %w", err)
	}
	c.ID = id
	return id, nil
}

// Update writes the non-nil fields of changes. An empty change set still
// verifies that the row exists.
func (r *SQLiteRepository) Update(ctx context.Context, accountID, id int64, changes models.CredentialChanges) error {
	if changes.IsEmpty() {
		_, err := r.FindByID(ctx, accountID, id)
		return err
	}

	query := `UPDATE credentials SET
			account = COALESCE(?, account),
			username = COALESCE(?, username),
			password = COALESCE(?, password)
		WHERE id = ? AND account_id = ?`

	res, err := r.db.ExecContext(ctx, query,
		dbx.Nullable(changes.Account), blobArg(changes.Username), blobArg(changes.Password), id, accountID)
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, accountID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = ? AND account_id = ?`, id, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, accountID, id int64) (*models.Credential, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+credentialColumns+` FROM credentials WHERE id = ? AND account_id = ?`, id, accountID)
	return scanCredential(row)
}

func (r *SQLiteRepository) FindByAccount(ctx context.Context, accountID int64) ([]models.Credential, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+credentialColumns+` FROM credentials WHERE account_id = ? ORDER BY id DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to select credentials: %w", err)
	}
	return scanCredentials(rows)
}

// Search filters the account's rows in Go. SQLite's lower() folds ASCII
// only, so matching is done with Unicode case folding instead.
func (r *SQLiteRepository) Search(ctx context.Context, accountID int64, term string, fields []string) ([]models.Credential, error) {
	cols, err := searchColumns(fields)
	if err != nil {
		return nil, err
	}

	rows, err := r.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to search credentials: %w", err)
	}

	found := make([]models.Credential, 0, len(rows))
	for _, c := range rows {
		if matches(c, cols, term) {
			found = append(found, c)
		}
	}
	return found, nil
}
