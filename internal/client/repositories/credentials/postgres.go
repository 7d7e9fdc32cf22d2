package credentials

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/dbx"
)

// PostgresRepository implements Repository on top of the pgx stdlib driver.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Credential) (int64, error) {
	query :=
		`INSERT INTO credentials (account_id, account, username, password)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, c.AccountID, c.Account, c.Username, c.Password).Scan(&c.ID); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return c.ID, nil
}

func (r *PostgresRepository) Update(ctx context.Context, accountID, id int64, changes models.CredentialChanges) error {
	if changes.IsEmpty() {
		_, err := r.FindByID(ctx, accountID, id)
		return err
	}

	query :=
		`UPDATE credentials SET
			account = COALESCE($1, account),
			username = COALESCE($2, username),
			password = COALESCE($3, password)
		 WHERE id = $4 AND account_id = $5`

	res, err := r.db.ExecContext(ctx, query,
		dbx.Nullable(changes.Account), blobArg(changes.Username), blobArg(changes.Password), id, accountID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, accountID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) FindByID(ctx context.Context, accountID, id int64) (*models.Credential, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+credentialColumns+` FROM credentials WHERE id = $1 AND account_id = $2`, id, accountID)
	return scanCredential(row)
}

func (r *PostgresRepository) FindByAccount(ctx context.Context, accountID int64) ([]models.Credential, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+credentialColumns+` FROM credentials WHERE account_id = $1 ORDER BY id DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanCredentials(rows)
}

func (r *PostgresRepository) Search(ctx context.Context, accountID int64, term string, fields []string) ([]models.Credential, error) {
	cols, err := searchColumns(fields)
	if err != nil {
		return nil, err
	}

	pattern := likePattern(term)
	conds := make([]string, len(cols))
	args := []any{accountID}
	for i, col := range cols {
		args = append(args, pattern)
		conds[i] = `lower(` + col + `) LIKE $` + strconv.Itoa(len(args)) + ` ESCAPE '\'`
	}

	query := `SELECT ` + credentialColumns + ` FROM credentials
		WHERE account_id = $1 AND (` + strings.Join(conds, " OR ") + `)
		ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scanCredentials(rows)
}
