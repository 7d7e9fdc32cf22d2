package credentials

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/common"
)

const credentialColumns = `id, account_id, account, username, password`

func scanCredential(row *sql.Row) (*models.Credential, error) {
	c := &models.Credential{}
	if err := row.Scan(&c.ID, &c.AccountID, &c.Account, &c.Username, &c.Password); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return c, nil
}

func scanCredentials(rows *sql.Rows) ([]models.Credential, error) {
	defer rows.Close()

	var result []models.Credential
	for rows.Next() {
		var c models.Credential
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Account, &c.Username, &c.Password); err != nil {
			return nil, fmt.Errorf("failed to scan credential row: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credential rows: %w", err)
	}
	return result, nil
}
