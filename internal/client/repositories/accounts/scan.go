package accounts

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/common"
)

const accountColumns = `id, email, password_hash, key_hash, passcode_hash, salt, theme_color, color_mode, lock_timer`

func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.KeyHash, &a.PasscodeHash,
		&a.Salt, &a.ThemeColor, &a.ColorMode, &a.LockTimer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	return a, nil
}
