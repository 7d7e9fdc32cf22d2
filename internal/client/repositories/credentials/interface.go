package credentials

import (
	"context"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
)

// Repository describes persistence of Credential records.
type Repository interface {
	// Create inserts c, stores the generated id in c.ID and returns it.
	Create(ctx context.Context, c *models.Credential) (int64, error)

	// Update overwrites the non-nil fields of changes on the row (accountID, id).
	Update(ctx context.Context, accountID, id int64, changes models.CredentialChanges) error

	// Delete removes the row permanently.
	Delete(ctx context.Context, accountID, id int64) error

	// FindByID returns a single credential owned by accountID.
	FindByID(ctx context.Context, accountID, id int64) (*models.Credential, error)

	// FindByAccount lists every credential of accountID, newest first.
	FindByAccount(ctx context.Context, accountID int64) ([]models.Credential, error)

	// Search does a case-insensitive substring match of term over the
	// given clear-text fields. No fields means "account".
	Search(ctx context.Context, accountID int64, term string, fields []string) ([]models.Credential, error)
}
