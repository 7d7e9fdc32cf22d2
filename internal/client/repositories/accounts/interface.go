package accounts

import (
	"context"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
)

// Repository describes persistence of Account records.
type Repository interface {
	// Create inserts a new account, stores the generated id in a.ID and
	// returns it.
	Create(ctx context.Context, a *models.Account) (int64, error)

	// FindByEmail returns the account with the given email.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)

	// FindByID returns the account with the given id.
	FindByID(ctx context.Context, id int64) (*models.Account, error)

	// Update overwrites the non-nil fields of changes.
	Update(ctx context.Context, id int64, changes models.AccountChanges) error
}
