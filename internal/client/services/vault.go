package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/passkeeper/internal/client/validation"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/cryptox"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
)

// KeyProvider hands out the vault key of the current session.
// *session.Controller implements it; it fails when nobody is logged in.
type KeyProvider interface {
	SessionKey() (accountID int64, key []byte, err error)
}

// CredentialUpdate lists fields to replace. Nil keeps the stored value;
// a provided value must not be empty.
type CredentialUpdate struct {
	Account  *string
	Username *string
	Password *string
}

// VaultService manages the credentials of the logged-in account.
// Every method requires a logged-in session. Whether decrypted fields may
// be shown while the vault is locked is decided by the caller.
type VaultService interface {
	Create(ctx context.Context, account, username, password string) (*models.Credential, error)
	Update(ctx context.Context, id int64, u CredentialUpdate) (*models.Credential, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Credential, error)
	List(ctx context.Context) ([]models.Credential, error)

	// DecryptForDisplay opens the username and password of c.
	DecryptForDisplay(c models.Credential) (username, password string, err error)

	Entry(ctx context.Context, id int64) (models.DisplayEntry, error)

	// Entries decrypts every credential, newest first. A row that fails
	// its integrity check is returned with Err set instead of failing the
	// whole listing.
	Entries(ctx context.Context) ([]models.DisplayEntry, error)

	// Search matches term against clear-text fields ("account" when none
	// are given). An empty term lists everything.
	Search(ctx context.Context, term string, fields ...string) ([]models.DisplayEntry, error)
}

type vaultService struct {
	keys KeyProvider
	repo credentials.Repository
	log  logging.Logger
}

func NewVaultService(keys KeyProvider, repo credentials.Repository, logger logging.Logger) VaultService {
	return &vaultService{keys: keys, repo: repo, log: logger}
}

// withKey runs fn with the session key and wipes the key afterwards.
func (s *vaultService) withKey(fn func(accountID int64, key []byte) error) error {
	accountID, key, err := s.keys.SessionKey()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)
	return fn(accountID, key)
}

func encrypt(plaintext string, key []byte) ([]byte, error) {
	blob, err := cryptox.EncryptField(plaintext, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return blob, nil
}

func (s *vaultService) Create(ctx context.Context, account, username, password string) (*models.Credential, error) {
	err := validation.Validate(ctx,
		validation.Field{Name: "web/app", Value: account, Rules: []validation.Rule{validation.Required()}},
		validation.Field{Name: "username", Value: username, Rules: []validation.Rule{validation.Required()}},
		validation.Field{Name: "password", Value: password, Rules: []validation.Rule{validation.Required()}},
	)
	if err != nil {
		return nil, err
	}

	var c *models.Credential
	err = s.withKey(func(accountID int64, key []byte) error {
		u, err := encrypt(username, key)
		if err != nil {
			return err
		}
		p, err := encrypt(password, key)
		if err != nil {
			return err
		}

		c = &models.Credential{AccountID: accountID, Account: account, Username: u, Password: p}
		if _, err := s.repo.Create(ctx, c); err != nil {
			return fmt.Errorf("saving error: %w", err)
		}
		s.log.Info(ctx, "credential created", "account_id", accountID, "credential_id", c.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *vaultService) Update(ctx context.Context, id int64, u CredentialUpdate) (*models.Credential, error) {
	var fields []validation.Field
	if u.Account != nil {
		fields = append(fields, validation.Field{Name: "web/app", Value: *u.Account, Rules: []validation.Rule{validation.Required()}})
	}
	if u.Username != nil {
		fields = append(fields, validation.Field{Name: "username", Value: *u.Username, Rules: []validation.Rule{validation.Required()}})
	}
	if u.Password != nil {
		fields = append(fields, validation.Field{Name: "password", Value: *u.Password, Rules: []validation.Rule{validation.Required()}})
	}
	if err := validation.Validate(ctx, fields...); err != nil {
		return nil, err
	}

	var c *models.Credential
	err := s.withKey(func(accountID int64, key []byte) error {
		changes := models.CredentialChanges{Account: u.Account}
		var err error
		if u.Username != nil {
			if changes.Username, err = encrypt(*u.Username, key); err != nil {
				return err
			}
		}
		if u.Password != nil {
			if changes.Password, err = encrypt(*u.Password, key); err != nil {
				return err
			}
		}

		if err := s.repo.Update(ctx, accountID, id, changes); err != nil {
			return fmt.Errorf("error updating credential: %w", err)
		}
		if c, err = s.repo.FindByID(ctx, accountID, id); err != nil {
			return fmt.Errorf("error retrieving credential: %w", err)
		}
		s.log.Info(ctx, "credential updated", "account_id", accountID, "credential_id", id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *vaultService) Delete(ctx context.Context, id int64) error {
	return s.withKey(func(accountID int64, _ []byte) error {
		if err := s.repo.Delete(ctx, accountID, id); err != nil {
			return fmt.Errorf("error deleting credential: %w", err)
		}
		s.log.Info(ctx, "credential deleted", "account_id", accountID, "credential_id", id)
		return nil
	})
}

func (s *vaultService) Get(ctx context.Context, id int64) (*models.Credential, error) {
	var c *models.Credential
	err := s.withKey(func(accountID int64, _ []byte) error {
		var err error
		if c, err = s.repo.FindByID(ctx, accountID, id); err != nil {
			return fmt.Errorf("error retrieving credential: %w", err)
		}
		return nil
	})
	return c, err
}

func (s *vaultService) List(ctx context.Context) ([]models.Credential, error) {
	var list []models.Credential
	err := s.withKey(func(accountID int64, _ []byte) error {
		var err error
		if list, err = s.repo.FindByAccount(ctx, accountID); err != nil {
			return fmt.Errorf("error listing credentials: %w", err)
		}
		return nil
	})
	return list, err
}

func (s *vaultService) DecryptForDisplay(c models.Credential) (string, string, error) {
	var username, password string
	err := s.withKey(func(accountID int64, key []byte) error {
		if c.AccountID != accountID {
			return common.ErrorNotFound
		}
		var err error
		username, password, err = open(c, key)
		return err
	})
	return username, password, err
}

func open(c models.Credential, key []byte) (string, string, error) {
	username, err := cryptox.DecryptField(c.Username, key)
	if err != nil {
		return "", "", err
	}
	password, err := cryptox.DecryptField(c.Password, key)
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}

// display decrypts rows; integrity failures are kept per row.
func (s *vaultService) display(ctx context.Context, rows []models.Credential, key []byte) ([]models.DisplayEntry, error) {
	result := make([]models.DisplayEntry, 0, len(rows))
	for _, row := range rows {
		e := models.DisplayEntry{ID: row.ID, Account: row.Account}
		username, password, err := open(row, key)
		switch {
		case err == nil:
			e.Username, e.Password = username, password
		case errors.Is(err, cryptox.ErrIntegrity):
			s.log.Warn(ctx, "credential failed integrity check", "account_id", row.AccountID, "credential_id", row.ID)
			e.Err = err
		default:
			return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		result = append(result, e)
	}
	return result, nil
}

func (s *vaultService) Entry(ctx context.Context, id int64) (models.DisplayEntry, error) {
	var entry models.DisplayEntry
	err := s.withKey(func(accountID int64, key []byte) error {
		c, err := s.repo.FindByID(ctx, accountID, id)
		if err != nil {
			return fmt.Errorf("error retrieving credential: %w", err)
		}
		entries, err := s.display(ctx, []models.Credential{*c}, key)
		if err != nil {
			return err
		}
		entry = entries[0]
		return nil
	})
	return entry, err
}

func (s *vaultService) Entries(ctx context.Context) ([]models.DisplayEntry, error) {
	var result []models.DisplayEntry
	err := s.withKey(func(accountID int64, key []byte) error {
		rows, err := s.repo.FindByAccount(ctx, accountID)
		if err != nil {
			return fmt.Errorf("error listing credentials: %w", err)
		}
		result, err = s.display(ctx, rows, key)
		return err
	})
	return result, err
}

func (s *vaultService) Search(ctx context.Context, term string, fields ...string) ([]models.DisplayEntry, error) {
	if term == "" {
		return s.Entries(ctx)
	}

	var result []models.DisplayEntry
	err := s.withKey(func(accountID int64, key []byte) error {
		rows, err := s.repo.Search(ctx, accountID, term, fields)
		if err != nil {
			return fmt.Errorf("error searching credentials: %w", err)
		}
		result, err = s.display(ctx, rows, key)
		return err
	})
	return result, err
}
