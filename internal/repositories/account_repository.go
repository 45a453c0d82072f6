package repositories

import (
	"errors"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account already exists")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateReference  = errors.New("duplicate transaction reference")
)

// AccountRepository defines the interface for account persistence.
// UpdateBalance is only ever called from inside a ledger commit; nothing
// else writes Account.Balance.
type AccountRepository interface {
	Create(account *models.Account) error
	GetByID(id uuid.UUID) (*models.Account, error)
	GetByOwnerAndCurrency(ownerID uuid.UUID, currency string) (*models.Account, error)
	ListByOwner(ownerID uuid.UUID) ([]*models.Account, error)
	UpdateStatus(id uuid.UUID, status models.AccountStatus) error
}
