package repositories

import (
	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerRepository is the persistence surface of the ledger engine. All
// mutating methods are meant to run inside ExecuteInTransaction so that a
// transaction, its entries, and the touched balances commit as one unit.
type LedgerRepository interface {
	// GetTransactionByReference returns the committed transaction for an
	// idempotency key, or ErrTransactionNotFound.
	GetTransactionByReference(referenceID string) (*models.Transaction, error)

	// CreateTransaction persists a transaction together with its entries.
	// A reference id collision yields ErrDuplicateReference.
	CreateTransaction(tx *models.Transaction) error

	// GetAccountsForUpdate loads and row-locks the given accounts in
	// ascending id order. Ordered acquisition keeps concurrent commits
	// that touch overlapping account sets deadlock-free.
	GetAccountsForUpdate(ids []uuid.UUID) ([]*models.Account, error)

	// UpdateAccountBalance writes a balance computed by the engine.
	UpdateAccountBalance(account *models.Account) error

	// SumEntriesForAccount folds all entries of an account through the
	// sign convention's raw signed amounts. Used as a consistency check
	// against the denormalized balance.
	SumEntriesForAccount(accountID uuid.UUID) (decimal.Decimal, error)

	// ExecuteInTransaction runs fn atomically; either every write inside
	// fn becomes visible or none of them do.
	ExecuteInTransaction(fn func(LedgerRepository) error) error
}
