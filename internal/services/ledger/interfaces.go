package ledger

import (
	"context"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
)

// Service is the ledger engine. Apply is the only way funds move.
type Service interface {
	// Apply validates and atomically commits one transaction. A known
	// reference id returns the original transaction unchanged with no
	// side effects, which makes Apply safe under at-least-once delivery.
	Apply(ctx context.Context, req ApplyRequest) (*models.Transaction, error)

	// GetByReference returns the committed transaction for a reference
	// id, or ErrTransactionNotFound from the repository layer.
	GetByReference(ctx context.Context, referenceID string) (*models.Transaction, error)

	// RecomputeBalance folds all entries for an account and compares the
	// result with the stored balance.
	RecomputeBalance(ctx context.Context, accountID uuid.UUID) (*BalanceCheck, error)
}

// AccountInvalidator drops cached reads of an account after its balance
// changes. The redis cache service implements it.
type AccountInvalidator interface {
	InvalidateAccount(ctx context.Context, account *models.Account) error
}
