package account

import (
	"context"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
)

// Service owns account records. Balances are read here but only ever
// written by the ledger engine.
type Service interface {
	CreateAccount(ctx context.Context, ownerID uuid.UUID, currency string, accountType models.AccountType) (*models.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetAccountByOwner(ctx context.Context, ownerID uuid.UUID, currency string) (*models.Account, error)
	ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]*models.Account, error)
	FreezeAccount(ctx context.Context, id uuid.UUID) error
	UnfreezeAccount(ctx context.Context, id uuid.UUID) error
}

// Cache is the read-through cache in front of account lookups.
type Cache interface {
	CacheAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, key string) (*models.Account, bool)
	InvalidateAccount(ctx context.Context, account *models.Account) error
}
