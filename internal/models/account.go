package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountType classifies an account for balance derivation. User wallets
// are LIABILITY accounts: money the platform owes its users.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// AccountStatus is the lifecycle state of an account. Accounts are never
// deleted, only frozen.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusFrozen AccountStatus = "FROZEN"
)

// Account is a ledger account. Balance is a denormalized fold of the
// account's ledger entries and is only ever written inside a ledger commit.
type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_accounts_owner_currency" json:"owner_id"`
	Currency  string          `gorm:"size:3;not null;default:'TND';uniqueIndex:idx_accounts_owner_currency" json:"currency"`
	Type      AccountType     `gorm:"size:16;not null;default:'LIABILITY'" json:"type"`
	Balance   decimal.Decimal `gorm:"type:numeric(18,3);not null;default:0" json:"balance"`
	Status    AccountStatus   `gorm:"size:16;not null;default:'ACTIVE'" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	// Balance always starts at zero; funds only arrive through the ledger.
	a.Balance = decimal.Zero
	if a.Type == "" {
		a.Type = AccountTypeLiability
	}
	if a.Status == "" {
		a.Status = AccountStatusActive
	}
	return nil
}
