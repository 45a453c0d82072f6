package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction types
const (
	TransactionTypeP2P       = "P2P"
	TransactionTypeDeposit   = "DEPOSIT"
	TransactionTypeSubsidy   = "SUBSIDY"
	TransactionTypeQRPayment = "QR_PAYMENT"
)

// Transaction statuses. The ledger never persists a PENDING transaction:
// a transaction either commits as COMPLETED with all of its entries, or it
// is rejected before anything is written.
const (
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
)

// Transaction is one double-entry movement of funds. ReferenceID is the
// caller-supplied idempotency key; replaying it returns this row unchanged.
type Transaction struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ReferenceID string        `gorm:"size:128;uniqueIndex;not null" json:"reference_id"`
	Type        string        `gorm:"size:32;not null" json:"type"`
	Status      string        `gorm:"size:16;not null" json:"status"`
	Description string        `json:"description,omitempty"`
	Entries     []LedgerEntry `gorm:"foreignKey:TransactionID" json:"entries,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// LedgerEntry is one signed amount attached to one account within one
// transaction. The entry amounts of a transaction always sum to zero.
type LedgerEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	AccountID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,3);not null" json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
