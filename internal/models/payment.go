package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment statuses. PENDING payments are transient; COMPLETED and FAILED
// are terminal, except that a FAILED payment whose ledger call ended
// ambiguously may still be reconciled to COMPLETED by a retry.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// Payment is the orchestrator-side record of a transfer. Its ID doubles as
// the ledger reference id, which is the only recovery handle after an
// ambiguous remote failure and must never be discarded.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sender_id"`
	RecipientID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(18,3);not null" json:"amount"`
	Currency      string          `gorm:"size:3;not null;default:'TND'" json:"currency"`
	Description   string          `json:"description,omitempty"`
	Status        string          `gorm:"size:16;not null;default:'PENDING'" json:"status"`
	FailureReason string          `json:"failure_reason,omitempty"`
	QRCodeID      *string         `gorm:"size:64" json:"qr_code_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ReferenceID returns the idempotency key this payment uses for its ledger
// transaction.
func (p *Payment) ReferenceID() string {
	return p.ID.String()
}
