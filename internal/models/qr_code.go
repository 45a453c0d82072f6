package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QR code types
const (
	QRTypeStatic  = "STATIC"
	QRTypeDynamic = "DYNAMIC"
)

// QR code statuses
const (
	QRStatusActive  = "ACTIVE"
	QRStatusUsed    = "USED"
	QRStatusExpired = "EXPIRED"
)

// QRCode stores an issued QR payload. Static codes identify a merchant;
// dynamic codes carry an amount and expire.
type QRCode struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	MerchantID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"merchant_id"`
	MerchantName string              `json:"merchant_name"`
	Type         string              `gorm:"size:16;not null" json:"type"`
	Payload      string              `gorm:"not null" json:"payload"`
	Amount       decimal.NullDecimal `gorm:"type:numeric(18,3)" json:"amount,omitempty"`
	Currency     string              `gorm:"size:3;not null;default:'TND'" json:"currency"`
	Status       string              `gorm:"size:16;not null;default:'ACTIVE'" json:"status"`
	ExpiresAt    *time.Time          `json:"expires_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

func (q *QRCode) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
