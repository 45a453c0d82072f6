package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Subsidy claim statuses
const (
	SubsidyClaimPaid   = "PAID"
	SubsidyClaimFailed = "FAILED"
)

// SubsidyProgram is a government payout program funded from the treasury
// wallet. Criteria holds eligibility rules as JSON (max_age, role).
type SubsidyProgram struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"not null" json:"name"`
	Amount    decimal.Decimal `gorm:"type:numeric(18,3);not null" json:"amount"`
	Currency  string          `gorm:"size:3;not null;default:'TND'" json:"currency"`
	Criteria  JSON            `gorm:"type:jsonb" json:"criteria"`
	Active    bool            `gorm:"default:true" json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

func (p *SubsidyProgram) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// SubsidyClaim records one user's payout from a program. The claim id is
// the ledger reference id, so a program can pay a user at most once.
type SubsidyClaim struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_claims_program_user" json:"program_id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_claims_program_user" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(18,3);not null" json:"amount"`
	Status    string          `gorm:"size:16;not null" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

func (c *SubsidyClaim) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
