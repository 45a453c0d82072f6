package repositories

import (
	"fmt"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Well-known owner ids of the system-side accounts. The settlement
// account mirrors funds held at the card processor; the treasury account
// funds subsidy payouts.
var (
	SettlementOwnerID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TreasuryOwnerID   = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

// SeedSystemAccounts makes sure the settlement and treasury ASSET
// accounts exist and returns their ids. Safe to run on every startup.
func SeedSystemAccounts(db *gorm.DB) (settlementID, treasuryID uuid.UUID, err error) {
	settlementID, err = ensureSystemAccount(db, SettlementOwnerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("failed to seed settlement account: %w", err)
	}
	treasuryID, err = ensureSystemAccount(db, TreasuryOwnerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("failed to seed treasury account: %w", err)
	}
	return settlementID, treasuryID, nil
}

func ensureSystemAccount(db *gorm.DB, ownerID uuid.UUID) (uuid.UUID, error) {
	account := models.Account{
		OwnerID:  ownerID,
		Currency: "TND",
		Type:     models.AccountTypeAsset,
		Status:   models.AccountStatusActive,
	}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&account).Error
	if err != nil {
		return uuid.Nil, err
	}

	// OnConflict DoNothing leaves the struct id empty when the row
	// already existed; read it back either way.
	var existing models.Account
	if err := db.First(&existing, "owner_id = ? AND currency = ?", ownerID, "TND").Error; err != nil {
		return uuid.Nil, err
	}
	return existing.ID, nil
}
