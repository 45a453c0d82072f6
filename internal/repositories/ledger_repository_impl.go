package repositories

import (
	"errors"
	"fmt"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetTransactionByReference(referenceID string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.Preload("Entries").First(&tx, "reference_id = ?", referenceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *ledgerRepository) CreateTransaction(tx *models.Transaction) error {
	if err := r.db.Create(tx).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *ledgerRepository) GetAccountsForUpdate(ids []uuid.UUID) ([]*models.Account, error) {
	var accounts []*models.Account
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	return accounts, nil
}

func (r *ledgerRepository) UpdateAccountBalance(account *models.Account) error {
	result := r.db.Model(&models.Account{}).
		Where("id = ?", account.ID).
		Update("balance", account.Balance)
	if result.Error != nil {
		return fmt.Errorf("failed to update balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *ledgerRepository) SumEntriesForAccount(accountID uuid.UUID) (decimal.Decimal, error) {
	var raw string
	err := r.db.Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("account_id = ?", accountID).
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum entries: %w", err)
	}
	sum, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid entry sum %q: %w", raw, err)
	}
	return sum, nil
}

func (r *ledgerRepository) ExecuteInTransaction(fn func(LedgerRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepository{db: tx})
	})
}
