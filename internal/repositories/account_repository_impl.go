package repositories

import (
	"errors"
	"fmt"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(account *models.Account) error {
	result := r.db.Create(account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrAccountExists
		}
		return fmt.Errorf("failed to create account: %w", result.Error)
	}
	return nil
}

func (r *accountRepository) GetByID(id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) GetByOwnerAndCurrency(ownerID uuid.UUID, currency string) (*models.Account, error) {
	var account models.Account
	err := r.db.First(&account, "owner_id = ? AND currency = ?", ownerID, currency).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) ListByOwner(ownerID uuid.UUID) ([]*models.Account, error) {
	var accounts []*models.Account
	if err := r.db.Where("owner_id = ?", ownerID).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) UpdateStatus(id uuid.UUID, status models.AccountStatus) error {
	result := r.db.Model(&models.Account{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update account status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
