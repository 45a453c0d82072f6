package repositories

import (
	"errors"
	"fmt"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepository persists orchestrator-side payment records.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id uuid.UUID) (*models.Payment, error)
	Update(payment *models.Payment) error
	ListByOwner(ownerID uuid.UUID, limit, offset int) ([]*models.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *models.Payment) error {
	if err := r.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByID(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepository) Update(payment *models.Payment) error {
	if err := r.db.Save(payment).Error; err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) ListByOwner(ownerID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.Where("sender_id = ? OR recipient_id = ?", ownerID, ownerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
