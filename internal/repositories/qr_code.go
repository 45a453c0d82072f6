package repositories

import (
	"errors"
	"fmt"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrQRCodeNotFound = errors.New("qr code not found")

// QRCodeRepository persists issued QR codes.
type QRCodeRepository interface {
	Create(code *models.QRCode) error
	GetByID(id uuid.UUID) (*models.QRCode, error)
	GetByPayload(payload string) (*models.QRCode, error)
	UpdateStatus(id uuid.UUID, status string) error
}

type qrCodeRepository struct {
	db *gorm.DB
}

func NewQRCodeRepository(db *gorm.DB) QRCodeRepository {
	return &qrCodeRepository{db: db}
}

func (r *qrCodeRepository) Create(code *models.QRCode) error {
	if err := r.db.Create(code).Error; err != nil {
		return fmt.Errorf("failed to create qr code: %w", err)
	}
	return nil
}

func (r *qrCodeRepository) GetByID(id uuid.UUID) (*models.QRCode, error) {
	var code models.QRCode
	if err := r.db.First(&code, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQRCodeNotFound
		}
		return nil, fmt.Errorf("failed to get qr code: %w", err)
	}
	return &code, nil
}

func (r *qrCodeRepository) GetByPayload(payload string) (*models.QRCode, error) {
	var code models.QRCode
	if err := r.db.First(&code, "payload = ?", payload).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQRCodeNotFound
		}
		return nil, fmt.Errorf("failed to get qr code: %w", err)
	}
	return &code, nil
}

func (r *qrCodeRepository) UpdateStatus(id uuid.UUID, status string) error {
	result := r.db.Model(&models.QRCode{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update qr code status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrQRCodeNotFound
	}
	return nil
}
