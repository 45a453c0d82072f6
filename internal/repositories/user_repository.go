package repositories

import (
	"errors"
	"fmt"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// UserRepository persists identity records.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	Update(user *models.User) error
	UpdateKYCLevel(id uuid.UUID, level string) error
	IncrementTokenVersion(id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(id uuid.UUID) (*models.User, error) {
	return r.getOne("id = ?", id)
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne("email = ?", email)
}

func (r *userRepository) GetByPhone(phone string) (*models.User, error) {
	return r.getOne("phone = ?", phone)
}

func (r *userRepository) getOne(query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateKYCLevel(id uuid.UUID, level string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Update("kyc_level", level)
	if result.Error != nil {
		return fmt.Errorf("failed to update kyc level: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) IncrementTokenVersion(id uuid.UUID) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment token version: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
