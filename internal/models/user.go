package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KYC levels
const (
	KYCLevelUnverified = "UNVERIFIED"
	KYCLevelPending    = "PENDING"
	KYCLevelVerified   = "VERIFIED"
)

// User roles
const (
	RoleUser     = "user"
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string     `gorm:"uniqueIndex;not null" json:"phone"`
	Password     string     `gorm:"not null" json:"-"`
	FullName     string     `gorm:"not null" json:"full_name"`
	Role         string     `gorm:"size:16;default:'user'" json:"role"`
	KYCLevel     string     `gorm:"size:16;default:'UNVERIFIED'" json:"kyc_level"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	TokenVersion int        `gorm:"default:1" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CreateUserInput carries registration data into the user service.
type CreateUserInput struct {
	Email       string     `json:"email" validate:"required,email"`
	Phone       string     `json:"phone" validate:"required"`
	Password    string     `json:"password" validate:"required,min=8"`
	FullName    string     `json:"full_name" validate:"required"`
	Role        string     `json:"role" validate:"omitempty,oneof=user merchant"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}
