package repositories

import (
	"errors"
	"fmt"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProgramNotFound = errors.New("subsidy program not found")
	ErrClaimExists     = errors.New("subsidy already claimed")
)

// SubsidyRepository persists subsidy programs and claims.
type SubsidyRepository interface {
	CreateProgram(program *models.SubsidyProgram) error
	GetProgram(id uuid.UUID) (*models.SubsidyProgram, error)
	ListActivePrograms() ([]*models.SubsidyProgram, error)
	CreateClaim(claim *models.SubsidyClaim) error
	UpdateClaim(claim *models.SubsidyClaim) error
	ListClaimsByUser(userID uuid.UUID) ([]*models.SubsidyClaim, error)
}

type subsidyRepository struct {
	db *gorm.DB
}

func NewSubsidyRepository(db *gorm.DB) SubsidyRepository {
	return &subsidyRepository{db: db}
}

func (r *subsidyRepository) CreateProgram(program *models.SubsidyProgram) error {
	if err := r.db.Create(program).Error; err != nil {
		return fmt.Errorf("failed to create program: %w", err)
	}
	return nil
}

func (r *subsidyRepository) GetProgram(id uuid.UUID) (*models.SubsidyProgram, error) {
	var program models.SubsidyProgram
	if err := r.db.First(&program, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to get program: %w", err)
	}
	return &program, nil
}

func (r *subsidyRepository) ListActivePrograms() ([]*models.SubsidyProgram, error) {
	var programs []*models.SubsidyProgram
	if err := r.db.Where("active = ?", true).Find(&programs).Error; err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	return programs, nil
}

func (r *subsidyRepository) CreateClaim(claim *models.SubsidyClaim) error {
	if err := r.db.Create(claim).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrClaimExists
		}
		return fmt.Errorf("failed to create claim: %w", err)
	}
	return nil
}

func (r *subsidyRepository) UpdateClaim(claim *models.SubsidyClaim) error {
	if err := r.db.Save(claim).Error; err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}
	return nil
}

func (r *subsidyRepository) ListClaimsByUser(userID uuid.UUID) ([]*models.SubsidyClaim, error) {
	var claims []*models.SubsidyClaim
	if err := r.db.Where("user_id = ?", userID).Find(&claims).Error; err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	return claims, nil
}
