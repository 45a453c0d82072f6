package user

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/repositories"
	"github.com/M4r3n0/FinTun/internal/services/account"
	"github.com/M4r3n0/FinTun/internal/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrInvalidKYCLevel = errors.New("invalid kyc level")
)

// Service owns identity records. Registration also opens the user's TND
// wallet so every registered user can receive funds immediately.
type Service interface {
	Register(ctx context.Context, input models.CreateUserInput) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateKYCLevel(ctx context.Context, id uuid.UUID, level string) error

	// KYCLevel implements the verification check the transfer
	// orchestrator runs on both parties.
	KYCLevel(ctx context.Context, userID uuid.UUID) (string, error)
}

type service struct {
	users    repositories.UserRepository
	accounts account.Service
}

func NewService(users repositories.UserRepository, accounts account.Service) Service {
	if users == nil {
		panic("user repository is required")
	}
	if accounts == nil {
		panic("account service is required")
	}
	return &service{users: users, accounts: accounts}
}

func (s *service) Register(ctx context.Context, input models.CreateUserInput) (*models.User, error) {
	if err := validation.Validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid registration input: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	newUser := &models.User{
		ID:          uuid.New(),
		Email:       input.Email,
		Phone:       input.Phone,
		Password:    string(hashed),
		FullName:    input.FullName,
		Role:        role,
		KYCLevel:    models.KYCLevelUnverified,
		DateOfBirth: input.DateOfBirth,
	}
	if err := s.users.Create(newUser); err != nil {
		if errors.Is(err, repositories.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	if _, err := s.accounts.CreateAccount(ctx, newUser.ID, "TND", models.AccountTypeLiability); err != nil {
		// The user record stands; the wallet can be opened on first use.
		log.Printf("failed to open wallet for user %s: %v", newUser.ID, err)
	}

	return newUser, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *service) UpdateKYCLevel(ctx context.Context, id uuid.UUID, level string) error {
	switch level {
	case models.KYCLevelUnverified, models.KYCLevelPending, models.KYCLevelVerified:
	default:
		return ErrInvalidKYCLevel
	}
	if err := s.users.UpdateKYCLevel(id, level); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *service) KYCLevel(ctx context.Context, userID uuid.UUID) (string, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return u.KYCLevel, nil
}
