package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/repositories"
	"github.com/M4r3n0/FinTun/internal/repositories/cache"
	"github.com/M4r3n0/FinTun/internal/validation"
	"github.com/google/uuid"
)

type service struct {
	repo  repositories.AccountRepository
	cache Cache
}

// NewService creates the account store service. cache may be nil.
func NewService(repo repositories.AccountRepository, cache Cache) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{
		repo:  repo,
		cache: cache,
	}
}

func (s *service) CreateAccount(ctx context.Context, ownerID uuid.UUID, currency string, accountType models.AccountType) (*models.Account, error) {
	if !validation.ValidCurrency(currency) {
		return nil, ErrInvalidCurrency
	}
	if accountType == "" {
		accountType = models.AccountTypeLiability
	}

	// One account per (owner, currency); the unique index backs this up
	// against races.
	if _, err := s.repo.GetByOwnerAndCurrency(ownerID, currency); err == nil {
		return nil, ErrAccountExists
	} else if !errors.Is(err, repositories.ErrAccountNotFound) {
		return nil, err
	}

	account := &models.Account{
		OwnerID:  ownerID,
		Currency: currency,
		Type:     accountType,
		Status:   models.AccountStatusActive,
	}
	if err := s.repo.Create(account); err != nil {
		if errors.Is(err, repositories.ErrAccountExists) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.CacheAccount(ctx, account)
	}
	return account, nil
}

func (s *service) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	if s.cache != nil {
		if acct, ok := s.cache.GetAccount(ctx, cache.AccountIDKey(id)); ok {
			return acct, nil
		}
	}

	account, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.CacheAccount(ctx, account)
	}
	return account, nil
}

func (s *service) GetAccountByOwner(ctx context.Context, ownerID uuid.UUID, currency string) (*models.Account, error) {
	if s.cache != nil {
		if acct, ok := s.cache.GetAccount(ctx, cache.AccountOwnerKey(ownerID, currency)); ok {
			return acct, nil
		}
	}

	account, err := s.repo.GetByOwnerAndCurrency(ownerID, currency)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.CacheAccount(ctx, account)
	}
	return account, nil
}

func (s *service) ListAccounts(ctx context.Context, ownerID uuid.UUID) ([]*models.Account, error) {
	return s.repo.ListByOwner(ownerID)
}

func (s *service) FreezeAccount(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, models.AccountStatusFrozen)
}

func (s *service) UnfreezeAccount(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, models.AccountStatusActive)
}

func (s *service) setStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) error {
	account, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if err := s.repo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.InvalidateAccount(ctx, account)
	}
	return nil
}
