package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheService wraps redis with JSON serialization and typed helpers for
// the entities the API reads most.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

// Account caching

func AccountIDKey(id uuid.UUID) string {
	return fmt.Sprintf("account:id:%s", id)
}

func AccountOwnerKey(ownerID uuid.UUID, currency string) string {
	return fmt.Sprintf("account:owner:%s:%s", ownerID, currency)
}

func (s *CacheService) CacheAccount(ctx context.Context, account *models.Account) error {
	keys := []string{
		AccountIDKey(account.ID),
		AccountOwnerKey(account.OwnerID, account.Currency),
	}
	for _, key := range keys {
		if err := s.SetWithTTL(ctx, key, account, 5*time.Minute); err != nil {
			return err
		}
	}
	return nil
}

func (s *CacheService) GetAccount(ctx context.Context, key string) (*models.Account, bool) {
	var account models.Account
	found, err := s.Get(ctx, key, &account)
	if err != nil || !found {
		return nil, false
	}
	return &account, true
}

// InvalidateAccount drops both lookup keys for an account. Called after
// every ledger commit that touches the account's balance.
func (s *CacheService) InvalidateAccount(ctx context.Context, account *models.Account) error {
	return s.Delete(ctx,
		AccountIDKey(account.ID),
		AccountOwnerKey(account.OwnerID, account.Currency),
	)
}
