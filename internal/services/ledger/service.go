package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type service struct {
	repo    repositories.LedgerRepository
	cache   AccountInvalidator
	metrics MetricsCollector
}

// NewService creates a new ledger engine. cache may be nil when no read
// cache is in front of the account store.
func NewService(repo repositories.LedgerRepository, cache AccountInvalidator, metrics MetricsCollector) Service {
	if repo == nil {
		panic("repo is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
	}
}

func (s *service) Apply(ctx context.Context, req ApplyRequest) (*models.Transaction, error) {
	if req.ReferenceID == "" {
		return nil, ErrEmptyReference
	}
	if req.Type == "" {
		return nil, ErrEmptyType
	}
	if len(req.Entries) == 0 {
		return nil, ErrNoEntries
	}

	// Fast replay path. The check is repeated inside the commit, so a miss
	// here is never a correctness problem.
	if existing, err := s.repo.GetTransactionByReference(req.ReferenceID); err == nil {
		s.metrics.RecordReplay(req.ReferenceID)
		return existing, nil
	} else if !errors.Is(err, repositories.ErrTransactionNotFound) {
		return nil, err
	}

	// Conservation check before anything is created or locked. Exact
	// fixed-point comparison, no rounding.
	sum := decimal.Zero
	for _, e := range req.Entries {
		sum = sum.Add(e.Amount)
	}
	if !sum.IsZero() {
		s.metrics.RecordError("apply", "imbalance")
		return nil, &ImbalanceError{Sum: sum}
	}

	var (
		committed *models.Transaction
		touched   []*models.Account
	)
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		// Replay check under the commit's isolation.
		if prev, err := tx.GetTransactionByReference(req.ReferenceID); err == nil {
			committed = prev
			return nil
		} else if !errors.Is(err, repositories.ErrTransactionNotFound) {
			return err
		}

		// All touched accounts are locked together, in ascending id
		// order, before any balance is read for overdraft evaluation.
		ids := entryAccountIDs(req.Entries)
		accounts, err := tx.GetAccountsForUpdate(ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*models.Account, len(accounts))
		for _, acct := range accounts {
			byID[acct.ID] = acct
		}
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				return &AccountNotFoundError{AccountID: id}
			}
		}

		// Evaluate every prospective balance before committing anything.
		prospective := make(map[uuid.UUID]decimal.Decimal, len(accounts))
		for _, acct := range accounts {
			prospective[acct.ID] = acct.Balance
		}
		for _, e := range req.Entries {
			acct := byID[e.AccountID]
			if acct.Status == models.AccountStatusFrozen {
				return &AccountFrozenError{AccountID: acct.ID}
			}
			prospective[acct.ID] = prospective[acct.ID].Add(BalanceDelta(acct.Type, e.Amount))
		}
		for _, acct := range accounts {
			if acct.Type == models.AccountTypeLiability && prospective[acct.ID].IsNegative() {
				return &InsufficientFundsError{AccountID: acct.ID, Balance: acct.Balance}
			}
		}

		txn := &models.Transaction{
			ReferenceID: req.ReferenceID,
			Type:        req.Type,
			Status:      models.TransactionStatusCompleted,
			Description: req.Description,
		}
		for _, e := range req.Entries {
			txn.Entries = append(txn.Entries, models.LedgerEntry{
				AccountID: e.AccountID,
				Amount:    e.Amount,
			})
		}
		if err := tx.CreateTransaction(txn); err != nil {
			return err
		}
		for _, acct := range accounts {
			acct.Balance = prospective[acct.ID]
			if err := tx.UpdateAccountBalance(acct); err != nil {
				return err
			}
		}

		committed = txn
		touched = accounts
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateReference) {
			// Lost the unique-index race on reference_id; the winner's
			// transaction is the idempotent result.
			s.metrics.RecordReplay(req.ReferenceID)
			return s.repo.GetTransactionByReference(req.ReferenceID)
		}
		s.metrics.RecordError("apply", errKind(err))
		return nil, err
	}

	if s.cache != nil {
		for _, acct := range touched {
			if cerr := s.cache.InvalidateAccount(ctx, acct); cerr != nil {
				// Stale cache reads heal on TTL; the commit stands.
				s.metrics.RecordError("cache_invalidate", "redis")
			}
		}
	}
	if len(touched) > 0 {
		s.metrics.RecordTransaction(req.Type, req.Entries[0].Amount.Abs())
	}

	return committed, nil
}

func (s *service) GetByReference(ctx context.Context, referenceID string) (*models.Transaction, error) {
	if referenceID == "" {
		return nil, ErrEmptyReference
	}
	return s.repo.GetTransactionByReference(referenceID)
}

func (s *service) RecomputeBalance(ctx context.Context, accountID uuid.UUID) (*BalanceCheck, error) {
	var check *BalanceCheck
	// Snapshot the balance and the entry fold in one transaction so a
	// concurrent commit cannot show up in only one of them.
	err := s.repo.ExecuteInTransaction(func(tx repositories.LedgerRepository) error {
		accounts, err := tx.GetAccountsForUpdate([]uuid.UUID{accountID})
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			return &AccountNotFoundError{AccountID: accountID}
		}
		acct := accounts[0]

		entrySum, err := tx.SumEntriesForAccount(accountID)
		if err != nil {
			return err
		}
		recomputed := BalanceDelta(acct.Type, entrySum)

		check = &BalanceCheck{
			AccountID:  accountID,
			Stored:     acct.Balance,
			Recomputed: recomputed,
			Consistent: recomputed.Equal(acct.Balance),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to recompute balance: %w", err)
	}
	return check, nil
}

// entryAccountIDs returns the de-duplicated account ids of an entry set in
// ascending byte order, the fixed lock acquisition order.
func entryAccountIDs(entries []EntryRequest) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(entries))
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

func errKind(err error) string {
	switch {
	case errors.Is(err, ErrLedgerImbalance):
		return "imbalance"
	case errors.Is(err, ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, ErrAccountFrozen):
		return "account_frozen"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	default:
		return "internal"
	}
}
