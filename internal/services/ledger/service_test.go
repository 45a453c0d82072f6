package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedgerRepo is an in-memory LedgerRepository. A single mutex
// serializes ExecuteInTransaction, and a snapshot taken at entry is
// restored when fn fails, which gives the same atomicity the real
// implementation gets from postgres.
type fakeLedgerRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*models.Account
	txs      map[string]*models.Transaction
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		accounts: make(map[uuid.UUID]*models.Account),
		txs:      make(map[string]*models.Transaction),
	}
}

func (f *fakeLedgerRepo) seed(account *models.Account) {
	f.accounts[account.ID] = account
}

func (f *fakeLedgerRepo) GetTransactionByReference(ref string) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return (&fakeTxHandle{repo: f}).GetTransactionByReference(ref)
}

func (f *fakeLedgerRepo) CreateTransaction(tx *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return (&fakeTxHandle{repo: f}).CreateTransaction(tx)
}

func (f *fakeLedgerRepo) GetAccountsForUpdate(ids []uuid.UUID) ([]*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return (&fakeTxHandle{repo: f}).GetAccountsForUpdate(ids)
}

func (f *fakeLedgerRepo) UpdateAccountBalance(account *models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return (&fakeTxHandle{repo: f}).UpdateAccountBalance(account)
}

func (f *fakeLedgerRepo) SumEntriesForAccount(accountID uuid.UUID) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return (&fakeTxHandle{repo: f}).SumEntriesForAccount(accountID)
}

func (f *fakeLedgerRepo) ExecuteInTransaction(fn func(repositories.LedgerRepository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	accounts := make(map[uuid.UUID]*models.Account, len(f.accounts))
	for id, acct := range f.accounts {
		copied := *acct
		accounts[id] = &copied
	}
	txs := make(map[string]*models.Transaction, len(f.txs))
	for ref, tx := range f.txs {
		txs[ref] = tx
	}

	if err := fn(&fakeTxHandle{repo: f}); err != nil {
		f.accounts = accounts
		f.txs = txs
		return err
	}
	return nil
}

// fakeTxHandle sees the repository state directly; the outer lock is
// already held by whichever fakeLedgerRepo method created it.
type fakeTxHandle struct {
	repo *fakeLedgerRepo
}

func (h *fakeTxHandle) GetTransactionByReference(ref string) (*models.Transaction, error) {
	if tx, ok := h.repo.txs[ref]; ok {
		return tx, nil
	}
	return nil, repositories.ErrTransactionNotFound
}

func (h *fakeTxHandle) CreateTransaction(tx *models.Transaction) error {
	if _, ok := h.repo.txs[tx.ReferenceID]; ok {
		return repositories.ErrDuplicateReference
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	for i := range tx.Entries {
		if tx.Entries[i].ID == uuid.Nil {
			tx.Entries[i].ID = uuid.New()
		}
		tx.Entries[i].TransactionID = tx.ID
	}
	h.repo.txs[tx.ReferenceID] = tx
	return nil
}

func (h *fakeTxHandle) GetAccountsForUpdate(ids []uuid.UUID) ([]*models.Account, error) {
	accounts := make([]*models.Account, 0, len(ids))
	for _, id := range ids {
		if acct, ok := h.repo.accounts[id]; ok {
			copied := *acct
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

func (h *fakeTxHandle) UpdateAccountBalance(account *models.Account) error {
	stored, ok := h.repo.accounts[account.ID]
	if !ok {
		return repositories.ErrAccountNotFound
	}
	stored.Balance = account.Balance
	return nil
}

func (h *fakeTxHandle) SumEntriesForAccount(accountID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range h.repo.txs {
		for _, e := range tx.Entries {
			if e.AccountID == accountID {
				sum = sum.Add(e.Amount)
			}
		}
	}
	return sum, nil
}

func (h *fakeTxHandle) ExecuteInTransaction(fn func(repositories.LedgerRepository) error) error {
	return fn(h)
}

func liabilityAccount(balance int64) *models.Account {
	return &models.Account{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Currency: "TND",
		Type:     models.AccountTypeLiability,
		Balance:  decimal.NewFromInt(balance),
		Status:   models.AccountStatusActive,
	}
}

func assetAccount(balance int64) *models.Account {
	acct := liabilityAccount(balance)
	acct.Type = models.AccountTypeAsset
	return acct
}

func transferRequest(ref string, from, to uuid.UUID, amount decimal.Decimal) ApplyRequest {
	return ApplyRequest{
		ReferenceID: ref,
		Type:        models.TransactionTypeP2P,
		Entries: []EntryRequest{
			{AccountID: from, Amount: amount},
			{AccountID: to, Amount: amount.Neg()},
		},
	}
}

func balanceOf(t *testing.T, repo *fakeLedgerRepo, id uuid.UUID) decimal.Decimal {
	t.Helper()
	acct, ok := repo.accounts[id]
	require.True(t, ok)
	return acct.Balance
}

func TestApply_Transfer(t *testing.T) {
	repo := newFakeLedgerRepo()
	sender := liabilityAccount(100)
	recipient := liabilityAccount(50)
	repo.seed(sender)
	repo.seed(recipient)

	s := NewService(repo, nil, nil)
	tx, err := s.Apply(context.Background(), transferRequest("ref-1", sender.ID, recipient.ID, decimal.NewFromInt(30)))

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	require.Len(t, tx.Entries, 2)
	assert.True(t, balanceOf(t, repo, sender.ID).Equal(decimal.NewFromInt(70)))
	assert.True(t, balanceOf(t, repo, recipient.ID).Equal(decimal.NewFromInt(80)))

	// Raw entry amounts are preserved and conserve to zero.
	sum := decimal.Zero
	for _, e := range tx.Entries {
		sum = sum.Add(e.Amount)
	}
	assert.True(t, sum.IsZero())
}

func TestApply_DepositIncreasesUserBalance(t *testing.T) {
	repo := newFakeLedgerRepo()
	settlement := assetAccount(0)
	user := liabilityAccount(0)
	repo.seed(settlement)
	repo.seed(user)

	s := NewService(repo, nil, nil)
	amount := decimal.RequireFromString("50.500")
	_, err := s.Apply(context.Background(), ApplyRequest{
		ReferenceID: "deposit-1",
		Type:        models.TransactionTypeDeposit,
		Entries: []EntryRequest{
			{AccountID: settlement.ID, Amount: amount},
			{AccountID: user.ID, Amount: amount.Neg()},
		},
	})

	require.NoError(t, err)
	assert.True(t, balanceOf(t, repo, settlement.ID).Equal(amount))
	assert.True(t, balanceOf(t, repo, user.ID).Equal(amount))
}

func TestApply_RejectsImbalance(t *testing.T) {
	repo := newFakeLedgerRepo()
	a := liabilityAccount(100)
	b := liabilityAccount(100)
	repo.seed(a)
	repo.seed(b)

	s := NewService(repo, nil, nil)
	_, err := s.Apply(context.Background(), ApplyRequest{
		ReferenceID: "bad-1",
		Type:        models.TransactionTypeP2P,
		Entries: []EntryRequest{
			{AccountID: a.ID, Amount: decimal.NewFromInt(10)},
			{AccountID: b.ID, Amount: decimal.NewFromInt(-9)},
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLedgerImbalance)

	var imbalance *ImbalanceError
	require.ErrorAs(t, err, &imbalance)
	assert.True(t, imbalance.Sum.Equal(decimal.NewFromInt(1)))

	assert.True(t, balanceOf(t, repo, a.ID).Equal(decimal.NewFromInt(100)))
	_, err = s.GetByReference(context.Background(), "bad-1")
	assert.ErrorIs(t, err, repositories.ErrTransactionNotFound)
}

func TestApply_OverdraftLeavesStateUntouched(t *testing.T) {
	repo := newFakeLedgerRepo()
	sender := liabilityAccount(100)
	recipient := liabilityAccount(0)
	repo.seed(sender)
	repo.seed(recipient)

	s := NewService(repo, nil, nil)
	_, err := s.Apply(context.Background(), transferRequest("ref-over", sender.ID, recipient.ID, decimal.NewFromInt(200)))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	var insufficient *InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, sender.ID, insufficient.AccountID)

	// Nothing committed, nothing partially applied.
	assert.True(t, balanceOf(t, repo, sender.ID).Equal(decimal.NewFromInt(100)))
	assert.True(t, balanceOf(t, repo, recipient.ID).Equal(decimal.NewFromInt(0)))
	_, err = s.GetByReference(context.Background(), "ref-over")
	assert.ErrorIs(t, err, repositories.ErrTransactionNotFound)
}

func TestApply_ExactBalanceToZero(t *testing.T) {
	repo := newFakeLedgerRepo()
	sender := liabilityAccount(100)
	recipient := liabilityAccount(0)
	repo.seed(sender)
	repo.seed(recipient)

	s := NewService(repo, nil, nil)
	_, err := s.Apply(context.Background(), transferRequest("ref-zero", sender.ID, recipient.ID, decimal.NewFromInt(100)))

	require.NoError(t, err)
	assert.True(t, balanceOf(t, repo, sender.ID).IsZero())
	assert.True(t, balanceOf(t, repo, recipient.ID).Equal(decimal.NewFromInt(100)))
}

func TestApply_FrozenAccount(t *testing.T) {
	repo := newFakeLedgerRepo()
	sender := liabilityAccount(100)
	recipient := liabilityAccount(0)
	recipient.Status = models.AccountStatusFrozen
	repo.seed(sender)
	repo.seed(recipient)

	s := NewService(repo, nil, nil)
	_, err := s.Apply(context.Background(), transferRequest("ref-frozen", sender.ID, recipient.ID, decimal.NewFromInt(10)))

	assert.ErrorIs(t, err, ErrAccountFrozen)
	assert.True(t, balanceOf(t, repo, sender.ID).Equal(decimal.NewFromInt(100)))
}

func TestApply_UnknownAccount(t *testing.T) {
	repo := newFakeLedgerRepo()
	sender := liabilityAccount(100)
	repo.seed(sender)

	s := NewService(repo, nil, nil)
	_, err := s.Apply(context.Background(), transferRequest("ref-missing", sender.ID, uuid.New(), decimal.NewFromInt(10)))

	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestApply_RequestValidation(t *testing.T) {
	s := NewService(newFakeLedgerRepo(), nil, nil)
	ctx := context.Background()

	_, err := s.Apply(ctx, ApplyRequest{Type: "P2P", Entries: []EntryRequest{{}}})
	assert.ErrorIs(t, err, ErrEmptyReference)

	_, err = s.Apply(ctx, ApplyRequest{ReferenceID: "r", Entries: []EntryRequest{{}}})
	assert.ErrorIs(t, err, ErrEmptyType)

	_, err = s.Apply(ctx, ApplyRequest{ReferenceID: "r", Type: "P2P"})
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestApply_ReplayReturnsOriginal(t *testing.T) {
	repo := newFakeLedgerRepo()
	sender := liabilityAccount(100)
	recipient := liabilityAccount(0)
	repo.seed(sender)
	repo.seed(recipient)

	s := NewService(repo, nil, nil)
	req := transferRequest("ref-replay", sender.ID, recipient.ID, decimal.NewFromInt(25))

	first, err := s.Apply(context.Background(), req)
	require.NoError(t, err)

	second, err := s.Apply(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	// Replay must not move funds again.
	assert.True(t, balanceOf(t, repo, sender.ID).Equal(decimal.NewFromInt(75)))
	assert.True(t, balanceOf(t, repo, recipient.ID).Equal(decimal.NewFromInt(25)))
}

func TestApply_ConcurrentTransfersNeverOverdraw(t *testing.T) {
	repo := newFakeLedgerRepo()
	sender := liabilityAccount(100)
	recipient := liabilityAccount(0)
	repo.seed(sender)
	repo.seed(recipient)

	s := NewService(repo, nil, nil)
	amount := decimal.NewFromInt(20)

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.Apply(context.Background(), transferRequest(
				fmt.Sprintf("concurrent-%d", n), sender.ID, recipient.ID, amount))
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientFunds)
		}
	}

	// 100 / 20 fits exactly five transfers; the rest must overdraw.
	assert.Equal(t, 5, succeeded)
	assert.True(t, balanceOf(t, repo, sender.ID).IsZero())
	assert.True(t, balanceOf(t, repo, recipient.ID).Equal(decimal.NewFromInt(100)))
}

func TestRecomputeBalance(t *testing.T) {
	repo := newFakeLedgerRepo()
	settlement := assetAccount(0)
	user := liabilityAccount(0)
	repo.seed(settlement)
	repo.seed(user)

	s := NewService(repo, nil, nil)
	_, err := s.Apply(context.Background(), ApplyRequest{
		ReferenceID: "deposit-1",
		Type:        models.TransactionTypeDeposit,
		Entries: []EntryRequest{
			{AccountID: settlement.ID, Amount: decimal.NewFromInt(80)},
			{AccountID: user.ID, Amount: decimal.NewFromInt(-80)},
		},
	})
	require.NoError(t, err)

	check, err := s.RecomputeBalance(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	assert.True(t, check.Recomputed.Equal(decimal.NewFromInt(80)))

	check, err = s.RecomputeBalance(context.Background(), settlement.ID)
	require.NoError(t, err)
	assert.True(t, check.Consistent)

	// A tampered stored balance is reported, not repaired.
	repo.accounts[user.ID].Balance = decimal.NewFromInt(999)
	check, err = s.RecomputeBalance(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, check.Consistent)
	assert.True(t, check.Stored.Equal(decimal.NewFromInt(999)))
	assert.True(t, check.Recomputed.Equal(decimal.NewFromInt(80)))
}
