package topup

import (
	"context"
	"testing"

	"github.com/M4r3n0/FinTun/internal/clients/wallet"
	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWalletClient struct {
	mock.Mock
}

func (m *MockWalletClient) GetAccount(ctx context.Context, id uuid.UUID) (*wallet.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Account), args.Error(1)
}

func (m *MockWalletClient) GetAccountByOwner(ctx context.Context, ownerID uuid.UUID, currency string) (*wallet.Account, error) {
	args := m.Called(ctx, ownerID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Account), args.Error(1)
}

func (m *MockWalletClient) ApplyTransaction(ctx context.Context, req *wallet.ApplyRequest) (*wallet.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transaction), args.Error(1)
}

type stubCharger struct {
	chargeID    string
	err         error
	gotAmount   int64
	gotCurrency string
	gotSource   string
}

func (s *stubCharger) Charge(amount int64, currency, source, description string) (string, error) {
	s.gotAmount = amount
	s.gotCurrency = currency
	s.gotSource = source
	return s.chargeID, s.err
}

func TestTopUp_Success(t *testing.T) {
	userID := uuid.New()
	settlementID := uuid.New()
	userAccount := &wallet.Account{
		ID:       uuid.New(),
		OwnerID:  userID,
		Currency: "TND",
		Type:     models.AccountTypeLiability,
		Status:   models.AccountStatusActive,
	}

	client := new(MockWalletClient)
	charger := &stubCharger{chargeID: "ch_test_123"}

	client.On("GetAccountByOwner", mock.Anything, userID, "TND").Return(userAccount, nil)
	amount := decimal.RequireFromString("25.500")
	client.On("ApplyTransaction", mock.Anything, mock.MatchedBy(func(req *wallet.ApplyRequest) bool {
		return req.ReferenceID == "ch_test_123" &&
			req.Type == models.TransactionTypeDeposit &&
			len(req.Entries) == 2 &&
			req.Entries[0].AccountID == settlementID &&
			req.Entries[0].Amount.Equal(amount) &&
			req.Entries[1].AccountID == userAccount.ID &&
			req.Entries[1].Amount.Equal(amount.Neg())
	})).Return(&wallet.Transaction{ID: uuid.New(), ReferenceID: "ch_test_123", Status: models.TransactionStatusCompleted}, nil)

	s := NewService(client, charger, settlementID)
	tx, err := s.TopUp(context.Background(), userID, amount, "TND", "tok_visa")

	require.NoError(t, err)
	assert.Equal(t, "ch_test_123", tx.ReferenceID)
	// TND charges in millimes.
	assert.Equal(t, int64(25500), charger.gotAmount)
	assert.Equal(t, "tok_visa", charger.gotSource)
	client.AssertExpectations(t)
}

func TestTopUp_Rejections(t *testing.T) {
	client := new(MockWalletClient)
	s := NewService(client, &stubCharger{chargeID: "ch_x"}, uuid.New())
	ctx := context.Background()

	_, err := s.TopUp(ctx, uuid.New(), decimal.NewFromInt(-5), "TND", "tok_visa")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.TopUp(ctx, uuid.New(), decimal.NewFromInt(5), "GBP", "tok_visa")
	assert.Error(t, err)

	// USD only carries two decimal places.
	_, err = s.TopUp(ctx, uuid.New(), decimal.RequireFromString("5.005"), "USD", "tok_visa")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	client.AssertNotCalled(t, "ApplyTransaction", mock.Anything, mock.Anything)
}

func TestTopUp_MissingWallet(t *testing.T) {
	client := new(MockWalletClient)
	client.On("GetAccountByOwner", mock.Anything, mock.Anything, "TND").Return(nil, wallet.ErrAccountNotFound)

	s := NewService(client, &stubCharger{chargeID: "ch_x"}, uuid.New())
	_, err := s.TopUp(context.Background(), uuid.New(), decimal.NewFromInt(10), "TND", "tok_visa")

	assert.ErrorIs(t, err, ErrWalletNotFound)
}
