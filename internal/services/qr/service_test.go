package qr

import (
	"context"
	"testing"
	"time"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/services/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQRRepo struct {
	mock.Mock
}

func (m *MockQRRepo) Create(code *models.QRCode) error { return m.Called(code).Error(0) }

func (m *MockQRRepo) GetByID(id uuid.UUID) (*models.QRCode, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QRCode), args.Error(1)
}

func (m *MockQRRepo) GetByPayload(payload string) (*models.QRCode, error) {
	args := m.Called(payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QRCode), args.Error(1)
}

func (m *MockQRRepo) UpdateStatus(id uuid.UUID, status string) error {
	return m.Called(id, status).Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error { return m.Called(user).Error(0) }

func (m *MockUserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByPhone(phone string) (*models.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error { return m.Called(user).Error(0) }

func (m *MockUserRepo) UpdateKYCLevel(id uuid.UUID, level string) error {
	return m.Called(id, level).Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Transfer(ctx context.Context, input payment.TransferInput) (*models.Payment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentService) Retry(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func merchantUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		FullName: "Cafe Sidi Bou",
		Role:     models.RoleMerchant,
		KYCLevel: models.KYCLevelVerified,
	}
}

func TestGenerateMerchantQR(t *testing.T) {
	merchant := merchantUser()

	codes := new(MockQRRepo)
	users := new(MockUserRepo)

	users.On("GetByID", merchant.ID).Return(merchant, nil)
	codes.On("Create", mock.AnythingOfType("*models.QRCode")).Return(nil)

	s := NewService(codes, users, new(MockPaymentService))
	code, err := s.GenerateMerchantQR(context.Background(), merchant.ID)

	require.NoError(t, err)
	assert.Equal(t, models.QRTypeStatic, code.Type)
	assert.Equal(t, models.QRStatusActive, code.Status)

	decoded, err := Decode(code.Payload)
	require.NoError(t, err)
	assert.Equal(t, merchant.ID, decoded.MerchantID)
}

func TestGenerateMerchantQR_RejectsRegularUser(t *testing.T) {
	regular := merchantUser()
	regular.Role = models.RoleUser

	codes := new(MockQRRepo)
	users := new(MockUserRepo)
	users.On("GetByID", regular.ID).Return(regular, nil)

	s := NewService(codes, users, new(MockPaymentService))
	_, err := s.GenerateMerchantQR(context.Background(), regular.ID)

	assert.ErrorIs(t, err, ErrNotMerchant)
	codes.AssertNotCalled(t, "Create", mock.Anything)
}

func TestPayQRCode_DynamicBurnsOnSuccess(t *testing.T) {
	merchant := merchantUser()
	payerID := uuid.New()
	amount := decimal.RequireFromString("45.500")
	expires := time.Now().Add(10 * time.Minute)

	payload, err := EncodePayment(merchant.ID, merchant.FullName, amount, "TND", expires)
	require.NoError(t, err)

	stored := &models.QRCode{
		ID:           uuid.New(),
		MerchantID:   merchant.ID,
		MerchantName: merchant.FullName,
		Type:         models.QRTypeDynamic,
		Payload:      payload,
		Amount:       decimal.NullDecimal{Decimal: amount, Valid: true},
		Currency:     "TND",
		Status:       models.QRStatusActive,
		ExpiresAt:    &expires,
	}

	codes := new(MockQRRepo)
	users := new(MockUserRepo)
	payments := new(MockPaymentService)

	codes.On("GetByPayload", payload).Return(stored, nil)
	payments.On("Transfer", mock.Anything, mock.MatchedBy(func(input payment.TransferInput) bool {
		return input.SenderID == payerID &&
			input.RecipientID == merchant.ID &&
			input.Amount.Equal(amount) &&
			input.Type == models.TransactionTypeQRPayment &&
			input.QRCodeID != nil && *input.QRCodeID == stored.ID.String()
	})).Return(&models.Payment{ID: uuid.New(), Status: models.PaymentStatusCompleted}, nil)
	codes.On("UpdateStatus", stored.ID, models.QRStatusUsed).Return(nil)

	s := NewService(codes, users, payments)
	p, err := s.PayQRCode(context.Background(), payerID, payload, nil, "")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, p.Status)
	codes.AssertExpectations(t)
	payments.AssertExpectations(t)
}

func TestPayQRCode_FailedPaymentKeepsCodeActive(t *testing.T) {
	merchant := merchantUser()
	amount := decimal.NewFromInt(30)
	expires := time.Now().Add(10 * time.Minute)

	payload, err := EncodePayment(merchant.ID, merchant.FullName, amount, "TND", expires)
	require.NoError(t, err)

	stored := &models.QRCode{
		ID:         uuid.New(),
		MerchantID: merchant.ID,
		Type:       models.QRTypeDynamic,
		Payload:    payload,
		Amount:     decimal.NullDecimal{Decimal: amount, Valid: true},
		Currency:   "TND",
		Status:     models.QRStatusActive,
		ExpiresAt:  &expires,
	}

	codes := new(MockQRRepo)
	payments := new(MockPaymentService)

	codes.On("GetByPayload", payload).Return(stored, nil)
	payments.On("Transfer", mock.Anything, mock.Anything).
		Return(&models.Payment{ID: uuid.New(), Status: models.PaymentStatusFailed, FailureReason: "insufficient funds"}, nil)

	s := NewService(codes, new(MockUserRepo), payments)
	p, err := s.PayQRCode(context.Background(), uuid.New(), payload, nil, "")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, p.Status)
	codes.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestPayQRCode_Expired(t *testing.T) {
	merchant := merchantUser()
	expires := time.Now().Add(-time.Minute)

	payload, err := EncodePayment(merchant.ID, merchant.FullName, decimal.NewFromInt(10), "TND", expires)
	require.NoError(t, err)

	stored := &models.QRCode{
		ID:        uuid.New(),
		Type:      models.QRTypeDynamic,
		Payload:   payload,
		Status:    models.QRStatusActive,
		ExpiresAt: &expires,
	}

	codes := new(MockQRRepo)
	payments := new(MockPaymentService)
	codes.On("GetByPayload", payload).Return(stored, nil)
	codes.On("UpdateStatus", stored.ID, models.QRStatusExpired).Return(nil)

	s := NewService(codes, new(MockUserRepo), payments)
	_, err = s.PayQRCode(context.Background(), uuid.New(), payload, nil, "")

	assert.ErrorIs(t, err, ErrExpired)
	payments.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything)
}

func TestPayQRCode_StaticRequiresAmount(t *testing.T) {
	merchant := merchantUser()

	payload, err := EncodeMerchant(merchant.ID, merchant.FullName)
	require.NoError(t, err)

	stored := &models.QRCode{
		ID:           uuid.New(),
		MerchantID:   merchant.ID,
		MerchantName: merchant.FullName,
		Type:         models.QRTypeStatic,
		Payload:      payload,
		Currency:     "TND",
		Status:       models.QRStatusActive,
	}

	codes := new(MockQRRepo)
	payments := new(MockPaymentService)
	codes.On("GetByPayload", payload).Return(stored, nil)

	s := NewService(codes, new(MockUserRepo), payments)
	_, err = s.PayQRCode(context.Background(), uuid.New(), payload, nil, "")
	assert.ErrorIs(t, err, ErrAmountRequired)

	amount := decimal.NewFromInt(12)
	payments.On("Transfer", mock.Anything, mock.MatchedBy(func(input payment.TransferInput) bool {
		return input.Amount.Equal(amount)
	})).Return(&models.Payment{ID: uuid.New(), Status: models.PaymentStatusCompleted}, nil)

	p, err := s.PayQRCode(context.Background(), uuid.New(), payload, &amount, "coffee")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, p.Status)
	// Static codes are reusable and never burn.
	codes.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}
