package qr

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/repositories"
	"github.com/M4r3n0/FinTun/internal/services/payment"
	"github.com/M4r3n0/FinTun/internal/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DynamicQRTTL is the validity window of a payment payload.
const DynamicQRTTL = 15 * time.Minute

// Service issues QR codes and settles payments scanned from them.
type Service interface {
	// GenerateMerchantQR issues the merchant's permanent receive code.
	GenerateMerchantQR(ctx context.Context, merchantID uuid.UUID) (*models.QRCode, error)

	// GeneratePaymentQR issues a one-time code for a fixed amount. It
	// expires after DynamicQRTTL and is marked USED once paid.
	GeneratePaymentQR(ctx context.Context, merchantID uuid.UUID, amount decimal.Decimal, currency string) (*models.QRCode, error)

	// PayQRCode settles a scanned payload through the transfer
	// orchestrator. amount is required for merchant codes and ignored
	// for payment codes, which carry their own.
	PayQRCode(ctx context.Context, payerID uuid.UUID, payload string, amount *decimal.Decimal, description string) (*models.Payment, error)

	GetQRCode(ctx context.Context, id uuid.UUID) (*models.QRCode, error)
}

type service struct {
	codes    repositories.QRCodeRepository
	users    repositories.UserRepository
	payments payment.Service
	now      func() time.Time
}

func NewService(codes repositories.QRCodeRepository, users repositories.UserRepository, payments payment.Service) Service {
	if codes == nil {
		panic("qr code repository is required")
	}
	if users == nil {
		panic("user repository is required")
	}
	if payments == nil {
		panic("payment service is required")
	}
	return &service{codes: codes, users: users, payments: payments, now: time.Now}
}

func (s *service) GenerateMerchantQR(ctx context.Context, merchantID uuid.UUID) (*models.QRCode, error) {
	merchant, err := s.merchant(merchantID)
	if err != nil {
		return nil, err
	}

	payload, err := EncodeMerchant(merchant.ID, merchant.FullName)
	if err != nil {
		return nil, err
	}

	code := &models.QRCode{
		MerchantID:   merchant.ID,
		MerchantName: merchant.FullName,
		Type:         models.QRTypeStatic,
		Payload:      payload,
		Status:       models.QRStatusActive,
	}
	if err := s.codes.Create(code); err != nil {
		return nil, fmt.Errorf("failed to store qr code: %w", err)
	}
	return code, nil
}

func (s *service) GeneratePaymentQR(ctx context.Context, merchantID uuid.UUID, amount decimal.Decimal, currency string) (*models.QRCode, error) {
	if !validation.ValidAmount(amount) {
		return nil, payment.ErrInvalidAmount
	}
	if currency == "" {
		currency = "TND"
	}
	if !validation.ValidCurrency(currency) {
		return nil, fmt.Errorf("unsupported currency %q", currency)
	}

	merchant, err := s.merchant(merchantID)
	if err != nil {
		return nil, err
	}

	expires := s.now().Add(DynamicQRTTL)
	payload, err := EncodePayment(merchant.ID, merchant.FullName, amount, currency, expires)
	if err != nil {
		return nil, err
	}

	code := &models.QRCode{
		MerchantID:   merchant.ID,
		MerchantName: merchant.FullName,
		Type:         models.QRTypeDynamic,
		Payload:      payload,
		Amount:       decimal.NullDecimal{Decimal: amount, Valid: true},
		Currency:     currency,
		Status:       models.QRStatusActive,
		ExpiresAt:    &expires,
	}
	if err := s.codes.Create(code); err != nil {
		return nil, fmt.Errorf("failed to store qr code: %w", err)
	}
	return code, nil
}

func (s *service) PayQRCode(ctx context.Context, payerID uuid.UUID, payload string, amount *decimal.Decimal, description string) (*models.Payment, error) {
	decoded, err := Decode(payload)
	if err != nil {
		return nil, err
	}

	code, err := s.codes.GetByPayload(payload)
	if err != nil {
		if errors.Is(err, repositories.ErrQRCodeNotFound) {
			return nil, ErrQRCodeNotFound
		}
		return nil, err
	}
	if code.Status != models.QRStatusActive {
		return nil, ErrNotActive
	}
	if decoded.Expired(s.now()) {
		if err := s.codes.UpdateStatus(code.ID, models.QRStatusExpired); err != nil {
			log.Printf("failed to expire qr code %s: %v", code.ID, err)
		}
		return nil, ErrExpired
	}

	var payAmount decimal.Decimal
	switch code.Type {
	case models.QRTypeDynamic:
		payAmount = code.Amount.Decimal
	default:
		if amount == nil {
			return nil, ErrAmountRequired
		}
		payAmount = *amount
	}

	if description == "" {
		description = "Payment to " + code.MerchantName
	}

	qrID := code.ID.String()
	p, err := s.payments.Transfer(ctx, payment.TransferInput{
		SenderID:    payerID,
		RecipientID: code.MerchantID,
		Amount:      payAmount,
		Currency:    code.Currency,
		Description: description,
		Type:        models.TransactionTypeQRPayment,
		QRCodeID:    &qrID,
	})
	if err != nil {
		return nil, err
	}

	// One-time codes burn on a successful settlement only; a failed
	// payment leaves the code scannable.
	if code.Type == models.QRTypeDynamic && p.Status == models.PaymentStatusCompleted {
		if err := s.codes.UpdateStatus(code.ID, models.QRStatusUsed); err != nil {
			log.Printf("failed to mark qr code %s used: %v", code.ID, err)
		}
	}
	return p, nil
}

func (s *service) GetQRCode(ctx context.Context, id uuid.UUID) (*models.QRCode, error) {
	code, err := s.codes.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrQRCodeNotFound) {
			return nil, ErrQRCodeNotFound
		}
		return nil, err
	}
	return code, nil
}

func (s *service) merchant(id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleMerchant {
		return nil, ErrNotMerchant
	}
	return user, nil
}
