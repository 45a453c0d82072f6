package payment

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/M4r3n0/FinTun/internal/clients/wallet"
	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/repositories"
	"github.com/M4r3n0/FinTun/internal/validation"
	"github.com/google/uuid"
)

type service struct {
	payments repositories.PaymentRepository
	wallet   wallet.Client
	kyc      KYCChecker
}

// NewService creates the transfer orchestrator. The wallet client is
// injected so the same orchestration drives a remote wallet service, the
// in-process adapter, or a test double. kyc may be nil to disable
// verification checks.
func NewService(payments repositories.PaymentRepository, walletClient wallet.Client, kyc KYCChecker) Service {
	if payments == nil {
		panic("payment repository is required")
	}
	if walletClient == nil {
		panic("wallet client is required")
	}
	return &service{payments: payments, wallet: walletClient, kyc: kyc}
}

func (s *service) Transfer(ctx context.Context, input TransferInput) (*models.Payment, error) {
	if !validation.ValidAmount(input.Amount) {
		return nil, ErrInvalidAmount
	}
	if input.Currency == "" {
		input.Currency = "TND"
	}
	if !validation.ValidCurrency(input.Currency) {
		return nil, fmt.Errorf("unsupported currency %q", input.Currency)
	}
	if input.SenderID == input.RecipientID {
		return nil, ErrSelfTransfer
	}
	if err := s.checkKYC(ctx, input.SenderID, input.RecipientID); err != nil {
		return nil, err
	}

	txType := input.Type
	if txType == "" {
		txType = models.TransactionTypeP2P
	}

	// The payment is recorded before the wallet call so its id exists as
	// the ledger reference id no matter how the call ends.
	payment := &models.Payment{
		ID:          uuid.New(),
		SenderID:    input.SenderID,
		RecipientID: input.RecipientID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Description: input.Description,
		Status:      models.PaymentStatusPending,
		QRCodeID:    input.QRCodeID,
	}
	if err := s.payments.Create(payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return s.execute(ctx, payment, txType)
}

func (s *service) Retry(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error) {
	payment, err := s.payments.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.Status == models.PaymentStatusCompleted {
		return payment, nil
	}

	txType := models.TransactionTypeP2P
	if payment.QRCodeID != nil {
		txType = models.TransactionTypeQRPayment
	}
	return s.execute(ctx, payment, txType)
}

// execute resolves both wallets and drives the ledger commit under the
// payment's stored reference id. It is shared by Transfer and Retry, so a
// replayed commit settles exactly the way the first one would have.
func (s *service) execute(ctx context.Context, payment *models.Payment, txType string) (*models.Payment, error) {
	sender, err := s.wallet.GetAccountByOwner(ctx, payment.SenderID, payment.Currency)
	if err != nil {
		return s.settleError(payment, err, lookupReason(err, ErrSenderNotFound))
	}
	recipient, err := s.wallet.GetAccountByOwner(ctx, payment.RecipientID, payment.Currency)
	if err != nil {
		return s.settleError(payment, err, lookupReason(err, ErrRecipientNotFound))
	}

	_, err = s.wallet.ApplyTransaction(ctx, &wallet.ApplyRequest{
		ReferenceID: payment.ReferenceID(),
		Type:        txType,
		Description: payment.Description,
		Entries: []wallet.Entry{
			{AccountID: sender.ID, Amount: payment.Amount},
			{AccountID: recipient.ID, Amount: payment.Amount.Neg()},
		},
	})
	if err != nil {
		return s.settleError(payment, err, err.Error())
	}

	payment.Status = models.PaymentStatusCompleted
	payment.FailureReason = ""
	if err := s.payments.Update(payment); err != nil {
		// The ledger commit stands; only the orchestrator record is stale.
		log.Printf("payment %s committed but status update failed: %v", payment.ID, err)
	}
	return payment, nil
}

// settleError marks the payment FAILED and records why. On an ambiguous
// failure the ledger commit may still have landed; the reference id stays
// on the row, so a retry re-drives the same apply and the idempotent
// replay settles the question either way.
func (s *service) settleError(payment *models.Payment, cause error, reason string) (*models.Payment, error) {
	payment.Status = models.PaymentStatusFailed
	payment.FailureReason = reason
	if wallet.IsAmbiguous(cause) {
		payment.FailureReason = "outcome unknown: " + reason
	}
	if err := s.payments.Update(payment); err != nil {
		log.Printf("failed to update payment %s after wallet error: %v", payment.ID, err)
	}
	return payment, nil
}

func lookupReason(cause, notFound error) string {
	if errors.Is(cause, wallet.ErrAccountNotFound) {
		return notFound.Error()
	}
	return cause.Error()
}

func (s *service) checkKYC(ctx context.Context, senderID, recipientID uuid.UUID) error {
	if s.kyc == nil {
		return nil
	}
	for _, id := range []uuid.UUID{senderID, recipientID} {
		level, err := s.kyc.KYCLevel(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check KYC for %s: %w", id, err)
		}
		if level != models.KYCLevelVerified {
			return ErrKYCRequired
		}
	}
	return nil
}

func (s *service) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment, err := s.payments.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (s *service) ListPayments(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.payments.ListByOwner(ownerID, limit, offset)
}
