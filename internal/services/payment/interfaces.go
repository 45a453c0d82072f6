package payment

import (
	"context"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service orchestrates transfers between user wallets. It records a
// payment before calling the wallet service and settles the record from
// the ledger outcome.
type Service interface {
	// Transfer moves amount from sender to recipient. Business failures
	// (insufficient funds, frozen or missing recipient account) return
	// the payment with status FAILED and a nil error; an error return
	// means the transfer was rejected before any payment was recorded.
	Transfer(ctx context.Context, input TransferInput) (*models.Payment, error)

	// Retry re-drives a PENDING or FAILED payment using its original
	// reference id. After an ambiguous wallet failure this either
	// confirms the earlier commit or applies it exactly once.
	Retry(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error)

	GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListPayments(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Payment, error)
}

// TransferInput carries one transfer request.
type TransferInput struct {
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Description string
	Type        string
	QRCodeID    *string
}

// KYCChecker reports the verification level of a user. The user service
// implements it.
type KYCChecker interface {
	KYCLevel(ctx context.Context, userID uuid.UUID) (string, error)
}
