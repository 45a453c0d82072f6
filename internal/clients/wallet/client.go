// Package wallet provides clients for the wallet service boundary: account
// lookups and ledger commits. The orchestrator receives a Client at
// construction time, so deployments can swap the HTTP client, the
// in-process adapter, or a test double without touching orchestration.
package wallet

import (
	"context"
	"time"

	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is the wallet service seen from the payment side.
type Client interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	GetAccountByOwner(ctx context.Context, ownerID uuid.UUID, currency string) (*Account, error)
	// ApplyTransaction commits one double-entry transaction. Replaying a
	// reference id returns the original result; a transport failure or
	// timeout yields an ambiguous error that is safe to retry with the
	// same reference id.
	ApplyTransaction(ctx context.Context, req *ApplyRequest) (*Transaction, error)
}

// Account is the wallet-side account as seen over the boundary.
type Account struct {
	ID       uuid.UUID            `json:"id"`
	OwnerID  uuid.UUID            `json:"owner_id"`
	Currency string               `json:"currency"`
	Type     models.AccountType   `json:"type"`
	Balance  decimal.Decimal      `json:"balance"`
	Status   models.AccountStatus `json:"status"`
}

// ApplyRequest is the ledger commit request.
type ApplyRequest struct {
	ReferenceID string  `json:"reference_id"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Entries     []Entry `json:"entries"`
}

// Entry is one signed posting.
type Entry struct {
	AccountID uuid.UUID       `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// Transaction is the committed result.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	ReferenceID string    `json:"reference_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
