package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApplyRequest describes one double-entry transaction to commit.
type ApplyRequest struct {
	ReferenceID string
	Type        string
	Description string
	Entries     []EntryRequest
}

// EntryRequest is one signed posting against one account.
type EntryRequest struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
}

// BalanceCheck is the result of recomputing an account balance from its
// entry log and comparing it with the denormalized column.
type BalanceCheck struct {
	AccountID  uuid.UUID       `json:"account_id"`
	Stored     decimal.Decimal `json:"stored"`
	Recomputed decimal.Decimal `json:"recomputed"`
	Consistent bool            `json:"consistent"`
}
