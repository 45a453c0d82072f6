package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service errors
var (
	ErrEmptyReference    = errors.New("reference id is required")
	ErrEmptyType         = errors.New("transaction type is required")
	ErrNoEntries         = errors.New("transaction requires at least one entry")
	ErrLedgerImbalance   = errors.New("ledger imbalance")
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountFrozen     = errors.New("account is frozen")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// ImbalanceError reports entries that do not sum to zero. Never retryable
// as-is; the caller's entry set is wrong.
type ImbalanceError struct {
	Sum decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("ledger imbalance: entries sum to %s, must be 0", e.Sum)
}

func (e *ImbalanceError) Unwrap() error { return ErrLedgerImbalance }

// AccountNotFoundError identifies which entry's account is missing.
type AccountNotFoundError struct {
	AccountID uuid.UUID
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s not found", e.AccountID)
}

func (e *AccountNotFoundError) Unwrap() error { return ErrAccountNotFound }

// AccountFrozenError rejects entries against a frozen account.
type AccountFrozenError struct {
	AccountID uuid.UUID
}

func (e *AccountFrozenError) Error() string {
	return fmt.Sprintf("account %s is frozen", e.AccountID)
}

func (e *AccountFrozenError) Unwrap() error { return ErrAccountFrozen }

// InsufficientFundsError reports a liability account whose prospective
// balance would go negative. The business rule is final, not retryable.
type InsufficientFundsError struct {
	AccountID uuid.UUID
	Balance   decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds on account %s (balance %s)", e.AccountID, e.Balance)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }
