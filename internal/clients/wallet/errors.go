package wallet

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound   = errors.New("wallet account not found")
	ErrAccountFrozen     = errors.New("wallet account is frozen")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrLedgerImbalance   = errors.New("ledger entries do not balance")

	// ErrAmbiguous marks failures where the commit outcome is unknown
	// (timeout, broken connection, 5xx). The caller must not assume the
	// transaction failed; retrying with the same reference id is the only
	// safe recovery.
	ErrAmbiguous = errors.New("ambiguous wallet failure")
)

// AmbiguousError wraps the underlying transport failure.
type AmbiguousError struct {
	Err error
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous wallet failure: %v", e.Err)
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }

// IsAmbiguous reports whether the commit outcome is unknown.
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguous)
}
