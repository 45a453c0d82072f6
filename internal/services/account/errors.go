package account

import "errors"

// Service errors
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists for this currency")
	ErrInvalidCurrency = errors.New("invalid currency")
)
