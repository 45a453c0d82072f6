package payment

import "errors"

// Service errors
var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInvalidAmount     = errors.New("amount must be positive with at most 3 decimal places")
	ErrSelfTransfer      = errors.New("sender and recipient must differ")
	ErrSenderNotFound    = errors.New("sender wallet not found")
	ErrRecipientNotFound = errors.New("recipient wallet not found")
	ErrKYCRequired       = errors.New("both parties must have verified KYC")
)
