package qr

import "errors"

// Service errors
var (
	ErrInvalidFormat  = errors.New("invalid qr payload format")
	ErrExpired        = errors.New("qr code has expired")
	ErrNotActive      = errors.New("qr code is not active")
	ErrNotMerchant    = errors.New("only merchants can issue qr codes")
	ErrAmountRequired = errors.New("amount is required for static qr payments")
	ErrQRCodeNotFound = errors.New("qr code not found")
)
