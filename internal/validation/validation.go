// Package validation holds business-level input checks shared by services
// and request handlers.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validate is the shared struct validator for request DTOs.
var Validate = validator.New()

// SupportedCurrencies lists the ISO codes accepted for accounts.
var SupportedCurrencies = map[string]bool{
	"TND": true,
	"EUR": true,
	"USD": true,
}

// ValidCurrency reports whether the currency code is supported.
func ValidCurrency(currency string) bool {
	return SupportedCurrencies[currency]
}

// ValidAmount reports whether an amount is strictly positive and within
// the ledger's 3-fractional-digit precision.
func ValidAmount(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	return amount.Exponent() >= -3
}

var specialChars = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

// HasSpecialChar checks if a string contains at least one special character.
func HasSpecialChar(s string) bool {
	return specialChars.MatchString(s)
}
